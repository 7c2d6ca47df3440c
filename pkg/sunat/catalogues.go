// Package sunat contiene catálogos y validaciones alineados a los anexos de
// comprobantes de pago electrónicos de SUNAT (Perú).
package sunat

// =============================================================================
// Catálogo 06 - Tipos de documento de identidad
// =============================================================================

const (
	DocIdentidadSinDocumento = "0"
	DocIdentidadDNI          = "1"
	DocIdentidadCarnetExt    = "4"
	DocIdentidadRUC          = "6"
	DocIdentidadPasaporte    = "7"
)

// Nombres cortos usados por el backend en tipo_documento.
const (
	TipoDocumentoDNI = "DNI"
	TipoDocumentoRUC = "RUC"
)

// CodigoDocumentoIdentidad traduce "DNI"/"RUC" al código del catálogo 06.
func CodigoDocumentoIdentidad(tipo string) string {
	switch tipo {
	case TipoDocumentoDNI:
		return DocIdentidadDNI
	case TipoDocumentoRUC:
		return DocIdentidadRUC
	default:
		return DocIdentidadSinDocumento
	}
}

// =============================================================================
// Catálogo 01 - Tipos de comprobante
// =============================================================================

const (
	ComprobanteFactura     = "01"
	ComprobanteBoleta      = "03"
	ComprobanteNotaCredito = "07"
	ComprobanteNotaDebito  = "08"
	ComprobanteGuia        = "09"
)

// ValidComprobanteCodes tipos de comprobante que se pueden emitir desde una cotización.
var ValidComprobanteCodes = map[string]bool{
	ComprobanteFactura: true,
	ComprobanteBoleta:  true,
}

// NombreComprobante devuelve el nombre legible del tipo de comprobante.
func NombreComprobante(code string) string {
	switch code {
	case ComprobanteFactura:
		return "Factura"
	case ComprobanteBoleta:
		return "Boleta"
	case ComprobanteNotaCredito:
		return "Nota de crédito"
	case ComprobanteNotaDebito:
		return "Nota de débito"
	case ComprobanteGuia:
		return "Guía de remisión"
	default:
		return "Comprobante"
	}
}

// =============================================================================
// Catálogo 09 - Motivos de nota de crédito
// =============================================================================

// MotivoAnulacion anula la operación completa; un comprobante con una nota
// aceptada con este motivo se considera anulado.
const MotivoAnulacion = "01"

// MotivosNotaCredito código → descripción que se envía como descripcion_motivo.
var MotivosNotaCredito = map[string]string{
	"01": "Anulación de la operación",
	"02": "Anulación por error en el RUC",
	"03": "Corrección por error en la descripción",
	"04": "Descuento global",
	"05": "Descuento por ítem",
	"06": "Devolución total",
	"07": "Devolución por ítem",
	"08": "Bonificación",
	"09": "Disminución en el valor",
	"10": "Otros Conceptos",
}

// =============================================================================
// Catálogos 18 y 20 - Guía de remisión
// =============================================================================

const (
	ModalidadTransportePublico = "01"
	ModalidadTransportePrivado = "02"
)

// ValidModalidadTraslado catálogo 18.
var ValidModalidadTraslado = map[string]bool{
	ModalidadTransportePublico: true,
	ModalidadTransportePrivado: true,
}

// MotivosTraslado catálogo 20 (uso común).
var MotivosTraslado = map[string]string{
	"01": "Venta",
	"02": "Compra",
	"04": "Traslado entre establecimientos de la misma empresa",
	"08": "Importación",
	"09": "Exportación",
	"13": "Otros",
	"14": "Venta sujeta a confirmación del comprador",
	"18": "Traslado emisor itinerante CP",
	"19": "Traslado a zona primaria",
}

// =============================================================================
// Catálogo 03 - Unidades de medida (uso común)
// =============================================================================

const (
	UnitUnidadBienes    = "NIU" // Unidad (bienes)
	UnitUnidadServicios = "ZZ"  // Unidad (servicios)
	UnitKilogramo       = "KGM"
	UnitLitro           = "LTR"
	UnitMetro           = "MTR"
	UnitCaja            = "BX"
	UnitDocena          = "DZN"
	UnitHora            = "HUR"
)

// ValidMeasurementUnitCodes códigos de unidad de medida aceptados en productos.
var ValidMeasurementUnitCodes = map[string]bool{
	UnitUnidadBienes: true, UnitUnidadServicios: true, UnitKilogramo: true,
	UnitLitro: true, UnitMetro: true, UnitCaja: true, UnitDocena: true, UnitHora: true,
}

// =============================================================================
// Catálogo 07 - Tipos de afectación del IGV
// =============================================================================

const (
	AfectacionGravado     = "10" // Gravado - Operación onerosa
	AfectacionExonerado   = "20" // Exonerado - Operación onerosa
	AfectacionInafecto    = "30" // Inafecto - Operación onerosa
	AfectacionExportacion = "40" // Exportación
)

// ValidAfectacionIGVCodes códigos de afectación del IGV aceptados.
var ValidAfectacionIGVCodes = map[string]bool{
	AfectacionGravado: true, AfectacionExonerado: true,
	AfectacionInafecto: true, AfectacionExportacion: true,
}

// =============================================================================
// Catálogo 02 - Monedas
// =============================================================================

const (
	MonedaSoles   = "PEN"
	MonedaDolares = "USD"
)

// ValidMonedas monedas admitidas en cotizaciones y productos.
var ValidMonedas = map[string]bool{MonedaSoles: true, MonedaDolares: true}
