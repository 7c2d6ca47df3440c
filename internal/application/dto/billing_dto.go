package dto

import "github.com/shopspring/decimal"

// CotizacionRequest body para POST/PUT /cotizaciones/.
// No lleva totales: el backend es la única autoridad sobre montos persistidos.
type CotizacionRequest struct {
	ClienteID        int64                   `json:"cliente_id" validate:"required,gt=0"`
	Moneda           string                  `json:"moneda" validate:"required,moneda"`
	FechaVencimiento *string                 `json:"fecha_vencimiento"`
	Items            []CotizacionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CotizacionItemRequest línea del payload: solo datos crudos.
type CotizacionItemRequest struct {
	ProductoID     *int64          `json:"producto_id"`
	Descripcion    string          `json:"descripcion" validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"gte=0"`
}

// FacturarRequest body para POST /cotizaciones/:id/facturar.
type FacturarRequest struct {
	TipoComprobante string `json:"tipo_comprobante"`
}

// DocumentRequest body para POST /facturacion/{pdf|xml|cdr}.
type DocumentRequest struct {
	ComprobanteID int64 `json:"comprobante_id"`
}

// TipoNotaCredito único tipo de nota que emite la aplicación.
const TipoNotaCredito = "credito"

// NotaRequest body para POST /notas/.
type NotaRequest struct {
	ComprobanteAfectadoID int64  `json:"comprobante_afectado_id" validate:"required,gt=0"`
	TipoNota              string `json:"tipo_nota" validate:"required,oneof=credito"`
	CodMotivo             string `json:"cod_motivo" validate:"required,motivo_nota"`
	DescripcionMotivo     string `json:"descripcion_motivo" validate:"required"`
}

// ResumenDiarioRequest body para POST /resumen-diario/: agrupa las boletas de la fecha.
type ResumenDiarioRequest struct {
	Fecha string `json:"fecha" validate:"required,datetime=2006-01-02"`
}

// ComunicacionBajaRequest body para POST /comunicacion-baja/.
type ComunicacionBajaRequest struct {
	Items []BajaItem `json:"items_a_dar_de_baja" validate:"required,min=1,dive"`
}

// BajaItem factura a dar de baja con su motivo.
type BajaItem struct {
	ComprobanteID int64  `json:"comprobante_id" validate:"required,gt=0"`
	Motivo        string `json:"motivo" validate:"required,max=100"`
}

// TicketResponse respuesta de los envíos asíncronos a SUNAT (resumen y baja).
type TicketResponse struct {
	Ticket string `json:"ticket"`
}
