package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ClienteRequest body para POST/PUT /clientes/.
// numero_documento se valida según tipo_documento (regla "documento").
type ClienteRequest struct {
	TipoDocumento   string `json:"tipo_documento" validate:"required,oneof=DNI RUC"`
	NumeroDocumento string `json:"numero_documento" validate:"required"`
	RazonSocial     string `json:"razon_social" validate:"required,max=200"`
	Direccion       string `json:"direccion,omitempty" validate:"max=300"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Telefono        string `json:"telefono,omitempty" validate:"max=20"`
}

// ProductoRequest body para POST/PUT /productos/.
type ProductoRequest struct {
	CodigoInterno     string          `json:"codigo_interno,omitempty" validate:"max=30"`
	Nombre            string          `json:"nombre" validate:"required,max=200"`
	Descripcion       string          `json:"descripcion,omitempty"`
	Moneda            string          `json:"moneda" validate:"required,moneda"`
	PrecioUnitario    decimal.Decimal `json:"precio_unitario" validate:"gte=0"`
	UnidadMedida      string          `json:"unidad_medida" validate:"required,unidad_medida"`
	TipoAfectacionIGV string          `json:"tipo_afectacion_igv" validate:"required,afectacion_igv"`
}

// DocumentoConsulta body para POST /consultar-documento.
type DocumentoConsulta struct {
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`
}

// DocumentoInfo datos devueltos por la consulta RUC/DNI.
type DocumentoInfo struct {
	Nombre          string `json:"nombre,omitempty"`
	RazonSocial     string `json:"razon_social,omitempty"`
	Nombres         string `json:"nombres,omitempty"`
	ApellidoPaterno string `json:"apellidoPaterno,omitempty"`
	ApellidoMaterno string `json:"apellidoMaterno,omitempty"`
	Direccion       string `json:"direccion,omitempty"`
	Estado          string `json:"estado,omitempty"`
}

// Name devuelve razón social, nombre, o nombres y apellidos, según lo que haya devuelto el padrón.
func (d *DocumentoInfo) Name() string {
	switch {
	case d.RazonSocial != "":
		return d.RazonSocial
	case d.Nombre != "":
		return d.Nombre
	case d.Nombres != "":
		return strings.Join(strings.Fields(d.Nombres+" "+d.ApellidoPaterno+" "+d.ApellidoMaterno), " ")
	default:
		return ""
	}
}

// Activo indica si el contribuyente no figura con un estado distinto de ACTIVO.
func (d *DocumentoInfo) Activo() bool {
	return d.Estado == "" || strings.EqualFold(d.Estado, "ACTIVO")
}
