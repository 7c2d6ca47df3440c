package entity

import "github.com/shopspring/decimal"

// Producto representa un producto o servicio del catálogo del emisor.
type Producto struct {
	ID                int64           `json:"id"`
	CodigoInterno     string          `json:"codigo_interno,omitempty"`
	Nombre            string          `json:"nombre"`
	Descripcion       string          `json:"descripcion,omitempty"`
	Moneda            string          `json:"moneda"`
	PrecioUnitario    decimal.Decimal `json:"precio_unitario"`      // incluye IGV
	UnidadMedida      string          `json:"unidad_medida"`        // catálogo 03 SUNAT
	TipoAfectacionIGV string          `json:"tipo_afectacion_igv"` // catálogo 07 SUNAT
}
