package entity

import "github.com/shopspring/decimal"

// Estados de una cotización.
const (
	CotizacionPendiente = "pendiente"
	CotizacionFacturada = "facturada"
	CotizacionAnulada   = "anulada"
)

// CotizacionItem línea de una cotización. Total lo calcula el backend.
type CotizacionItem struct {
	ID             int64            `json:"id,omitempty"`
	ProductoID     *int64           `json:"producto_id,omitempty"`
	Descripcion    string           `json:"descripcion"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	PrecioUnitario decimal.Decimal  `json:"precio_unitario"`
	Total          *decimal.Decimal `json:"total,omitempty"`
}

// Cotizacion cabecera de una cotización. MontoTotal es autoritativo solo cuando viene del backend.
type Cotizacion struct {
	ID               int64            `json:"id"`
	NumeroCotizacion string           `json:"numero_cotizacion"`
	ClienteID        int64            `json:"cliente_id,omitempty"`
	Cliente          *Cliente         `json:"cliente,omitempty"`
	ClienteNombre    string           `json:"nombre_cliente,omitempty"`
	Moneda           string           `json:"moneda"`
	Items            []CotizacionItem `json:"items"`
	Estado           string           `json:"estado"`
	FechaEmision     string           `json:"fecha_emision,omitempty"`
	FechaVencimiento string           `json:"fecha_vencimiento,omitempty"`
	MontoTotal       *decimal.Decimal `json:"monto_total,omitempty"`
	Comprobante      *Comprobante     `json:"comprobante,omitempty"`
}

// Pendiente indica si la cotización aún puede facturarse.
func (c *Cotizacion) Pendiente() bool {
	return c.Comprobante == nil && (c.Estado == "" || c.Estado == CotizacionPendiente)
}

// NombreCliente razón social del cliente embebido o, en su defecto, nombre_cliente.
func (c *Cotizacion) NombreCliente() string {
	if c.Cliente != nil && c.Cliente.RazonSocial != "" {
		return c.Cliente.RazonSocial
	}
	return c.ClienteNombre
}
