package quotation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/application/dto"
)

// IGVRate tasa del IGV vigente en Perú. Los precios unitarios la incluyen.
var IGVRate = decimal.NewFromFloat(0.18)

const moneyPlaces = 2

// Line línea en edición. Los montos son los que ingresa el usuario (precio con IGV).
type Line struct {
	ProductoID     *int64
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// Draft cotización en edición, antes de enviarse al backend.
type Draft struct {
	ClienteID        int64
	Moneda           string
	FechaVencimiento string // YYYY-MM-DD; vacío = sin vencimiento
	Items            []Line
}

// LineAmounts desglose de una línea.
type LineAmounts struct {
	Base  decimal.Decimal
	IGV   decimal.Decimal
	Total decimal.Decimal
}

// Totals vista previa de totales. No es autoritativa: el backend recalcula al guardar.
type Totals struct {
	Lines []LineAmounts
	Base  decimal.Decimal
	IGV   decimal.Decimal
	Total decimal.Decimal
}

// LineTotal cantidad × precio redondeado half-up a 2 decimales.
func LineTotal(cantidad, precio decimal.Decimal) decimal.Decimal {
	return cantidad.Mul(precio).Round(moneyPlaces)
}

// LineBreakdown separa base imponible e IGV de una línea con precio que incluye impuesto.
// IGV = total − base, así base + IGV siempre cuadra con el total mostrado.
func LineBreakdown(cantidad, precio, rate decimal.Decimal) LineAmounts {
	total := LineTotal(cantidad, precio)
	base := cantidad.Mul(precio).Div(decimal.NewFromInt(1).Add(rate)).Round(moneyPlaces)
	return LineAmounts{Base: base, IGV: total.Sub(base), Total: total}
}

// Breakdown suma línea por línea (no divide el total agregado) para respetar el redondeo por ítem.
func Breakdown(items []Line, rate decimal.Decimal) Totals {
	t := Totals{
		Lines: make([]LineAmounts, 0, len(items)),
		Base:  decimal.Zero,
		IGV:   decimal.Zero,
		Total: decimal.Zero,
	}
	for _, it := range items {
		la := LineBreakdown(it.Cantidad, it.PrecioUnitario, rate)
		t.Lines = append(t.Lines, la)
		t.Base = t.Base.Add(la.Base)
		t.IGV = t.IGV.Add(la.IGV)
		t.Total = t.Total.Add(la.Total)
	}
	return t
}

// Preview desglose del borrador con la tasa vigente.
func (d Draft) Preview() Totals {
	return Breakdown(d.Items, IGVRate)
}

// BuildRequest arma el payload de creación/edición con datos crudos: sin total por ítem ni monto_total.
func BuildRequest(d Draft) dto.CotizacionRequest {
	req := dto.CotizacionRequest{
		ClienteID: d.ClienteID,
		Moneda:    d.Moneda,
		Items:     make([]dto.CotizacionItemRequest, 0, len(d.Items)),
	}
	if d.FechaVencimiento != "" {
		f := d.FechaVencimiento
		req.FechaVencimiento = &f
	}
	for _, it := range d.Items {
		req.Items = append(req.Items, dto.CotizacionItemRequest{
			ProductoID:     it.ProductoID,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		})
	}
	return req
}
