package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/validation"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/quotation"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// Errores de validación del editor; ambos envuelven domain.ErrInvalidInput.
var (
	ErrSinCliente = errors.New("seleccione un cliente")
	ErrSinItems   = errors.New("agregue al menos un ítem")
)

// Editor estado del formulario de cotización. Lo usa una sola vista; no es seguro
// para uso concurrente. Los totales que muestra son vista previa: al guardar solo
// se envían datos crudos.
type Editor struct {
	id       int64
	draft    quotation.Draft
	validate *validation.Validator
}

// NewEditor formulario vacío para una cotización nueva.
func NewEditor(moneda string) *Editor {
	if moneda == "" {
		moneda = sunat.MonedaSoles
	}
	return &Editor{
		draft:    quotation.Draft{Moneda: moneda},
		validate: validation.New(),
	}
}

// EditorFor carga una cotización existente para editarla.
func EditorFor(c *entity.Cotizacion) *Editor {
	e := NewEditor(c.Moneda)
	e.id = c.ID
	e.draft.ClienteID = c.ClienteID
	if e.draft.ClienteID == 0 && c.Cliente != nil {
		e.draft.ClienteID = c.Cliente.ID
	}
	e.draft.FechaVencimiento = c.FechaVencimiento
	for _, it := range c.Items {
		e.draft.Items = append(e.draft.Items, quotation.Line{
			ProductoID:     it.ProductoID,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		})
	}
	return e
}

// ID 0 para una cotización nueva.
func (e *Editor) ID() int64 { return e.id }

func (e *Editor) SetCliente(id int64)          { e.draft.ClienteID = id }
func (e *Editor) SetMoneda(moneda string)      { e.draft.Moneda = moneda }
func (e *Editor) SetFechaVencimiento(f string) { e.draft.FechaVencimiento = f }

// AddItem agrega una línea con cantidad 1 y precio 0; devuelve su índice.
func (e *Editor) AddItem() int {
	e.draft.Items = append(e.draft.Items, quotation.Line{
		Cantidad:       decimal.NewFromInt(1),
		PrecioUnitario: decimal.Zero,
	})
	return len(e.draft.Items) - 1
}

// RemoveItem quita la línea i.
func (e *Editor) RemoveItem(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.draft.Items = append(e.draft.Items[:i], e.draft.Items[i+1:]...)
	return nil
}

// UpdateItem reemplaza la línea i.
func (e *Editor) UpdateItem(i int, l quotation.Line) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.draft.Items[i] = l
	return nil
}

// SetCantidad cambia solo la cantidad de la línea i.
func (e *Editor) SetCantidad(i int, cantidad decimal.Decimal) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.draft.Items[i].Cantidad = cantidad
	return nil
}

// PickProducto copia nombre y precio del producto a la línea i. La cantidad se conserva.
func (e *Editor) PickProducto(i int, p entity.Producto) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	id := p.ID
	l := &e.draft.Items[i]
	l.ProductoID = &id
	l.Descripcion = p.Nombre
	l.PrecioUnitario = p.PrecioUnitario
	return nil
}

// Draft copia del borrador.
func (e *Editor) Draft() quotation.Draft {
	d := e.draft
	d.Items = append([]quotation.Line(nil), e.draft.Items...)
	return d
}

// Preview totales de vista previa, recalculados en cada llamada.
func (e *Editor) Preview() quotation.Totals {
	return e.draft.Preview()
}

// FormMessage texto para el usuario de un error de Request.
func FormMessage(err error) string {
	switch {
	case errors.Is(err, ErrSinCliente):
		return "Seleccione un cliente"
	case errors.Is(err, ErrSinItems):
		return "Agregue al menos un ítem"
	default:
		return err.Error()
	}
}

// Request valida el borrador y arma el payload para el backend.
func (e *Editor) Request() (dto.CotizacionRequest, error) {
	if e.draft.ClienteID <= 0 {
		return dto.CotizacionRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrSinCliente)
	}
	if len(e.draft.Items) == 0 {
		return dto.CotizacionRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrSinItems)
	}
	req := quotation.BuildRequest(e.draft)
	if err := e.validate.Struct(req); err != nil {
		return dto.CotizacionRequest{}, err
	}
	return req, nil
}

// PreviewDocument arma los datos del PDF de vista previa.
func (e *Editor) PreviewDocument(emisor *entity.UserProfile, cliente *entity.Cliente) PreviewDocument {
	totals := e.Preview()
	lines := make([]PreviewLine, 0, len(e.draft.Items))
	for i, it := range e.draft.Items {
		lines = append(lines, PreviewLine{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          totals.Lines[i].Total,
		})
	}
	return PreviewDocument{
		Emisor:           emisor,
		Cliente:          cliente,
		Moneda:           e.draft.Moneda,
		FechaVencimiento: e.draft.FechaVencimiento,
		Lines:            lines,
		Totals:           totals,
	}
}

func (e *Editor) checkIndex(i int) error {
	if i < 0 || i >= len(e.draft.Items) {
		return fmt.Errorf("%w: ítem %d fuera de rango", domain.ErrInvalidInput, i)
	}
	return nil
}
