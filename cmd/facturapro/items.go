package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain"
)

// stringList flag repetible (-item a -item b).
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ", ") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// freeItem línea libre "descripcion;cantidad;precio".
type freeItem struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// productItem línea de catálogo "producto_id:cantidad".
type productItem struct {
	ProductoID int64
	Cantidad   decimal.Decimal
}

func parseFreeItem(raw string) (freeItem, error) {
	parts := strings.Split(raw, ";")
	if len(parts) != 3 {
		return freeItem{}, fmt.Errorf("%w: ítem %q: se espera descripcion;cantidad;precio", domain.ErrInvalidInput, raw)
	}
	desc := strings.TrimSpace(parts[0])
	if desc == "" {
		return freeItem{}, fmt.Errorf("%w: ítem %q: descripción vacía", domain.ErrInvalidInput, raw)
	}
	cant, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return freeItem{}, fmt.Errorf("%w: ítem %q: cantidad: %v", domain.ErrInvalidInput, raw, err)
	}
	precio, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return freeItem{}, fmt.Errorf("%w: ítem %q: precio: %v", domain.ErrInvalidInput, raw, err)
	}
	return freeItem{Descripcion: desc, Cantidad: cant, PrecioUnitario: precio}, nil
}

func parseProductItem(raw string) (productItem, error) {
	idPart, cantPart, ok := strings.Cut(raw, ":")
	if !ok {
		cantPart = "1"
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil || id <= 0 {
		return productItem{}, fmt.Errorf("%w: producto %q: id inválido", domain.ErrInvalidInput, raw)
	}
	cant, err := decimal.NewFromString(strings.TrimSpace(cantPart))
	if err != nil {
		return productItem{}, fmt.Errorf("%w: producto %q: cantidad: %v", domain.ErrInvalidInput, raw, err)
	}
	return productItem{ProductoID: id, Cantidad: cant}, nil
}

// parseBajaItem factura a dar de baja "comprobante_id:motivo".
func parseBajaItem(raw string) (dto.BajaItem, error) {
	idPart, motivo, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(motivo) == "" {
		return dto.BajaItem{}, fmt.Errorf("%w: baja %q: se espera comprobante_id:motivo", domain.ErrInvalidInput, raw)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil || id <= 0 {
		return dto.BajaItem{}, fmt.Errorf("%w: baja %q: id inválido", domain.ErrInvalidInput, raw)
	}
	return dto.BajaItem{ComprobanteID: id, Motivo: strings.TrimSpace(motivo)}, nil
}
