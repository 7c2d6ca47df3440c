package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/quotation"
)

// PreviewPDFGenerator genera localmente el PDF de un borrador de cotización.
// El PDF oficial lo genera el backend (GET /cotizaciones/:id/pdf).
type PreviewPDFGenerator interface {
	GeneratePreviewPDF(ctx context.Context, doc PreviewDocument) ([]byte, error)
}

// PreviewLine línea del borrador con su total de vista previa.
type PreviewLine struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	Total          decimal.Decimal
}

// PreviewDocument datos que necesita el PDF de vista previa.
type PreviewDocument struct {
	Emisor           *entity.UserProfile
	Cliente          *entity.Cliente
	Moneda           string
	Fecha            time.Time
	FechaVencimiento string
	Lines            []PreviewLine
	Totals           quotation.Totals
}
