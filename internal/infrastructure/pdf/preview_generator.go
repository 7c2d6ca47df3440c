// Package pdf genera la vista previa local de una cotización en borrador.
// El PDF oficial lo emite el backend; este documento no tiene validez tributaria.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + RUC        │  COTIZACIÓN (BORRADOR) + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Razón social + documento                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Total                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Op. gravada / IGV 18% / TOTAL                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: BORRADOR - NO VÁLIDO + cuentas bancarias            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/application/billing"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// DraftWatermark leyenda que marca el documento como no válido.
const DraftWatermark = "BORRADOR - NO VÁLIDO"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	defaultPrimary = props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray      = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDraft     = &props.Color{Red: 200, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PreviewGenerator implementa billing.PreviewPDFGenerator usando Maroto v2.
type PreviewGenerator struct{}

var _ billing.PreviewPDFGenerator = (*PreviewGenerator)(nil)

// NewPreviewGenerator construye el generador.
func NewPreviewGenerator() *PreviewGenerator { return &PreviewGenerator{} }

// GeneratePreviewPDF genera el PDF y devuelve sus bytes.
func (g *PreviewGenerator) GeneratePreviewPDF(ctx context.Context, doc billing.PreviewDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emisor := doc.Emisor
	if emisor == nil {
		emisor = &entity.UserProfile{}
	}
	primary := primaryColor(emisor.PrimaryColor)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización (borrador)", true).
		WithAuthor(emisor.DisplayName(), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, emisor, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(clienteRow(doc.Cliente, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(primary))
	m.AddRows(tableDetailRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc, primary))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(emisor)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar vista previa: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc billing.PreviewDocument, emisor *entity.UserProfile, primary *props.Color) core.Row {
	fecha := doc.Fecha.Format("02/01/2006")
	venc := "Vence: " + nonEmpty(doc.FechaVencimiento, "—")

	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(emisor.BusinessName, "Emisor sin configurar"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: primary, Top: 1,
			}),
			text.New("RUC: "+nonEmpty(emisor.BusinessRUC, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(emisor.BusinessAddress, props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: primary, Top: 1,
			}),
			text.New(DraftWatermark, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorDraft, Top: 8,
			}),
			text.New("Fecha: "+fecha+"   "+venc, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func clienteRow(c *entity.Cliente, primary *props.Color) core.Row {
	name, docLine := "Cliente no seleccionado", ""
	if c != nil {
		name = c.RazonSocial
		docLine = fmt.Sprintf("%s: %s   |   Dirección: %s", c.TipoDocumento, c.NumeroDocumento, nonEmpty(c.Direccion, "—"))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1,
			}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(docLine, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow(primary *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Descripción", 6, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: primary})
}

func tableDetailRows(doc billing.PreviewDocument) []core.Row {
	symbol := currencySymbol(doc.Moneda)
	result := make([]core.Row, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.Cantidad.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.Descripcion, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(symbol+" "+FormatMoney(l.PrecioUnitario), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(symbol+" "+FormatMoney(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(doc billing.PreviewDocument, primary *props.Color) core.Row {
	symbol := currencySymbol(doc.Moneda)
	label := func(s string, size float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Color: c})
	}
	value := func(d decimal.Decimal, size float64, c *props.Color, top float64) core.Component {
		return text.New(symbol+" "+FormatMoney(d), props.Text{Size: size, Align: align.Right, Right: 1, Color: c, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Op. gravada:", 9, nil),
			text.New("IGV (18%):", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 11, Color: primary}),
		),
		col.New(3).Add(
			value(doc.Totals.Base, 9, nil, 0),
			value(doc.Totals.IGV, 9, nil, 5),
			value(doc.Totals.Total, 10, primary, 11),
		),
	)
}

func footerRows(emisor *entity.UserProfile) []core.Row {
	rows := []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New(DraftWatermark+" - Vista previa sin valor tributario", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorDraft, Top: 2,
			}),
		)),
	}
	for _, note := range []string{emisor.PDFNote1, emisor.PDFNote2} {
		if note == "" {
			continue
		}
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(note, props.Text{Size: 7.5, Color: colorGray, Top: 1}),
		)))
	}
	for _, a := range emisor.BankAccounts {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s %s: %s   CCI: %s", a.Banco, a.Moneda, a.Cuenta, a.CCI), props.Text{
				Size: 7, Color: colorGray, Top: 0.5,
			}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func currencySymbol(moneda string) string {
	if moneda == sunat.MonedaDolares {
		return "US$"
	}
	return "S/"
}

// primaryColor interpreta #RRGGBB; un color inválido usa el azul por defecto.
func primaryColor(hex string) *props.Color {
	c := defaultPrimary
	if len(hex) != 7 || hex[0] != '#' {
		return &c
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return &c
	}
	return &props.Color{Red: int((v >> 16) & 0xff), Green: int((v >> 8) & 0xff), Blue: int(v & 0xff)}
}

// FormatMoney separa miles con coma y fija 2 decimales.
// Ej: 25000 → "25,000.00", 1234567.5 → "1,234,567.50"
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
