package api

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/facturapro/internal/application/dto"
)

// ComprobanteFilename "Comprobante_{serie}-{correlativo}.{ext}" (el CDR se descarga como .zip).
func ComprobanteFilename(serie, correlativo string, kind dto.DocumentKind) string {
	return "Comprobante_" + serie + "-" + correlativo + "." + kind.Extension()
}

// CotizacionFilename "Cotizacion_{numero}_{cliente}.pdf" con el cliente sin tildes,
// en minúsculas y con todo lo que no sea [a-z0-9] reemplazado por "_".
func CotizacionFilename(numero, cliente string) string {
	return "Cotizacion_" + numero + "_" + slug(cliente) + ".pdf"
}

func slug(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	if folded == "" {
		return "cliente"
	}
	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
