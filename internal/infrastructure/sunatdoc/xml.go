// Package sunatdoc inspecciona los archivos que devuelve el backend: el XML UBL 2.1
// del comprobante y el CDR (ApplicationResponse zipeado) de SUNAT.
package sunatdoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// XMLSummary datos principales de un comprobante UBL.
type XMLSummary struct {
	Documento        string // Invoice, CreditNote, DebitNote
	TipoDoc          string // catálogo 01
	Serie            string
	Correlativo      string
	FechaEmision     string
	Moneda           string
	EmisorRUC        string
	EmisorNombre     string
	ClienteDocumento string
	ClienteNombre    string
	Base             decimal.Decimal
	IGV              decimal.Decimal
	Total            decimal.Decimal
	DigestValue      string
}

// Numero "serie-correlativo".
func (s *XMLSummary) Numero() string { return s.Serie + "-" + s.Correlativo }

// Firmado indica si el XML trae ds:DigestValue.
func (s *XMLSummary) Firmado() bool { return s.DigestValue != "" }

// InspectXML lee un XML UBL. Los tags se buscan sin prefijo para tolerar distintos alias de namespace.
func InspectXML(data []byte) (*XMLSummary, error) {
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("sunatdoc: XML ilegible: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("sunatdoc: documento sin raíz")
	}

	s := &XMLSummary{Documento: root.Tag}
	numero := childText(root, "ID")
	if i := strings.LastIndexByte(numero, '-'); i > 0 {
		s.Serie, s.Correlativo = numero[:i], numero[i+1:]
	} else {
		s.Serie = numero
	}
	s.FechaEmision = childText(root, "IssueDate")
	s.Moneda = childText(root, "DocumentCurrencyCode")
	switch root.Tag {
	case "CreditNote":
		s.TipoDoc = "07"
	case "DebitNote":
		s.TipoDoc = "08"
	default:
		s.TipoDoc = childText(root, "InvoiceTypeCode")
	}

	s.EmisorRUC = text(root.FindElement("./AccountingSupplierParty/Party/PartyIdentification/ID"))
	s.EmisorNombre = text(root.FindElement("./AccountingSupplierParty/Party/PartyLegalEntity/RegistrationName"))
	s.ClienteDocumento = text(root.FindElement("./AccountingCustomerParty/Party/PartyIdentification/ID"))
	s.ClienteNombre = text(root.FindElement("./AccountingCustomerParty/Party/PartyLegalEntity/RegistrationName"))

	var err error
	if s.IGV, err = amount(root, "./TaxTotal/TaxAmount"); err != nil {
		return nil, err
	}
	totals := "./LegalMonetaryTotal"
	if root.Tag == "DebitNote" {
		totals = "./RequestedMonetaryTotal"
	}
	if s.Base, err = amount(root, totals+"/LineExtensionAmount"); err != nil {
		return nil, err
	}
	if s.Total, err = amount(root, totals+"/PayableAmount"); err != nil {
		return nil, err
	}
	s.DigestValue = text(root.FindElement("//DigestValue"))
	return s, nil
}

// newDocument acepta XML declarados en ISO-8859-1, frecuentes en los CDR de SUNAT.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(label) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "UTF-8", "":
			return input, nil
		default:
			return nil, fmt.Errorf("sunatdoc: charset no soportado %q", label)
		}
	}
	return doc
}

func childText(e *etree.Element, tag string) string {
	return text(e.SelectElement(tag))
}

func text(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Text())
}

func amount(root *etree.Element, path string) (decimal.Decimal, error) {
	v := text(root.FindElement(path))
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sunatdoc: monto inválido en %s: %q", path, v)
	}
	return d, nil
}
