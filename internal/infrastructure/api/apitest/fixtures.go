package apitest

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsAppResp = "urn:oasis:names:specification:ubl:schema:xsd:ApplicationResponse-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	nsExt     = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	nsDs      = "http://www.w3.org/2000/09/xmldsig#"
)

// Invoice datos mínimos para generar un XML UBL 2.1 de factura/boleta SUNAT.
type Invoice struct {
	EmisorRUC      string
	EmisorNombre   string
	TipoDoc        string // 01 factura, 03 boleta
	Serie          string
	Correlativo    string
	FechaEmision   string
	Moneda         string
	ClienteTipoDoc string // catálogo 06
	ClienteNumero  string
	ClienteNombre  string
	Base           decimal.Decimal
	IGV            decimal.Decimal
	Total          decimal.Decimal
	Digest         string
}

// InvoiceXML genera el XML firmado (firma simulada: solo DigestValue) tal como lo devuelve /facturacion/xml.
func InvoiceXML(inv Invoice) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", nsInvoice)
	root.CreateAttr("xmlns:cac", nsCac)
	root.CreateAttr("xmlns:cbc", nsCbc)
	root.CreateAttr("xmlns:ext", nsExt)
	root.CreateAttr("xmlns:ds", nsDs)

	content := root.CreateElement("ext:UBLExtensions").
		CreateElement("ext:UBLExtension").
		CreateElement("ext:ExtensionContent")
	sig := content.CreateElement("ds:Signature")
	sig.CreateAttr("Id", "SignSUNAT")
	ref := sig.CreateElement("ds:SignedInfo").CreateElement("ds:Reference")
	ref.CreateAttr("URI", "")
	ref.CreateElement("ds:DigestValue").SetText(inv.Digest)

	root.CreateElement("cbc:UBLVersionID").SetText("2.1")
	root.CreateElement("cbc:CustomizationID").SetText("2.0")
	root.CreateElement("cbc:ID").SetText(inv.Serie + "-" + inv.Correlativo)
	root.CreateElement("cbc:IssueDate").SetText(inv.FechaEmision)
	code := root.CreateElement("cbc:InvoiceTypeCode")
	code.CreateAttr("listID", "0101")
	code.SetText(inv.TipoDoc)
	root.CreateElement("cbc:DocumentCurrencyCode").SetText(inv.Moneda)

	party(root.CreateElement("cac:AccountingSupplierParty"), "6", inv.EmisorRUC, inv.EmisorNombre)
	party(root.CreateElement("cac:AccountingCustomerParty"), inv.ClienteTipoDoc, inv.ClienteNumero, inv.ClienteNombre)

	amount(root.CreateElement("cac:TaxTotal"), "cbc:TaxAmount", inv.Moneda, inv.IGV)
	totals := root.CreateElement("cac:LegalMonetaryTotal")
	amount(totals, "cbc:LineExtensionAmount", inv.Moneda, inv.Base)
	amount(totals, "cbc:PayableAmount", inv.Moneda, inv.Total)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		panic(err)
	}
	return out
}

func party(parent *etree.Element, scheme, id, name string) {
	p := parent.CreateElement("cac:Party")
	pid := p.CreateElement("cac:PartyIdentification").CreateElement("cbc:ID")
	pid.CreateAttr("schemeID", scheme)
	pid.SetText(id)
	p.CreateElement("cac:PartyLegalEntity").CreateElement("cbc:RegistrationName").SetText(name)
}

func amount(parent *etree.Element, tag, moneda string, v decimal.Decimal) {
	e := parent.CreateElement(tag)
	e.CreateAttr("currencyID", moneda)
	e.SetText(v.StringFixed(2))
}

// CDRXML ApplicationResponse de SUNAT para el comprobante numero (serie-correlativo).
func CDRXML(numero, responseCode, description string) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("ar:ApplicationResponse")
	root.CreateAttr("xmlns:ar", nsAppResp)
	root.CreateAttr("xmlns:cac", nsCac)
	root.CreateAttr("xmlns:cbc", nsCbc)
	root.CreateElement("cbc:UBLVersionID").SetText("2.0")
	root.CreateElement("cbc:ID").SetText("1760000000000")
	root.CreateElement("cbc:IssueDate").SetText("2026-10-16")
	root.CreateElement("cbc:ResponseDate").SetText("2026-10-16")

	dr := root.CreateElement("cac:DocumentResponse")
	resp := dr.CreateElement("cac:Response")
	resp.CreateElement("cbc:ReferenceID").SetText(numero)
	resp.CreateElement("cbc:ResponseCode").SetText(responseCode)
	resp.CreateElement("cbc:Description").SetText(description)
	dr.CreateElement("cac:DocumentReference").CreateElement("cbc:ID").SetText(numero)

	out, err := doc.WriteToBytes()
	if err != nil {
		panic(err)
	}
	return out
}

// CDRZip empaqueta el CDR como lo entrega SUNAT: R-{ruc}-{tipo}-{serie}-{correlativo}.xml dentro de un zip.
func CDRZip(emisorRUC, tipoDoc, serie, correlativo, responseCode, description string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("dummy/"); err != nil {
		panic(err)
	}
	name := fmt.Sprintf("R-%s-%s-%s-%s.xml", emisorRUC, tipoDoc, serie, correlativo)
	w, err := zw.Create(name)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(CDRXML(serie+"-"+correlativo, responseCode, description)); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
