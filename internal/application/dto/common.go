package dto

// ErrorResponse cuerpo de error HTTP del gateway.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DocumentKind tipo de archivo descargable de un comprobante.
type DocumentKind string

const (
	DocumentPDF DocumentKind = "pdf"
	DocumentXML DocumentKind = "xml"
	DocumentCDR DocumentKind = "cdr"
)

// Extension extensión de archivo del tipo de documento (el CDR llega como zip).
func (k DocumentKind) Extension() string {
	if k == DocumentCDR {
		return "zip"
	}
	return string(k)
}

// Valid indica si el tipo es uno de los soportados por /facturacion/{pdf|xml|cdr}.
func (k DocumentKind) Valid() bool {
	return k == DocumentPDF || k == DocumentXML || k == DocumentCDR
}

// Document archivo binario descargado del backend, con nombre derivado.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
