package sunatdoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// CDRSummary respuesta de SUNAT contenida en el CDR.
type CDRSummary struct {
	Filename     string
	ReferenceID  string
	ResponseCode string
	Description  string
	Notes        []string
}

// Accepted código 0 (aceptado) o ≥ 4000 (aceptado con observaciones).
func (c *CDRSummary) Accepted() bool {
	code, err := strconv.Atoi(c.ResponseCode)
	if err != nil {
		return false
	}
	return code == 0 || code >= 4000
}

// Observed aceptado con observaciones.
func (c *CDRSummary) Observed() bool {
	code, err := strconv.Atoi(c.ResponseCode)
	return err == nil && code >= 4000
}

// InspectCDR abre el zip del CDR y lee el primer ApplicationResponse (R-*.xml).
func InspectCDR(data []byte) (*CDRSummary, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("sunatdoc: CDR no es un zip válido: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".xml") {
			continue
		}
		raw, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		s, err := InspectApplicationResponse(raw)
		if err != nil {
			return nil, err
		}
		s.Filename = path.Base(f.Name)
		return s, nil
	}
	return nil, fmt.Errorf("sunatdoc: el zip no contiene un XML de respuesta")
}

// InspectApplicationResponse lee el XML del CDR ya descomprimido.
func InspectApplicationResponse(data []byte) (*CDRSummary, error) {
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("sunatdoc: CDR ilegible: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "ApplicationResponse" {
		return nil, fmt.Errorf("sunatdoc: se esperaba ApplicationResponse")
	}
	resp := root.FindElement("./DocumentResponse/Response")
	if resp == nil {
		return nil, fmt.Errorf("sunatdoc: CDR sin DocumentResponse/Response")
	}
	s := &CDRSummary{
		ReferenceID:  childText(resp, "ReferenceID"),
		ResponseCode: childText(resp, "ResponseCode"),
		Description:  childText(resp, "Description"),
	}
	for _, n := range root.SelectElements("Note") {
		if t := text(n); t != "" {
			s.Notes = append(s.Notes, t)
		}
	}
	return s, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("sunatdoc: abrir %s: %w", f.Name, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(io.LimitReader(rc, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("sunatdoc: leer %s: %w", f.Name, err)
	}
	return raw, nil
}
