package entity

import (
	"encoding/json"

	"github.com/jhoicas/facturapro/pkg/sunat"
)

// Comprobante comprobante electrónico emitido (inmutable una vez creado).
// Success=false representa un rechazo de SUNAT: es un estado final válido, no un error.
type Comprobante struct {
	ID             int64           `json:"id"`
	CotizacionID   *int64          `json:"cotizacion_id,omitempty"`
	TipoDoc        string          `json:"tipo_doc"`
	Serie          string          `json:"serie"`
	Correlativo    string          `json:"correlativo"`
	FechaEmision   string          `json:"fecha_emision,omitempty"`
	Success        bool            `json:"success"`
	SunatResponse  json.RawMessage `json:"sunat_response,omitempty"`
	SunatHash      string          `json:"sunat_hash,omitempty"`
	PayloadEnviado json.RawMessage `json:"payload_enviado,omitempty"`
	NotasAfectadas []NotaAfectada  `json:"notas_afectadas,omitempty"`
}

// NotaAfectada resumen de una nota emitida contra el comprobante.
type NotaAfectada struct {
	ID        int64  `json:"id"`
	CodMotivo string `json:"cod_motivo"`
	Success   bool   `json:"success"`
}

type sunatResponse struct {
	Success     *bool           `json:"success"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	CDRResponse json.RawMessage `json:"cdrResponse"`
	CDRZip      string          `json:"cdrZip"`
}

// Numero devuelve "serie-correlativo".
func (c *Comprobante) Numero() string {
	return c.Serie + "-" + c.Correlativo
}

// Estado devuelve "Aceptado" o "Rechazado".
func (c *Comprobante) Estado() string {
	if c.Success {
		return "Aceptado"
	}
	return "Rechazado"
}

// Anulado indica si tiene una nota de crédito aceptada por anulación de la operación.
func (c *Comprobante) Anulado() bool {
	for _, n := range c.NotasAfectadas {
		if n.Success && n.CodMotivo == sunat.MotivoAnulacion {
			return true
		}
	}
	return false
}

// SunatError mensaje de rechazo de SUNAT (vacío si no hay).
func (c *Comprobante) SunatError() string {
	return sunatError(c.SunatResponse)
}

// HasCDR indica si la respuesta de SUNAT trae constancia de recepción descargable.
func (c *Comprobante) HasCDR() bool {
	r, ok := parseSunat(c.SunatResponse)
	if !ok {
		return false
	}
	return (len(r.CDRResponse) > 0 && string(r.CDRResponse) != "null") || r.CDRZip != ""
}

func sunatError(raw json.RawMessage) string {
	r, ok := parseSunat(raw)
	if !ok || r.Error == nil {
		return ""
	}
	return r.Error.Message
}

func parseSunat(raw json.RawMessage) (sunatResponse, bool) {
	var r sunatResponse
	if len(raw) == 0 {
		return r, false
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, false
	}
	return r, true
}
