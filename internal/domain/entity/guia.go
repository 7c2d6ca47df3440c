package entity

import "encoding/json"

// GuiaRemision guía de remisión remitente emitida (serie T001).
type GuiaRemision struct {
	ID             int64           `json:"id"`
	TipoDoc        string          `json:"tipo_doc"`
	Serie          string          `json:"serie"`
	Correlativo    string          `json:"correlativo"`
	FechaEmision   string          `json:"fecha_emision,omitempty"`
	Success        bool            `json:"success"`
	SunatResponse  json.RawMessage `json:"sunat_response,omitempty"`
	SunatHash      string          `json:"sunat_hash,omitempty"`
	PayloadEnviado json.RawMessage `json:"payload_enviado,omitempty"`
}

// Numero devuelve "serie-correlativo".
func (g *GuiaRemision) Numero() string {
	return g.Serie + "-" + g.Correlativo
}

// SunatError mensaje de rechazo de SUNAT (vacío si no hay).
func (g *GuiaRemision) SunatError() string {
	return sunatError(g.SunatResponse)
}

// Destinatario razón social del destinatario según el payload enviado.
func (g *GuiaRemision) Destinatario() string {
	var p struct {
		Destinatario struct {
			RznSocial string `json:"rznSocial"`
		} `json:"destinatario"`
	}
	if len(g.PayloadEnviado) == 0 || json.Unmarshal(g.PayloadEnviado, &p) != nil {
		return ""
	}
	return p.Destinatario.RznSocial
}
