package entity

import "encoding/json"

// Nota nota de crédito emitida contra un comprobante (POST/GET /notas/).
// Igual que un comprobante, Success=false es un rechazo de SUNAT y no un error.
type Nota struct {
	ID                    int64           `json:"id"`
	ComprobanteAfectadoID int64           `json:"comprobante_afectado_id"`
	TipoDoc               string          `json:"tipo_doc"`
	Serie                 string          `json:"serie"`
	Correlativo           string          `json:"correlativo"`
	FechaEmision          string          `json:"fecha_emision,omitempty"`
	CodMotivo             string          `json:"cod_motivo"`
	Success               bool            `json:"success"`
	SunatResponse         json.RawMessage `json:"sunat_response,omitempty"`
	SunatHash             string          `json:"sunat_hash,omitempty"`
	PayloadEnviado        json.RawMessage `json:"payload_enviado,omitempty"`
}

// Numero devuelve "serie-correlativo".
func (n *Nota) Numero() string {
	return n.Serie + "-" + n.Correlativo
}

// Estado devuelve "Aceptada" o "Rechazada".
func (n *Nota) Estado() string {
	if n.Success {
		return "Aceptada"
	}
	return "Rechazada"
}

// SunatError mensaje de rechazo de SUNAT (vacío si no hay).
func (n *Nota) SunatError() string {
	return sunatError(n.SunatResponse)
}

// DocAfectado número del comprobante afectado tal como se envió a SUNAT.
func (n *Nota) DocAfectado() string {
	var p struct {
		NumDocAfectado string `json:"numDocfectado"`
	}
	if len(n.PayloadEnviado) == 0 || json.Unmarshal(n.PayloadEnviado, &p) != nil {
		return ""
	}
	return p.NumDocAfectado
}
