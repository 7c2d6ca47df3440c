package entity

// Cliente representa un cliente del emisor (persona con DNI o empresa con RUC).
type Cliente struct {
	ID              int64  `json:"id"`
	TipoDocumento   string `json:"tipo_documento"` // DNI | RUC
	NumeroDocumento string `json:"numero_documento"`
	RazonSocial     string `json:"razon_social"`
	Direccion       string `json:"direccion,omitempty"`
	Email           string `json:"email,omitempty"`
	Telefono        string `json:"telefono,omitempty"`
}
