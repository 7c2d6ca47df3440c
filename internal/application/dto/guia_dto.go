package dto

import "github.com/shopspring/decimal"

// GuiaRemisionRequest body para POST /guias-remision/. Los nombres JSON son los
// del proveedor de facturación, que el backend reenvía sin renombrar.
type GuiaRemisionRequest struct {
	Destinatario  DestinatarioGuia   `json:"destinatario" validate:"required"`
	CodTraslado   string             `json:"codTraslado" validate:"required,motivo_traslado"`
	ModTraslado   string             `json:"modTraslado" validate:"required,modalidad_traslado"`
	FecTraslado   string             `json:"fecTraslado" validate:"required,datetime=2006-01-02"`
	PesoTotal     decimal.Decimal    `json:"pesoTotal" validate:"gt=0"`
	Partida       DireccionGuia      `json:"partida" validate:"required"`
	Llegada       DireccionGuia      `json:"llegada" validate:"required"`
	Transportista *TransportistaGuia `json:"transportista,omitempty"`
	Conductor     *ConductorGuia     `json:"conductor,omitempty"`
	Bienes        []BienGuia         `json:"bienes" validate:"required,min=1,dive"`
}

// DestinatarioGuia receptor de los bienes.
type DestinatarioGuia struct {
	TipoDoc   string `json:"tipoDoc" validate:"required"`
	NumDoc    string `json:"numDoc" validate:"required"`
	RznSocial string `json:"rznSocial" validate:"required"`
}

// DireccionGuia punto de partida o llegada.
type DireccionGuia struct {
	Ubigeo    string `json:"ubigueo" validate:"required,ubigeo"`
	Direccion string `json:"direccion" validate:"required"`
}

// TransportistaGuia empresa de transporte (modalidad pública).
type TransportistaGuia struct {
	TipoDoc   string `json:"tipoDoc,omitempty"`
	NumDoc    string `json:"numDoc,omitempty" validate:"omitempty,ruc"`
	RznSocial string `json:"rznSocial,omitempty"`
	Placa     string `json:"placa,omitempty"`
}

// ConductorGuia conductor del vehículo (modalidad privada).
type ConductorGuia struct {
	Tipo      string `json:"tipo"`
	TipoDoc   string `json:"tipoDoc" validate:"required"`
	NumDoc    string `json:"numDoc" validate:"required"`
	Nombres   string `json:"nombres" validate:"required"`
	Apellidos string `json:"apellidos" validate:"required"`
	Licencia  string `json:"licencia" validate:"required"`
}

// BienGuia bien trasladado.
type BienGuia struct {
	Descripcion string          `json:"descripcion" validate:"required"`
	Cantidad    decimal.Decimal `json:"cantidad" validate:"gt=0"`
	Unidad      string          `json:"unidad" validate:"required,unidad_medida"`
}
