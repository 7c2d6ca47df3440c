package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturapro/internal/domain/entity"
)

func TestComprobante_SunatRechazo(t *testing.T) {
	c := entity.Comprobante{
		Serie:         "F001",
		Correlativo:   "15",
		Success:       false,
		SunatResponse: json.RawMessage(`{"success":false,"error":{"code":"2800","message":"El dato ingresado en el tipo de documento de identidad del receptor no esta permitido."}}`),
	}
	assert.Equal(t, "F001-15", c.Numero())
	assert.Equal(t, "Rechazado", c.Estado())
	assert.Contains(t, c.SunatError(), "tipo de documento")
	assert.False(t, c.HasCDR())
}

func TestComprobante_AceptadoConCDR(t *testing.T) {
	c := entity.Comprobante{
		Success:       true,
		SunatResponse: json.RawMessage(`{"success":true,"cdrResponse":{"code":"0","description":"La Factura numero F001-16, ha sido aceptada"},"cdrZip":"UEsDBA=="}`),
	}
	assert.Equal(t, "Aceptado", c.Estado())
	assert.Empty(t, c.SunatError())
	assert.True(t, c.HasCDR())
}

func TestComprobante_SunatResponseInvalido(t *testing.T) {
	c := entity.Comprobante{SunatResponse: json.RawMessage(`no-json`)}
	assert.Empty(t, c.SunatError())
	assert.False(t, c.HasCDR())
}

func TestComprobante_AnuladoSoloConNotaAceptadaDeAnulacion(t *testing.T) {
	c := entity.Comprobante{Success: true}
	assert.False(t, c.Anulado())

	c.NotasAfectadas = []entity.NotaAfectada{{ID: 1, CodMotivo: "01", Success: false}}
	assert.False(t, c.Anulado(), "una nota rechazada no anula")

	c.NotasAfectadas = append(c.NotasAfectadas, entity.NotaAfectada{ID: 2, CodMotivo: "04", Success: true})
	assert.False(t, c.Anulado(), "un descuento global no anula")

	c.NotasAfectadas = append(c.NotasAfectadas, entity.NotaAfectada{ID: 3, CodMotivo: "01", Success: true})
	assert.True(t, c.Anulado())
}

func TestNota_DocAfectadoYRechazo(t *testing.T) {
	n := entity.Nota{
		Serie:          "FC01",
		Correlativo:    "3",
		PayloadEnviado: json.RawMessage(`{"numDocfectado":"F001-15","codMotivo":"01"}`),
		SunatResponse:  json.RawMessage(`{"success":false,"error":{"code":"2116","message":"El tipo de documento modificado no corresponde"}}`),
	}
	assert.Equal(t, "FC01-3", n.Numero())
	assert.Equal(t, "F001-15", n.DocAfectado())
	assert.Equal(t, "Rechazada", n.Estado())
	assert.Equal(t, "El tipo de documento modificado no corresponde", n.SunatError())
}

func TestAdminUser_Estado(t *testing.T) {
	assert.Equal(t, "Activo", (&entity.AdminUser{IsActive: true}).Estado())
	assert.Equal(t, "Inactivo (falta de pago)", (&entity.AdminUser{DeactivationReason: "falta de pago"}).Estado())
	assert.Equal(t, "Inactivo", (&entity.AdminUser{}).Estado())
}
