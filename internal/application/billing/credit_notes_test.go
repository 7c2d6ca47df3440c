package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/internal/application/billing"
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/api/apitest"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

type sunatFixture struct {
	*fixture
	notas   *billing.CreditNotes
	batches *billing.Batches
	guias   *billing.Guias
}

func newSunatFixture(t *testing.T) *sunatFixture {
	t.Helper()
	f := newFixture(t)
	c := api.New(api.Config{BaseURL: f.backend.URL, Tokens: tokenstore.NewMemory(f.backend.TokenFor(testEmail, time.Hour))})
	scope := remote.NewScope(context.Background())
	t.Cleanup(scope.Close)
	return &sunatFixture{
		fixture: f,
		notas: billing.NewCreditNotes(scope, billing.CreditNotesDeps{
			Notas:        api.NewNotaClient(c),
			Comprobantes: api.NewComprobanteClient(c),
			Toasts:       f.toasts,
		}),
		batches: billing.NewBatches(scope, api.NewResumenClient(c), f.toasts, nil),
		guias:   billing.NewGuias(scope, api.NewGuiaClient(c), f.toasts, nil),
	}
}

// emitir factura (RUC) o boleta (DNI) y devuelve el comprobante.
func (f *sunatFixture) emitir(t *testing.T, clienteID int64, tipo string) *entity.Comprobante {
	t.Helper()
	cot, err := f.uc.Save(f.editor(clienteID))
	require.NoError(t, err)
	out, err := f.uc.Facturar(cot.ID, tipo)
	require.NoError(t, err)
	return out.Comprobante
}

// ── Notas de crédito ─────────────────────────────────────────────────────────

func TestEmitirCredito_AceptadaAnulaElComprobante(t *testing.T) {
	f := newSunatFixture(t)
	comp := f.emitir(t, f.ruc.ID, billing.TipoFactura)

	out, err := f.notas.EmitirCredito(comp.ID, sunat.MotivoAnulacion)

	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, "¡Nota de crédito enviada a SUNAT con éxito!", out.Message)
	assert.Equal(t, entity.ToastSuccess, f.last().Type)
	assert.Equal(t, "FC01", out.Nota.Serie)
	assert.Equal(t, sunat.ComprobanteNotaCredito, out.Nota.TipoDoc)
	assert.Equal(t, comp.Numero(), out.Nota.DocAfectado())
	require.Len(t, f.notas.List().Data(), 1)

	sent, ok := f.backend.LastRequest(http.MethodPost, "/notas/")
	require.True(t, ok)
	var body dto.NotaRequest
	require.NoError(t, json.Unmarshal(sent.Body, &body))
	assert.Equal(t, "Anulación de la operación", body.DescripcionMotivo)

	afectado, _ := f.backend.Comprobante(comp.ID)
	assert.True(t, afectado.Anulado())
}

func TestEmitirCredito_SegundaAnulacionNoLlamaAlServidor(t *testing.T) {
	f := newSunatFixture(t)
	comp := f.emitir(t, f.ruc.ID, billing.TipoFactura)
	_, err := f.notas.EmitirCredito(comp.ID, sunat.MotivoAnulacion)
	require.NoError(t, err)

	out, err := f.notas.EmitirCredito(comp.ID, "06")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Nil(t, out)
	assert.Equal(t, "El comprobante "+comp.Numero()+" ya fue anulado.", f.last().Message)
	assert.Equal(t, 1, f.backend.Count(http.MethodPost, "/notas/"))
}

func TestEmitirCredito_RechazoSUNAT_NoEsError(t *testing.T) {
	f := newSunatFixture(t)
	comp := f.emitir(t, f.dni.ID, billing.TipoBoleta)
	f.backend.RejectNext(apitest.ResourceNotas, "El comprobante afectado no existe")

	out, err := f.notas.EmitirCredito(comp.ID, "07")

	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, "BC01", out.Nota.Serie)
	assert.Equal(t, "Nota de crédito rechazada por SUNAT: El comprobante afectado no existe", out.Message)
	assert.Equal(t, entity.ToastWarning, f.last().Type)
	assert.Equal(t, "Rechazada", f.notas.List().Data()[0].Estado())

	// una nota rechazada no anula: se puede volver a intentar
	afectado, _ := f.backend.Comprobante(comp.ID)
	assert.False(t, afectado.Anulado())
}

func TestEmitirCredito_ComprobanteRechazado(t *testing.T) {
	f := newSunatFixture(t)
	comp := f.emitir(t, f.dni.ID, billing.TipoFactura)
	require.False(t, comp.Success)

	_, err := f.notas.EmitirCredito(comp.ID, sunat.MotivoAnulacion)

	require.Error(t, err)
	assert.Equal(t, "No se puede emitir una nota sobre un comprobante rechazado por SUNAT.", f.last().Message)
	assert.Zero(t, f.backend.Count(http.MethodPost, "/notas/"))
}

func TestEmitirCredito_ComprobanteInexistenteYMotivoInvalido(t *testing.T) {
	f := newSunatFixture(t)

	_, err := f.notas.EmitirCredito(999, sunat.MotivoAnulacion)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Comprobante no encontrado", f.last().Message)

	_, err = f.notas.EmitirCredito(999, "99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, f.last().Message, "cod_motivo: motivo no existe en el catálogo 09 de SUNAT")
	assert.Zero(t, f.backend.Count(http.MethodPost, "/notas/"))
}

// ── Resumen diario y comunicación de baja ────────────────────────────────────

func TestResumenDiario_DevuelveTicket(t *testing.T) {
	f := newSunatFixture(t)
	f.emitir(t, f.dni.ID, billing.TipoBoleta)

	ticket, err := f.batches.ResumenDiario(time.Now())

	require.NoError(t, err)
	assert.NotEmpty(t, ticket)
	assert.Equal(t, "Resumen diario enviado. Ticket: "+ticket, f.last().Message)
	assert.Equal(t, entity.ToastSuccess, f.last().Type)
}

func TestResumenDiario_SinBoletas(t *testing.T) {
	f := newSunatFixture(t)
	fecha := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	_, err := f.batches.ResumenDiario(fecha)

	require.Error(t, err)
	assert.Equal(t, "No hay boletas emitidas el 2026-01-02", f.last().Message)
	assert.Equal(t, entity.ToastError, f.last().Type)
}

func TestComunicacionBaja(t *testing.T) {
	f := newSunatFixture(t)
	factura := f.emitir(t, f.ruc.ID, billing.TipoFactura)
	boleta := f.emitir(t, f.dni.ID, billing.TipoBoleta)

	ticket, err := f.batches.ComunicacionBaja([]dto.BajaItem{{ComprobanteID: factura.ID, Motivo: "Error en el RUC"}})
	require.NoError(t, err)
	assert.Equal(t, "Comunicación de baja enviada. Ticket: "+ticket, f.last().Message)

	_, err = f.batches.ComunicacionBaja([]dto.BajaItem{{ComprobanteID: boleta.ID, Motivo: "Error"}})
	require.Error(t, err)
	assert.Equal(t, "El comprobante "+itoa(boleta.ID)+" no es una factura aceptada", f.last().Message)

	_, err = f.batches.ComunicacionBaja(nil)
	require.Error(t, err)
	assert.Equal(t, 2, f.backend.Count(http.MethodPost, "/comunicacion-baja/"))
}

// ── Guías de remisión ────────────────────────────────────────────────────────

func guia() dto.GuiaRemisionRequest {
	return dto.GuiaRemisionRequest{
		Destinatario:  dto.DestinatarioGuia{TipoDoc: "6", NumDoc: "20123456786", RznSocial: "ACME SAC"},
		CodTraslado:   "01",
		ModTraslado:   sunat.ModalidadTransportePublico,
		FecTraslado:   "2026-10-16",
		PesoTotal:     dec("12.5"),
		Partida:       dto.DireccionGuia{Ubigeo: "150101", Direccion: "Av. Lima 123"},
		Llegada:       dto.DireccionGuia{Ubigeo: "040101", Direccion: "Calle Mercaderes 45"},
		Transportista: &dto.TransportistaGuia{TipoDoc: "6", NumDoc: "20100070970", RznSocial: "Transportes SAC"},
		Bienes:        []dto.BienGuia{{Descripcion: "Laptop", Cantidad: dec("2"), Unidad: "NIU"}},
	}
}

func TestGuias_CreateAceptada(t *testing.T) {
	f := newSunatFixture(t)

	out, err := f.guias.Create(guia())

	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, "T001-1", out.Guia.Numero())
	assert.Equal(t, "ACME SAC", out.Guia.Destinatario())
	assert.Equal(t, "¡Guía de remisión enviada a SUNAT con éxito!", f.last().Message)
	assert.Len(t, f.guias.List().Data(), 1)
}

func TestGuias_RechazoYValidacionLocal(t *testing.T) {
	f := newSunatFixture(t)
	f.backend.RejectNext(apitest.ResourceGuias, "El ubigeo de llegada no existe")

	out, err := f.guias.Create(guia())
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, "Guía de remisión rechazada por SUNAT: El ubigeo de llegada no existe", f.last().Message)
	assert.Equal(t, entity.ToastWarning, f.last().Type)

	g := guia()
	g.Transportista = nil
	_, err = f.guias.Create(g)
	require.Error(t, err)
	assert.Equal(t, "transportista: es obligatorio", f.last().Message)
	assert.Equal(t, 1, f.backend.Count(http.MethodPost, "/guias-remision/"))
}
