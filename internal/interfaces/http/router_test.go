package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/api/apitest"
	"github.com/jhoicas/facturapro/internal/infrastructure/metrics"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
	apphttp "github.com/jhoicas/facturapro/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCookie   = "fp_test"
	testEmail    = "ventas@acme.pe"
	adminEmail   = "admin@acme.pe"
	testPassword = "secreto123"
)

type gateway struct {
	app      *fiber.App
	backend  *apitest.Backend
	redis    *miniredis.Miniredis
	sessions *apphttp.Sessions
}

// newGateway levanta el router completo contra el backend simulado y un Redis en memoria.
func newGateway(t *testing.T, checkTimeout time.Duration, opts ...apphttp.SessionsOption) *gateway {
	t.Helper()
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	b.AddUser(adminEmail, testPassword, true)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := apphttp.NewSessions(
		apphttp.SessionConfig{Cookie: testCookie, TTL: time.Hour},
		api.Config{BaseURL: b.URL},
		tokenstore.NewRedis(rdb, time.Hour),
		nil,
		opts...,
	)
	t.Cleanup(sessions.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:     sessions,
		Metrics:      metrics.New(),
		CheckTimeout: checkTimeout,
		AppName:      "facturapro-test",
	})
	return &gateway{app: app, backend: b, redis: mr, sessions: sessions}
}

func tokenKey(sessionID string) string {
	return "facturapro:session:" + sessionID + ":token"
}

// browser conserva la cookie de sesión entre peticiones, como un navegador.
type browser struct {
	t      *testing.T
	g      *gateway
	cookie string
}

func (g *gateway) browser(t *testing.T) *browser {
	return &browser{t: t, g: g}
}

func (br *browser) do(method, path string, body any) *http.Response {
	br.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(br.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if br.cookie != "" {
		req.Header.Set("Cookie", testCookie+"="+br.cookie)
	}
	resp, err := br.g.app.Test(req, -1)
	require.NoError(br.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			br.cookie = ck.Value
		}
	}
	return resp
}

func (br *browser) login(email string) {
	br.t.Helper()
	resp := br.do(http.MethodPost, "/login", dto.Credentials{Username: email, Password: testPassword})
	defer resp.Body.Close()
	require.Equal(br.t, http.StatusSeeOther, resp.StatusCode)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func assertRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, to, resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de guard
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_SinSesion(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)

	resp := br.do(http.MethodGet, "/health", nil)
	body := decode[map[string]string](t, resp)

	assert.Equal(t, "ok", body["status"])
	assert.Empty(t, br.cookie, "health no abre sesión")
}

func TestGuard_AnonimoEnRutaProtegida_RedirigeALogin(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)

	assertRedirect(t, br.do(http.MethodGet, "/dashboard", nil), "/login")
	assert.NotEmpty(t, br.cookie, "se emite cookie de sesión")
	_, err := uuid.Parse(br.cookie)
	assert.NoError(t, err)
}

func TestGuard_AnonimoVeLogin(t *testing.T) {
	g := newGateway(t, time.Second)

	resp := g.browser(t).do(http.MethodGet, "/login", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuard_AutenticadoEnLogin_RedirigeAlDashboard(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)

	assertRedirect(t, br.do(http.MethodGet, "/login", nil), "/dashboard")
}

func TestGuard_NoAdminEnAdmin_RedirigeAlDashboard(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)

	assertRedirect(t, br.do(http.MethodGet, "/admin/users", nil), "/dashboard")
	assertRedirect(t, br.do(http.MethodGet, "/admin/stats", nil), "/dashboard")
	assert.Zero(t, g.backend.Count(http.MethodGet, "/admin/users/"))
}

func TestGuard_AdminAccedeAAdmin(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(adminEmail)

	resp := br.do(http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decode[[]entity.AdminUser](t, resp)
	assert.Len(t, users, 2)

	resp = br.do(http.MethodGet, "/admin/usuarios", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "sin comodín bajo /admin")
}

func TestGuard_SesionCargando_Responde503(t *testing.T) {
	g := newGateway(t, 20*time.Millisecond)
	g.backend.Delay(http.MethodGet, "/users/me/", 300*time.Millisecond)

	id := uuid.NewString()
	require.NoError(t, g.redis.Set(tokenKey(id), g.backend.TokenFor(testEmail, time.Hour)))
	br := g.browser(t)
	br.cookie = id

	resp := br.do(http.MethodGet, "/dashboard", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "SESSION_LOADING")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_GuardaTokenEnRedis(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)

	tok, err := g.redis.Get(tokenKey(br.cookie))
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	resp := br.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[apphttp.DashboardResponse](t, resp)
	require.NotNil(t, body.User)
	assert.Equal(t, testEmail, body.User.Email)
}

func TestLogin_CredencialesInvalidas_401(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)

	resp := br.do(http.MethodPost, "/login", dto.Credentials{Username: testEmail, Password: "otra"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, "LOGIN_FAILED", body.Code)
	assert.Equal(t, "Incorrect username or password", body.Message)
	assert.False(t, g.redis.Exists(tokenKey(br.cookie)))
}

func TestSesion_SeRestauraDesdeRedis(t *testing.T) {
	g := newGateway(t, time.Second)
	id := uuid.NewString()
	require.NoError(t, g.redis.Set(tokenKey(id), g.backend.TokenFor(testEmail, time.Hour)))
	br := g.browser(t)
	br.cookie = id

	resp := br.do(http.MethodGet, "/dashboard", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, br.cookie, "la cookie válida se conserva")
}

func TestLogout_BorraTokenYRedirige(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)

	assertRedirect(t, br.do(http.MethodPost, "/logout", nil), "/login")
	assert.False(t, g.redis.Exists(tokenKey(br.cookie)))
	assertRedirect(t, br.do(http.MethodGet, "/dashboard", nil), "/login")

	// idempotente
	assertRedirect(t, br.do(http.MethodPost, "/logout", nil), "/login")
}

func TestRegister_NoIniciaSesion(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)

	assertRedirect(t, br.do(http.MethodPost, "/register", dto.RegisterRequest{
		Email: "nuevo@acme.pe", Password: "clave-segura",
	}), "/login")

	toasts := decode[[]entity.Toast](t, br.do(http.MethodGet, "/toasts", nil))
	require.Len(t, toasts, 1)
	assert.Equal(t, entity.ToastSuccess, toasts[0].Type)
	assertRedirect(t, br.do(http.MethodGet, "/dashboard", nil), "/login")
}

func TestBackend401_ExpiraLaSesion(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)
	g.backend.Fail(http.MethodGet, "/clientes/", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)

	resp := br.do(http.MethodGet, "/clientes", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "Could not validate credentials", body.Message)

	assertRedirect(t, br.do(http.MethodGet, "/dashboard", nil), "/login")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de pantallas
// ──────────────────────────────────────────────────────────────────────────────

func TestClientes_CrearYListar(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)

	resp := br.do(http.MethodPost, "/clientes", dto.ClienteRequest{
		TipoDocumento: "RUC", NumeroDocumento: "20123456786", RazonSocial: "ACME SAC",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	list := decode[[]entity.Cliente](t, br.do(http.MethodGet, "/clientes", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "ACME SAC", list[0].RazonSocial)
}

func TestClientes_Invalido_400SinLlamarAlBackend(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)

	resp := br.do(http.MethodPost, "/clientes", dto.ClienteRequest{TipoDocumento: "CE"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, "VALIDATION", body.Code)
	assert.Zero(t, g.backend.Count(http.MethodPost, "/clientes/"))
}

func TestDashboard_FallaParcialNoCancelaLasDemas(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)
	g.backend.AddCliente(entity.Cliente{TipoDocumento: "DNI", NumeroDocumento: "12345678", RazonSocial: "Juan Pérez"})
	g.backend.Fail(http.MethodGet, "/productos/", http.StatusInternalServerError, `{"detail":"Error interno"}`)

	resp := br.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[apphttp.DashboardResponse](t, resp)

	assert.Equal(t, "success", body.Clientes.Status)
	assert.Equal(t, 1, body.Clientes.Count)
	assert.Equal(t, "failure", body.Productos.Status)
	assert.Equal(t, "Error interno", body.Productos.Error)
	assert.Equal(t, "success", body.Cotizaciones.Status)
}

func seedCotizacion(g *gateway, tipoDoc, numero string) entity.Cotizacion {
	cl := g.backend.AddCliente(entity.Cliente{TipoDocumento: tipoDoc, NumeroDocumento: numero, RazonSocial: "Cliente " + tipoDoc})
	return g.backend.AddCotizacion(dto.CotizacionRequest{
		ClienteID: cl.ID,
		Moneda:    "PEN",
		Items: []dto.CotizacionItemRequest{{
			Descripcion:    "Laptop",
			Cantidad:       decimal.NewFromInt(2),
			PrecioUnitario: decimal.NewFromInt(10),
		}},
	})
}

func TestFacturar_Aceptada(t *testing.T) {
	g := newGateway(t, time.Second)
	cot := seedCotizacion(g, "RUC", "20123456786")
	br := g.browser(t)
	br.login(testEmail)

	resp := br.do(http.MethodPost, "/cotizaciones/"+itoa(cot.ID)+"/facturar", dto.FacturarRequest{TipoComprobante: "factura"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[apphttp.FacturarResponse](t, resp)

	assert.True(t, out.Accepted)
	require.NotNil(t, out.Comprobante)
	assert.Equal(t, "F001", out.Comprobante.Serie)

	toasts := decode[[]entity.Toast](t, br.do(http.MethodGet, "/toasts", nil))
	require.NotEmpty(t, toasts)
	assert.Equal(t, "¡Factura enviada a SUNAT con éxito!", toasts[len(toasts)-1].Message)
}

func TestFacturar_RechazoSUNAT_Responde200(t *testing.T) {
	g := newGateway(t, time.Second)
	cot := seedCotizacion(g, "DNI", "12345678")
	br := g.browser(t)
	br.login(testEmail)

	resp := br.do(http.MethodPost, "/cotizaciones/"+itoa(cot.ID)+"/facturar", dto.FacturarRequest{TipoComprobante: "factura"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[apphttp.FacturarResponse](t, resp)

	assert.False(t, out.Accepted)
	assert.Equal(t, "Factura rechazada por SUNAT: "+apitest.RechazoDNI, out.Message)
}

func TestFacturar_TipoInvalido_400(t *testing.T) {
	g := newGateway(t, time.Second)
	cot := seedCotizacion(g, "RUC", "20123456786")
	br := g.browser(t)
	br.login(testEmail)

	resp := br.do(http.MethodPost, "/cotizaciones/"+itoa(cot.ID)+"/facturar", dto.FacturarRequest{TipoComprobante: "ticket"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, g.backend.Count(http.MethodPost, "/cotizaciones/"+itoa(cot.ID)+"/facturar"))
}

func emitirFactura(t *testing.T, g *gateway, br *browser) *entity.Comprobante {
	t.Helper()
	cot := seedCotizacion(g, "RUC", "20123456786")
	out := decode[apphttp.FacturarResponse](t, br.do(http.MethodPost, "/cotizaciones/"+itoa(cot.ID)+"/facturar", dto.FacturarRequest{TipoComprobante: "factura"}))
	require.True(t, out.Accepted)
	return out.Comprobante
}

func TestNotas_EmitirAnulacionYListar(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)
	comp := emitirFactura(t, g, br)

	resp := br.do(http.MethodPost, "/comprobantes/"+itoa(comp.ID)+"/notas", apphttp.NotaRequest{CodMotivo: "01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[apphttp.NotaResponse](t, resp)
	assert.True(t, out.Accepted)
	assert.Equal(t, "¡Nota de crédito enviada a SUNAT con éxito!", out.Message)

	comps := decode[[]entity.Comprobante](t, br.do(http.MethodGet, "/comprobantes?tipo_doc=01", nil))
	require.Len(t, comps, 1)
	assert.True(t, comps[0].Anulado())

	notas := decode[[]entity.Nota](t, br.do(http.MethodGet, "/notas", nil))
	require.Len(t, notas, 1)
	assert.Equal(t, comp.Numero(), notas[0].DocAfectado())

	// segunda anulación: conflicto local, sin llamar al backend
	resp = br.do(http.MethodPost, "/comprobantes/"+itoa(comp.ID)+"/notas", apphttp.NotaRequest{CodMotivo: "01"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Equal(t, 1, g.backend.Count(http.MethodPost, "/notas/"))
}

func TestNotas_RechazoSUNAT_Responde200(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)
	comp := emitirFactura(t, g, br)
	g.backend.RejectNext(apitest.ResourceNotas, "Motivo no válido para el comprobante")

	resp := br.do(http.MethodPost, "/comprobantes/"+itoa(comp.ID)+"/notas", apphttp.NotaRequest{CodMotivo: "09"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[apphttp.NotaResponse](t, resp)

	assert.False(t, out.Accepted)
	assert.Equal(t, "Nota de crédito rechazada por SUNAT: Motivo no válido para el comprobante", out.Message)
	toasts := decode[[]entity.Toast](t, br.do(http.MethodGet, "/toasts", nil))
	assert.Equal(t, entity.ToastWarning, toasts[len(toasts)-1].Type)
}

func TestResumenYBaja_DevuelvenTicket(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)
	comp := emitirFactura(t, g, br)

	resp := br.do(http.MethodPost, "/comunicacion-baja", dto.ComunicacionBajaRequest{
		Items: []dto.BajaItem{{ComprobanteID: comp.ID, Motivo: "Error en el RUC"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[dto.TicketResponse](t, resp).Ticket)

	// no hay boletas emitidas hoy
	resp = br.do(http.MethodPost, "/resumen-diario", dto.ResumenDiarioRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Message, "No hay boletas emitidas el ")

	resp = br.do(http.MethodPost, "/resumen-diario", dto.ResumenDiarioRequest{Fecha: "16/10/2026"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 1, g.backend.Count(http.MethodPost, "/resumen-diario/"))
}

func TestGuias_EmitirYListar(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)

	in := dto.GuiaRemisionRequest{
		Destinatario:  dto.DestinatarioGuia{TipoDoc: "6", NumDoc: "20123456786", RznSocial: "ACME SAC"},
		CodTraslado:   "01",
		ModTraslado:   "01",
		FecTraslado:   "2026-10-16",
		PesoTotal:     decimal.NewFromInt(10),
		Partida:       dto.DireccionGuia{Ubigeo: "150101", Direccion: "Av. Lima 123"},
		Llegada:       dto.DireccionGuia{Ubigeo: "040101", Direccion: "Calle Mercaderes 45"},
		Transportista: &dto.TransportistaGuia{TipoDoc: "6", NumDoc: "20100070970", RznSocial: "Transportes SAC"},
		Bienes:        []dto.BienGuia{{Descripcion: "Laptop", Cantidad: decimal.NewFromInt(2), Unidad: "NIU"}},
	}
	resp := br.do(http.MethodPost, "/guias", in)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[apphttp.GuiaResponse](t, resp)
	assert.True(t, out.Accepted)
	assert.Equal(t, "T001-1", out.Guia.Numero())

	in.Transportista = nil
	resp = br.do(http.MethodPost, "/guias", in)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "transportista: es obligatorio", decode[dto.ErrorResponse](t, resp).Message)

	assert.Len(t, decode[[]entity.GuiaRemision](t, br.do(http.MethodGet, "/guias", nil)), 1)
}

func TestAdmin_DesactivarYEliminar(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(adminEmail)

	var target entity.AdminUser
	for _, u := range decode[[]entity.AdminUser](t, br.do(http.MethodGet, "/admin/users", nil)) {
		if u.Email == testEmail {
			target = u
		}
	}
	require.NotZero(t, target.ID)
	path := "/admin/users/" + itoa(target.ID)

	resp := br.do(http.MethodPut, path+"/status", dto.UserStatusUpdate{IsActive: false})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	reason := "Falta de pago"
	resp = br.do(http.MethodPut, path+"/status", dto.UserStatusUpdate{IsActive: false, DeactivationReason: &reason})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[entity.AdminUser](t, resp)
	assert.Equal(t, "Inactivo (Falta de pago)", updated.Estado())

	stats := decode[entity.AdminStats](t, br.do(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, 1, stats.ActiveUsers)

	other := g.browser(t)
	resp = other.do(http.MethodPost, "/login", dto.Credentials{Username: testEmail, Password: testPassword})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Su cuenta ha sido desactivada. Motivo: Falta de pago", decode[dto.ErrorResponse](t, resp).Message)

	resp = br.do(http.MethodDelete, path, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, g.backend.HasUser(testEmail))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de toasts y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestToasts_DescartarPorID(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	br.login(testEmail)
	resp := br.do(http.MethodDelete, "/clientes/999", nil)
	resp.Body.Close()

	toasts := decode[[]entity.Toast](t, br.do(http.MethodGet, "/toasts", nil))
	require.Len(t, toasts, 1)
	assert.Equal(t, entity.ToastError, toasts[0].Type)

	resp = br.do(http.MethodDelete, "/toasts/"+toasts[0].ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, decode[[]entity.Toast](t, br.do(http.MethodGet, "/toasts", nil)))
}

func TestToasts_SonPorSesion(t *testing.T) {
	g := newGateway(t, time.Second)
	a, b := g.browser(t), g.browser(t)
	a.login(testEmail)
	b.login(testEmail)
	resp := a.do(http.MethodDelete, "/clientes/999", nil)
	resp.Body.Close()

	assert.Len(t, decode[[]entity.Toast](t, a.do(http.MethodGet, "/toasts", nil)), 1)
	assert.Empty(t, decode[[]entity.Toast](t, b.do(http.MethodGet, "/toasts", nil)))
}

func TestMetrics_ExponeRutasDelGateway(t *testing.T) {
	g := newGateway(t, time.Second)
	br := g.browser(t)
	resp := br.do(http.MethodGet, "/health", nil)
	resp.Body.Close()

	resp = br.do(http.MethodGet, "/metrics", nil)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(raw), "facturapro_gateway_requests_total")
	assert.Contains(t, string(raw), `route="/health"`)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de ciclo de vida de sesiones
// ──────────────────────────────────────────────────────────────────────────────

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestSesiones_AnonimasSeDescartanAntesQueLasAutenticadas(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	g := newGateway(t, time.Second, apphttp.WithSessionClock(clock.Now))

	anon := g.browser(t)
	anon.do(http.MethodGet, "/login", nil).Body.Close()
	user := g.browser(t)
	user.login(testEmail)
	require.Equal(t, 2, g.sessions.Len())

	// más que el TTL anónimo por defecto, menos que el TTL de sesión (1h)
	clock.Advance(20 * time.Minute)
	g.browser(t).do(http.MethodGet, "/login", nil).Body.Close()

	assert.Equal(t, 2, g.sessions.Len(), "la anónima se descarta; quedan la autenticada y la nueva")
	resp := user.do(http.MethodGet, "/clientes", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSesiones_AutenticadaDescartadaSeRestauraDesdeRedis(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	g := newGateway(t, time.Second, apphttp.WithSessionClock(clock.Now))

	user := g.browser(t)
	user.login(testEmail)

	clock.Advance(2 * time.Hour)
	resp := user.do(http.MethodGet, "/clientes", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
