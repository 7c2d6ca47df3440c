package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/api/apitest"
	"github.com/jhoicas/facturapro/internal/infrastructure/metrics"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
)

const (
	testEmail    = "ventas@acme.pe"
	testPassword = "secreto123"
)

func newClient(t *testing.T, b *apitest.Backend, tokens *tokenstore.Memory) *api.Client {
	t.Helper()
	return api.New(api.Config{BaseURL: b.URL + "/", Tokens: tokens})
}

// ── Headers ──────────────────────────────────────────────────────────────────

func TestClient_TokenSeLeeEnCadaLlamada(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory("")
	clientes := api.NewClienteClient(newClient(t, b, tokens))
	ctx := context.Background()

	_, err := clientes.List(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	// El token cambia después de construir el cliente: no se cachea.
	require.NoError(t, tokens.Save(ctx, b.TokenFor(testEmail, time.Hour)))
	_, err = clientes.List(ctx)
	require.NoError(t, err)

	req, ok := b.LastRequest(http.MethodGet, "/clientes/")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(req.Authorization, "Bearer "))
}

func TestClient_ContentTypeJSONYMultipart(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour))
	c := newClient(t, b, tokens)
	ctx := context.Background()

	_, err := api.NewClienteClient(c).Create(ctx, dto.ClienteRequest{
		TipoDocumento: "DNI", NumeroDocumento: "12345678", RazonSocial: "Juan Pérez",
	})
	require.NoError(t, err)
	req, _ := b.LastRequest(http.MethodPost, "/clientes/")
	assert.Equal(t, "application/json", req.ContentType)

	name, err := api.NewAuthClient(c).UploadLogo(ctx, "logo.png", []byte("\x89PNG"))
	require.NoError(t, err)
	assert.Contains(t, name, "logo.png")
	req, _ = b.LastRequest(http.MethodPost, "/users/upload-logo")
	assert.True(t, strings.HasPrefix(req.ContentType, "multipart/form-data; boundary="))
	assert.NotContains(t, req.ContentType, "application/json")
}

// ── Errores ──────────────────────────────────────────────────────────────────

func TestClient_ErrorDetailTexto(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	c := newClient(t, b, tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour)))

	err := api.NewClienteClient(c).Delete(context.Background(), 999)
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Cliente no encontrado", apierror.UserMessage(err))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_ErrorListaDeValidacion(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	c := newClient(t, b, tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour)))
	b.Fail(http.MethodGet, "/productos/", http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","nombre"],"msg":"A"},{"loc":["body","precio"],"msg":"B"}]}`)

	_, err := api.NewProductoClient(c).List(context.Background())
	require.Error(t, err)
	msg := apierror.UserMessage(err)
	assert.Contains(t, msg, "A")
	assert.Contains(t, msg, "B")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestClient_CuerpoNoJSON(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	c := newClient(t, b, tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour)))
	b.Fail(http.MethodGet, "/productos/", http.StatusBadGateway, `<html>bad gateway</html>`)

	_, err := api.NewProductoClient(c).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error desconocido (HTTP 502)", apierror.UserMessage(err))
	assert.True(t, errors.Is(err, domain.ErrServer))
}

func TestClient_BackendCaido(t *testing.T) {
	b := apitest.New(t)
	c := newClient(t, b, tokenstore.NewMemory(""))
	b.Close()

	_, err := api.NewClienteClient(c).List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
	assert.Equal(t, apierror.NetworkMessage, apierror.UserMessage(err))
}

func TestClient_CancelacionPorContexto(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	c := newClient(t, b, tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour)))
	b.Delay(http.MethodGet, "/clientes/", 500*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := api.NewClienteClient(c).List(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, domain.ErrNetwork))
}

// ── 401 ──────────────────────────────────────────────────────────────────────

func TestClient_401InvocaHookSoloConToken(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory("")
	c := newClient(t, b, tokens)

	calls := 0
	c.OnUnauthorized(func(context.Context) { calls++ })

	_, _ = api.NewClienteClient(c).List(context.Background())
	assert.Equal(t, 0, calls, "sin token no hay sesión que expirar")

	require.NoError(t, tokens.Save(context.Background(), "token-invalido"))
	_, err := api.NewClienteClient(c).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_TokenYRegister_SinBearerNiHook(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour))
	c := newClient(t, b, tokens)

	calls := 0
	c.OnUnauthorized(func(context.Context) { calls++ })
	a := api.NewAuthClient(c)

	_, err := a.Token(context.Background(), testEmail, "incorrecta")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, 0, calls, "un 401 de /token es credencial inválida, no sesión vencida")

	req, ok := b.LastRequest(http.MethodPost, "/token")
	require.True(t, ok)
	assert.Empty(t, req.Authorization)

	_, _ = a.Register(context.Background(), dto.RegisterRequest{Email: "nuevo@acme.pe", Password: "secreto123"})
	req, ok = b.LastRequest(http.MethodPost, "/register")
	require.True(t, ok)
	assert.Empty(t, req.Authorization)
}

// ── Métricas ─────────────────────────────────────────────────────────────────

func TestClient_RegistraMetricas(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	m := metrics.New()
	c := api.New(api.Config{
		BaseURL: b.URL,
		Tokens:  tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour)),
		Metrics: m,
	})
	_, err := api.NewClienteClient(c).List(context.Background())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `facturapro_api_requests_total{code="200",method="GET",resource="clientes"} 1`)
}
