package auth_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/internal/application/auth"
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/guard"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/api/apitest"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
)

const (
	testEmail    = "ventas@acme.pe"
	testPassword = "secreto123"
)

type fixture struct {
	backend *apitest.Backend
	tokens  *tokenstore.Memory
	client  *api.Client
	store   *auth.Store
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory(token)
	c := api.New(api.Config{BaseURL: b.URL, Tokens: tokens})
	a := api.NewAuthClient(c)
	s := auth.NewStore(a, a, tokens)
	c.OnUnauthorized(s.Expire)
	return &fixture{backend: b, tokens: tokens, client: c, store: s}
}

func (f *fixture) persisted(t *testing.T) string {
	t.Helper()
	tok, err := f.tokens.Load(context.Background())
	require.NoError(t, err)
	return tok
}

// ── Login / Logout ───────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas_QuedaAutenticado(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	res := f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword})

	require.True(t, res.Success, res.Error)
	assert.True(t, f.store.IsAuthenticated())
	assert.Equal(t, auth.StateAuthenticated, f.store.State())
	assert.Equal(t, testEmail, f.store.User().Email)
	assert.NotEmpty(t, f.persisted(t))
	assert.Equal(t, f.persisted(t), f.store.Token())
	assert.False(t, f.store.Loading())
}

func TestLogin_CredencialesInvalidas_SinError(t *testing.T) {
	f := newFixture(t, "")

	res := f.store.Login(context.Background(), dto.Credentials{Username: testEmail, Password: "otra"})

	assert.False(t, res.Success)
	assert.Equal(t, "Incorrect username or password", res.Error)
	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.persisted(t))
}

func TestLogin_ReintentoFallido_ConservaSesionVigente(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)
	token := f.persisted(t)

	res := f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: "equivocada"})

	assert.False(t, res.Success)
	assert.Equal(t, "Incorrect username or password", res.Error)
	assert.True(t, f.store.IsAuthenticated())
	assert.Equal(t, auth.StateAuthenticated, f.store.State())
	assert.Equal(t, token, f.persisted(t))
}

func TestLogin_ValidacionLocal_NoLlamaAlServidor(t *testing.T) {
	f := newFixture(t, "")

	res := f.store.Login(context.Background(), dto.Credentials{Username: "no-es-email", Password: ""})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "username")
	assert.Zero(t, f.backend.Count(http.MethodPost, "/token"))
}

func TestLogin_BackendCaido_MensajeGenerico(t *testing.T) {
	f := newFixture(t, "")
	f.backend.Close()

	res := f.store.Login(context.Background(), dto.Credentials{Username: testEmail, Password: testPassword})

	assert.False(t, res.Success)
	assert.Equal(t, "No se pudo conectar con el servidor", res.Error)
}

func TestLogout_Idempotente(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)
	calls := len(f.backend.Requests())

	f.store.Logout(ctx)
	f.store.Logout(ctx)

	assert.False(t, f.store.IsAuthenticated())
	assert.Nil(t, f.store.User())
	assert.Empty(t, f.store.Token())
	assert.Empty(t, f.persisted(t))
	assert.Equal(t, auth.StateAnonymous, f.store.State())
	assert.Len(t, f.backend.Requests(), calls, "logout no llama al servidor")
}

// ── CheckAuth ────────────────────────────────────────────────────────────────

func TestCheckAuth_LoadingSoloAntesDelPrimerChequeo(t *testing.T) {
	f := newFixture(t, "")
	assert.True(t, f.store.Loading())
	assert.Equal(t, auth.StateUninitialized, f.store.State())

	require.NoError(t, f.store.CheckAuth(context.Background()))

	assert.False(t, f.store.Loading())
	assert.Equal(t, auth.StateAnonymous, f.store.State())
	assert.Zero(t, f.backend.Count(http.MethodGet, "/users/me/"))
}

func TestPeek_CargaYUsuarioEnUnaSolaLectura(t *testing.T) {
	f := newFixture(t, "")
	loading, user := f.store.Peek()
	assert.True(t, loading)
	assert.Nil(t, user)

	require.True(t, f.store.Login(context.Background(), dto.Credentials{Username: testEmail, Password: testPassword}).Success)

	loading, user = f.store.Peek()
	assert.False(t, loading)
	require.NotNil(t, user)
	assert.Equal(t, testEmail, user.Email)
	assert.Equal(t, guard.From(f.store), guard.Snapshot{Loading: false, User: user})
}

func TestCheckAuth_TokenPersistidoValido_RestauraSesion(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.tokens.Save(context.Background(), f.backend.TokenFor(testEmail, time.Hour)))

	require.NoError(t, f.store.CheckAuth(context.Background()))

	assert.True(t, f.store.IsAuthenticated())
	assert.Equal(t, 1, f.backend.Count(http.MethodGet, "/users/me/"))
}

func TestCheckAuth_JWTVencido_SeDescartaSinRed(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.tokens.Save(context.Background(), f.backend.TokenFor(testEmail, -time.Hour)))

	require.NoError(t, f.store.CheckAuth(context.Background()))

	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.persisted(t))
	assert.Zero(t, f.backend.Count(http.MethodGet, "/users/me/"))
}

func TestCheckAuth_RelojInyectado(t *testing.T) {
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour))
	a := api.NewAuthClient(api.New(api.Config{BaseURL: b.URL, Tokens: tokens}))
	future := func() time.Time { return time.Now().Add(2 * time.Hour) }
	s := auth.NewStore(a, a, tokens, auth.WithClock(future))

	require.NoError(t, s.CheckAuth(context.Background()))

	assert.False(t, s.IsAuthenticated())
	assert.Zero(t, b.Count(http.MethodGet, "/users/me/"))
}

func TestCheckAuth_PerfilFalla_LimpiaSesion(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.NoError(t, f.tokens.Save(ctx, f.backend.TokenFor(testEmail, time.Hour)))
	f.backend.Fail(http.MethodGet, "/users/me/", http.StatusInternalServerError, `{"detail":"boom"}`)

	err := f.store.CheckAuth(ctx)

	require.Error(t, err)
	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.persisted(t))
	assert.False(t, f.store.Loading())
}

func TestCheckAuth_TokenOpaco_SeValidaContraServidor(t *testing.T) {
	f := newFixture(t, "token-opaco")

	err := f.store.CheckAuth(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, f.backend.Count(http.MethodGet, "/users/me/"))
	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.persisted(t))
}

// ── 401 en llamadas autenticadas ─────────────────────────────────────────────

func TestExpire_401EnCualquierLlamada_CierraSesion(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)
	f.backend.Fail(http.MethodGet, "/clientes/", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)

	_, err := api.NewClienteClient(f.client).List(ctx)

	require.Error(t, err)
	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.persisted(t))
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestRegister_NoIniciaSesion(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	res := f.store.Register(ctx, dto.RegisterRequest{
		Email:        "nuevo@acme.pe",
		Password:     "clave-segura",
		BusinessName: "Nuevo SAC",
		BusinessRUC:  "20123456789",
	})

	require.True(t, res.Success, res.Error)
	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.persisted(t))
}

func TestRegister_EmailDuplicado_DevuelveDetalle(t *testing.T) {
	f := newFixture(t, "")

	res := f.store.Register(context.Background(), dto.RegisterRequest{Email: testEmail, Password: "clave-segura"})

	assert.False(t, res.Success)
	assert.Equal(t, "El email ya está registrado", res.Error)
}

func TestRegister_PasswordCorto_NoLlamaAlServidor(t *testing.T) {
	f := newFixture(t, "")

	res := f.store.Register(context.Background(), dto.RegisterRequest{Email: "x@acme.pe", Password: "123"})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "password")
	assert.Zero(t, f.backend.Count(http.MethodPost, "/register"))
}

// ── Perfil ───────────────────────────────────────────────────────────────────

func TestUpdateProfile_ReemplazaPerfil(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)
	before := f.store.User()

	name := "ACME Perú SAC"
	color := "#1a2b3c"
	user, err := f.store.UpdateProfile(ctx, dto.ProfileUpdate{BusinessName: &name, PrimaryColor: &color})

	require.NoError(t, err)
	assert.Equal(t, name, user.BusinessName)
	assert.Same(t, user, f.store.User())
	assert.NotSame(t, before, f.store.User())
	assert.Empty(t, before.BusinessName, "el perfil anterior no se modifica")
}

func TestUpdateProfile_ColorInvalido(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)

	bad := "azul"
	_, err := f.store.UpdateProfile(ctx, dto.ProfileUpdate{PrimaryColor: &bad})

	require.Error(t, err)
	assert.Zero(t, f.backend.Count(http.MethodPut, "/profile/"))
}

func TestUpdateProfile_SinSesion(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.store.UpdateProfile(context.Background(), dto.ProfileUpdate{})
	assert.Error(t, err)
}

func TestUploadLogo_RecargaPerfil(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)

	stored, err := f.store.UploadLogo(ctx, "logo.png", []byte("\x89PNG\r\n\x1a\n"))

	require.NoError(t, err)
	assert.Equal(t, stored, f.store.User().LogoFilename)
}

// ── Subscribe ────────────────────────────────────────────────────────────────

func TestSubscribe_NotificaTransiciones(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	var mu sync.Mutex
	var seen []auth.State
	unsubscribe := f.store.Subscribe(func(s auth.State) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	require.NoError(t, f.store.CheckAuth(ctx))
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)
	f.store.Logout(ctx)
	f.store.Logout(ctx)
	unsubscribe()
	require.True(t, f.store.Login(ctx, dto.Credentials{Username: testEmail, Password: testPassword}).Success)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []auth.State{auth.StateAnonymous, auth.StateAuthenticated, auth.StateAnonymous}, seen)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", auth.StateUninitialized.String())
	assert.Equal(t, "authenticated", auth.StateAuthenticated.String())
	assert.Equal(t, "anonymous", auth.StateAnonymous.String())
}
