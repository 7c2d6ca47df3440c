// Package apitest levanta un backend FacturaPro en memoria (fiber) para tests.
// Firma tokens JWT reales con pkg/jwt y responde errores con la forma {"detail": ...}.
package apitest

import (
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/pkg/jwt"
)

const (
	// Secret clave HS256 con la que el backend simulado firma los tokens.
	Secret = "apitest-secret"
	issuer = "facturapro-apitest"
	// EmisorRUC RUC usado cuando el usuario no configuró business_ruc.
	EmisorRUC = "20100070970"
)

// Request petición recibida, para aserciones sobre headers y payloads.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

type account struct {
	password string
	profile  entity.UserProfile
}

type failure struct {
	status int
	body   string
}

// Backend estado en memoria del backend simulado.
type Backend struct {
	URL string

	app    *fiber.App
	server *httptest.Server

	mu           sync.Mutex
	accounts     map[string]*account
	clientes     map[int64]entity.Cliente
	productos    map[int64]entity.Producto
	cotizaciones map[int64]entity.Cotizacion
	comprobantes map[int64]entity.Comprobante
	notas        map[int64]entity.Nota
	guias        map[int64]entity.GuiaRemision
	owners       map[int64]string
	rechazos     map[string]string
	tickets      int
	padron       map[string]dto.DocumentoInfo
	nextID       int64
	correlativos map[string]int
	requests     []Request
	failures     map[string]failure
	tokenTTL     time.Duration
	delay        map[string]time.Duration
}

// New levanta el servidor y lo cierra al terminar el test.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		accounts:     make(map[string]*account),
		clientes:     make(map[int64]entity.Cliente),
		productos:    make(map[int64]entity.Producto),
		cotizaciones: make(map[int64]entity.Cotizacion),
		comprobantes: make(map[int64]entity.Comprobante),
		notas:        make(map[int64]entity.Nota),
		guias:        make(map[int64]entity.GuiaRemision),
		owners:       make(map[int64]string),
		rechazos:     make(map[string]string),
		padron:       make(map[string]dto.DocumentoInfo),
		correlativos: make(map[string]int),
		failures:     make(map[string]failure),
		delay:        make(map[string]time.Duration),
		tokenTTL:     time.Hour,
	}
	b.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	b.routes()
	b.server = httptest.NewServer(adaptor.FiberApp(b.app))
	b.URL = b.server.URL
	t.Cleanup(b.server.Close)
	return b
}

// Close apaga el servidor antes de tiempo (para simular backend caído).
func (b *Backend) Close() { b.server.Close() }

// AddUser registra un usuario con su perfil.
func (b *Backend) AddUser(email, password string, admin bool) entity.UserProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p := entity.UserProfile{
		ID:           b.nextID,
		Email:        email,
		IsActive:     true,
		IsAdmin:      admin,
		CreationDate: time.Now().UTC().Format(time.RFC3339),
	}
	b.accounts[email] = &account{password: password, profile: p}
	return p
}

// TokenFor firma un token para email con la vigencia indicada (negativa = ya vencido).
func (b *Backend) TokenFor(email string, ttl time.Duration) string {
	tok, err := jwt.Generate(Secret, email, issuer, int(ttl/time.Minute))
	if err != nil {
		panic(err)
	}
	return tok
}

// SetTokenTTL vigencia de los tokens emitidos por POST /token.
func (b *Backend) SetTokenTTL(ttl time.Duration) {
	b.mu.Lock()
	b.tokenTTL = ttl
	b.mu.Unlock()
}

// AddPadron agrega un documento consultable por /consultar-documento y /consultar-ruc.
func (b *Backend) AddPadron(numero string, info dto.DocumentoInfo) {
	b.mu.Lock()
	b.padron[numero] = info
	b.mu.Unlock()
}

// AddProducto agrega un producto al catálogo.
func (b *Backend) AddProducto(p entity.Producto) entity.Producto {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p.ID = b.nextID
	b.productos[p.ID] = p
	return p
}

// AddCliente agrega un cliente.
func (b *Backend) AddCliente(c entity.Cliente) entity.Cliente {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	c.ID = b.nextID
	b.clientes[c.ID] = c
	return c
}

// Fail hace que la próxima petición a method+path responda status con body.
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	b.failures[method+" "+path] = failure{status: status, body: body}
	b.mu.Unlock()
}

// Delay retrasa las respuestas a method+path.
func (b *Backend) Delay(method, path string, d time.Duration) {
	b.mu.Lock()
	b.delay[method+" "+path] = d
	b.mu.Unlock()
}

// Requests peticiones recibidas en orden de llegada.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest última petición a method+path.
func (b *Backend) LastRequest(method, path string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if r := b.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// Count número de peticiones a method+path.
func (b *Backend) Count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Clientes estado actual de clientes ordenado por id.
func (b *Backend) Clientes() []entity.Cliente {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.clientes, func(c entity.Cliente) int64 { return c.ID })
}

func (b *Backend) routes() {
	b.app.Use(b.record)

	b.app.Post("/token", b.token)
	b.app.Post("/register", b.register)

	p := b.app.Group("/", b.bearer)
	p.Get("/users/me/", b.me)
	p.Put("/profile/", b.updateProfile)
	p.Post("/users/upload-logo", b.uploadLogo)

	p.Get("/clientes/", b.listClientes)
	p.Post("/clientes/", b.createCliente)
	p.Put("/clientes/:id", b.updateCliente)
	p.Delete("/clientes/:id", b.deleteCliente)

	p.Get("/productos/", b.listProductos)
	p.Post("/productos/", b.createProducto)
	p.Put("/productos/:id", b.updateProducto)
	p.Delete("/productos/:id", b.deleteProducto)

	p.Get("/cotizaciones/", b.listCotizaciones)
	p.Post("/cotizaciones/", b.createCotizacion)
	p.Get("/cotizaciones/:id", b.getCotizacion)
	p.Put("/cotizaciones/:id", b.updateCotizacion)
	p.Delete("/cotizaciones/:id", b.deleteCotizacion)
	p.Post("/cotizaciones/:id/facturar", b.facturar)
	p.Get("/cotizaciones/:id/pdf", b.cotizacionPDF)

	p.Get("/comprobantes/", b.listComprobantes)
	p.Post("/facturacion/:kind", b.download)

	p.Post("/consultar-documento", b.consultarDocumento)
	p.Get("/consultar-ruc/:num", b.consultarRUC)

	p.Get("/notas/", b.listNotas)
	p.Post("/notas/", b.createNota)
	p.Post("/resumen-diario/", b.resumenDiario)
	p.Post("/comunicacion-baja/", b.comunicacionBaja)
	p.Get("/guias-remision/", b.listGuias)
	p.Post("/guias-remision/", b.createGuia)

	adm := p.Group("/admin", b.adminOnly)
	adm.Get("/stats/", b.adminStats)
	adm.Get("/users/", b.adminUsers)
	adm.Get("/users/:id", b.adminUser)
	adm.Get("/users/:id/cotizaciones", b.adminUserCotizaciones)
	adm.Put("/users/:id/status", b.adminUpdateStatus)
	adm.Delete("/users/:id", b.adminDeleteUser)
}

// record guarda la petición y aplica fallas y demoras programadas.
func (b *Backend) record(c *fiber.Ctx) error {
	key := c.Method() + " " + c.Path()
	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        c.Method(),
		Path:          c.Path(),
		Authorization: c.Get(fiber.HeaderAuthorization),
		ContentType:   c.Get(fiber.HeaderContentType),
		Body:          append([]byte(nil), c.Body()...),
	})
	f, fail := b.failures[key]
	delete(b.failures, key)
	d := b.delay[key]
	b.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if fail {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(f.status).SendString(f.body)
	}
	return c.Next()
}

// bearer valida el token como lo haría el backend real.
func (b *Backend) bearer(c *fiber.Ctx) error {
	h := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return detail(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	email, err := jwt.Parse(Secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}
	b.mu.Lock()
	acc, ok := b.accounts[email]
	b.mu.Unlock()
	if !ok {
		return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}
	c.Locals("email", acc.profile.Email)
	return c.Next()
}

func (b *Backend) token(c *fiber.Ctx) error {
	username, password := c.FormValue("username"), c.FormValue("password")
	b.mu.Lock()
	acc, ok := b.accounts[username]
	var active bool
	var reason string
	if ok {
		active, reason = acc.profile.IsActive, acc.profile.DeactivationReason
	}
	ttl := b.tokenTTL
	b.mu.Unlock()
	if !ok || acc.password != password {
		return detail(c, fiber.StatusUnauthorized, "Incorrect username or password")
	}
	if !active {
		if reason == "" {
			reason = "Contacte al administrador."
		}
		return detail(c, fiber.StatusUnauthorized, "Su cuenta ha sido desactivada. Motivo: "+reason)
	}
	return c.JSON(dto.TokenResponse{AccessToken: b.TokenFor(username, ttl), TokenType: "bearer"})
}

func (b *Backend) register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": []fiber.Map{
			{"loc": []string{"body", "email"}, "msg": "field required", "type": "value_error.missing"},
			{"loc": []string{"body", "password"}, "msg": "field required", "type": "value_error.missing"},
		}})
	}
	b.mu.Lock()
	_, exists := b.accounts[in.Email]
	b.mu.Unlock()
	if exists {
		return detail(c, fiber.StatusBadRequest, "El email ya está registrado")
	}
	p := b.AddUser(in.Email, in.Password, false)
	b.mu.Lock()
	acc := b.accounts[in.Email]
	acc.profile.BusinessName = in.BusinessName
	acc.profile.BusinessRUC = in.BusinessRUC
	acc.profile.BusinessAddress = in.BusinessAddress
	acc.profile.BusinessPhone = in.BusinessPhone
	p = acc.profile
	b.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (b *Backend) me(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(b.accounts[currentEmail(c)].profile)
}

func (b *Backend) updateProfile(c *fiber.Ctx) error {
	var in dto.ProfileUpdate
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &b.accounts[currentEmail(c)].profile
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.BusinessName, in.BusinessName)
	set(&p.BusinessAddress, in.BusinessAddress)
	set(&p.BusinessRUC, in.BusinessRUC)
	set(&p.BusinessPhone, in.BusinessPhone)
	set(&p.PrimaryColor, in.PrimaryColor)
	set(&p.PDFNote1, in.PDFNote1)
	set(&p.PDFNote1Color, in.PDFNote1Color)
	set(&p.PDFNote2, in.PDFNote2)
	set(&p.ApisPeruUser, in.ApisPeruUser)
	if in.BankAccounts != nil {
		p.BankAccounts = in.BankAccounts
	}
	return c.JSON(*p)
}

func (b *Backend) uploadLogo(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "Falta el archivo")
	}
	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct != "image/png" && ct != "image/jpeg" {
		return detail(c, fiber.StatusBadRequest, "Solo se permiten imágenes JPG o PNG")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &b.accounts[currentEmail(c)].profile
	p.LogoFilename = fmt.Sprintf("logo_%d_%s", p.ID, fh.Filename)
	return c.JSON(dto.LogoUploadResponse{Filename: p.LogoFilename})
}

func (b *Backend) consultarDocumento(c *fiber.Ctx) error {
	var in dto.DocumentoConsulta
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	return b.lookup(c, in.NumeroDocumento)
}

func (b *Backend) consultarRUC(c *fiber.Ctx) error {
	return b.lookup(c, c.Params("num"))
}

func (b *Backend) lookup(c *fiber.Ctx, numero string) error {
	b.mu.Lock()
	info, ok := b.padron[numero]
	b.mu.Unlock()
	if !ok {
		return detail(c, fiber.StatusNotFound, "No se encontraron datos para el documento")
	}
	return c.JSON(info)
}

func currentEmail(c *fiber.Ctx) string {
	s, _ := c.Locals("email").(string)
	return s
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
