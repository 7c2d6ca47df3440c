package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/facturapro/internal/application/auth"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// LocalSession key de Locals con la *Session del navegador.
const LocalSession = "session"

// SessionConfig parámetros de la cookie y de la verificación inicial.
type SessionConfig struct {
	Cookie string
	TTL    time.Duration
	Secure bool
	// CheckTimeout cuánto espera el guard al primer CheckAuth antes de responder 503.
	CheckTimeout time.Duration
	// AnonymousTTL inactividad tolerada a una sesión sin usuario; acotada por TTL.
	AnonymousTTL time.Duration
}

// Session estado de un navegador: su auth.Store, su cola de toasts y su cliente API.
// El token vive en Redis; el resto en memoria del proceso.
type Session struct {
	ID     string
	Auth   *auth.Store
	Toasts *toast.Service
	Client *api.Client

	ready    chan struct{}
	mu       sync.Mutex
	lastSeen time.Time
}

// Ready se cierra cuando termina el primer CheckAuth.
func (s *Session) Ready() <-chan struct{} { return s.ready }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Sessions registro de sesiones del gateway.
type Sessions struct {
	cfg    SessionConfig
	api    api.Config
	tokens *tokenstore.Redis
	log    *logger.Logger
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*Session
}

// SessionsOption configura el registro.
type SessionsOption func(*Sessions)

// WithSessionClock reemplaza el reloj de inactividad.
func WithSessionClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) { s.now = now }
}

// NewSessions construye el registro. apiCfg es la plantilla del cliente API
// (BaseURL, Timeout, Metrics, Logger); Tokens se asigna por sesión.
func NewSessions(cfg SessionConfig, apiCfg api.Config, tokens *tokenstore.Redis, log *logger.Logger, opts ...SessionsOption) *Sessions {
	if cfg.Cookie == "" {
		cfg.Cookie = "facturapro_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	if cfg.AnonymousTTL <= 0 {
		cfg.AnonymousTTL = 15 * time.Minute
	}
	if cfg.AnonymousTTL > cfg.TTL {
		cfg.AnonymousTTL = cfg.TTL
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Sessions{
		cfg:    cfg,
		api:    apiCfg,
		tokens: tokens,
		log:    log.Named("sessions"),
		now:    time.Now,
		items:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get devuelve la sesión id, creándola si no existe o si expiró por inactividad.
func (s *Sessions) Get(id string) *Session {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.items[id]; ok {
		if !s.expired(sess, now) {
			sess.touch(now)
			return sess
		}
		sess.Toasts.Close()
		delete(s.items, id)
	}
	s.sweep(now)

	sess := s.open(id, now)
	s.items[id] = sess
	return sess
}

// Len cantidad de sesiones vivas.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close detiene los timers de toasts de todas las sesiones.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.items {
		sess.Toasts.Close()
		delete(s.items, id)
	}
}

// open debe llamarse con mu tomado.
func (s *Sessions) open(id string, now time.Time) *Session {
	tokens := s.tokens.For(id)
	cfg := s.api
	cfg.Tokens = tokens
	client := api.New(cfg)
	authClient := api.NewAuthClient(client)

	log := s.log.Named("session:" + id[:8])
	store := auth.NewStore(authClient, authClient, tokens, auth.WithLogger(log))
	client.OnUnauthorized(store.Expire)

	sess := &Session{
		ID:       id,
		Auth:     store,
		Toasts:   toast.New(toast.WithLogger(log)),
		Client:   client,
		ready:    make(chan struct{}),
		lastSeen: now,
	}
	go func() {
		defer close(sess.ready)
		if err := store.CheckAuth(context.Background()); err != nil {
			log.Warn().Err(err).Msg("verificación inicial de sesión fallida")
		}
	}()
	s.log.Debug().Str("session", id).Msg("sesión abierta")
	return sess
}

// sweep descarta sesiones inactivas; debe llamarse con mu tomado.
func (s *Sessions) sweep(now time.Time) {
	for id, sess := range s.items {
		if s.expired(sess, now) {
			sess.Toasts.Close()
			delete(s.items, id)
		}
	}
}

// expired una sesión sin usuario vive AnonymousTTL; con usuario, TTL. Descartar
// una sesión autenticada no cierra el login: el token sigue en Redis y la
// siguiente petición con la misma cookie lo restaura.
func (s *Sessions) expired(sess *Session, now time.Time) bool {
	ttl := s.cfg.AnonymousTTL
	if sess.Auth.IsAuthenticated() {
		ttl = s.cfg.TTL
	}
	return sess.idleSince(now) >= ttl
}

// SessionMiddleware asocia cada petición a una sesión por cookie, emitiendo
// un id nuevo (UUID) cuando falta o no es válido.
func SessionMiddleware(s *Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(s.cfg.Cookie)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Cookie(&fiber.Cookie{
			Name:     s.cfg.Cookie,
			Value:    id,
			Path:     "/",
			Expires:  s.now().Add(s.cfg.TTL),
			HTTPOnly: true,
			Secure:   s.cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(LocalSession, s.Get(id))
		return c.Next()
	}
}

// GetSession devuelve la sesión de la petición (después de SessionMiddleware).
func GetSession(c *fiber.Ctx) *Session {
	v := c.Locals(LocalSession)
	if v == nil {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}
