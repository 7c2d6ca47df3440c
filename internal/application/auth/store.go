package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/validation"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/jwt"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// State estado de la sesión.
type State int

const (
	StateUninitialized State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// Result resultado de Login/Register: nunca se devuelve como error al llamador.
type Result struct {
	Success bool
	Error   string
}

// Store fuente única de "quién está logueado". Es el único que escribe el token persistido.
// Se inyecta en cada controlador; no hay estado global.
type Store struct {
	api      repository.AuthRepository
	profiles repository.ProfileRepository
	tokens   TokenStore
	validate *validation.Validator
	log      *logger.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state State
	user  *entity.UserProfile
	token string
	subs  map[int]func(State)
	next  int
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj usado para revisar la expiración del JWT.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger asigna el logger de transiciones.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l.Named("auth") }
}

// NewStore construye el Store en estado UNINITIALIZED (Loading() == true hasta el primer CheckAuth).
func NewStore(api repository.AuthRepository, profiles repository.ProfileRepository, tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		api:      api,
		profiles: profiles,
		tokens:   tokens,
		validate: validation.New(),
		log:      logger.Nop(),
		now:      time.Now,
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login intercambia credenciales por token, lo persiste y carga el perfil.
func (s *Store) Login(ctx context.Context, in dto.Credentials) Result {
	if err := s.validate.Struct(in); err != nil {
		return Result{Error: err.Error()}
	}
	token, err := s.api.Token(ctx, in.Username, in.Password)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("login rechazado")
		return Result{Error: apierror.UserMessage(err)}
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		s.log.Error().Err(err).Msg("no se pudo persistir el token")
		return Result{Error: "No se pudo guardar la sesión"}
	}
	if err := s.CheckAuth(ctx); err != nil {
		return Result{Error: apierror.UserMessage(err)}
	}
	if !s.IsAuthenticated() {
		return Result{Error: "No se pudo iniciar sesión"}
	}
	return Result{Success: true}
}

// Register crea la cuenta. No inicia sesión.
func (s *Store) Register(ctx context.Context, in dto.RegisterRequest) Result {
	if err := s.validate.Struct(in); err != nil {
		return Result{Error: err.Error()}
	}
	if _, err := s.api.Register(ctx, in); err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("registro rechazado")
		return Result{Error: apierror.UserMessage(err)}
	}
	s.log.Info().Str("email", in.Email).Msg("cuenta registrada")
	return Result{Success: true}
}

// Logout borra token y usuario. Idempotente y sin llamada al servidor.
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx, "logout")
}

// Expire equivale a un CheckAuth fallido: lo invoca el cliente HTTP ante cualquier 401.
func (s *Store) Expire(ctx context.Context) {
	s.clear(ctx, "expired")
}

// CheckAuth valida el token persistido contra /users/me/. Es la única vía de
// recuperación de sesiones vencidas: ante cualquier falla limpia token y usuario.
// Un JWT con exp ya vencido se descarta sin ir a la red.
func (s *Store) CheckAuth(ctx context.Context) error {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.clear(ctx, "token_unreadable")
		return fmt.Errorf("auth: leer token: %w", err)
	}
	if token == "" {
		s.setAnonymous()
		return nil
	}
	if jwt.Expired(token, s.now()) {
		s.clear(ctx, "token_expired")
		return nil
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.clear(ctx, "profile_failed")
		return fmt.Errorf("auth: validar sesión: %w", err)
	}
	if user == nil {
		s.clear(ctx, "profile_empty")
		return domain.ErrNotAuthenticated
	}

	s.mu.Lock()
	s.user, s.token = user, token
	changed := s.transition(StateAuthenticated)
	s.mu.Unlock()
	if changed {
		s.log.Info().Str("email", user.Email).Bool("admin", user.IsAdmin).Msg("sesión iniciada")
		s.notify(StateAuthenticated)
	}
	return nil
}

// UpdateProfile envía los cambios y reemplaza el perfil en memoria por la respuesta del backend.
func (s *Store) UpdateProfile(ctx context.Context, in dto.ProfileUpdate) (*entity.UserProfile, error) {
	if !s.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.profiles.Update(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("auth: actualizar perfil: %w", err)
	}
	s.replaceUser(user)
	return user, nil
}

// UploadLogo sube el logo y recarga el perfil para reflejar logo_filename.
func (s *Store) UploadLogo(ctx context.Context, filename string, content []byte) (string, error) {
	if !s.IsAuthenticated() {
		return "", domain.ErrNotAuthenticated
	}
	stored, err := s.profiles.UploadLogo(ctx, filename, content)
	if err != nil {
		return "", fmt.Errorf("auth: subir logo: %w", err)
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		return stored, fmt.Errorf("auth: recargar perfil: %w", err)
	}
	s.replaceUser(user)
	return stored, nil
}

// IsAuthenticated user != nil.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loading es true solo antes de que termine el primer CheckAuth.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateUninitialized
}

// User perfil actual (nil si anónimo). El perfil se reemplaza completo; no modificarlo.
func (s *Store) User() *entity.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Peek devuelve Loading() y User() leídos bajo el mismo lock.
func (s *Store) Peek() (loading bool, user *entity.UserProfile) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateUninitialized, s.user
}

// Token token en memoria; vacío si anónimo.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State estado actual.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registra un observador de transiciones; devuelve la función para darse de baja.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) clear(ctx context.Context, reason string) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo borrar el token persistido")
	}
	s.mu.Lock()
	hadUser := s.user != nil
	s.user, s.token = nil, ""
	changed := s.transition(StateAnonymous)
	s.mu.Unlock()
	if hadUser {
		s.log.Info().Str("reason", reason).Msg("sesión cerrada")
	}
	if changed {
		s.notify(StateAnonymous)
	}
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.user, s.token = nil, ""
	changed := s.transition(StateAnonymous)
	s.mu.Unlock()
	if changed {
		s.notify(StateAnonymous)
	}
}

func (s *Store) replaceUser(u *entity.UserProfile) {
	if u == nil {
		return
	}
	s.mu.Lock()
	if s.user != nil {
		s.user = u
	}
	s.mu.Unlock()
}

// transition debe llamarse con mu tomado.
func (s *Store) transition(to State) bool {
	if s.state == to {
		return false
	}
	s.log.Debug().Stringer("from", s.state).Stringer("to", to).Msg("transición de sesión")
	s.state = to
	return true
}

func (s *Store) notify(st State) {
	s.mu.RLock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(st)
	}
}
