// Package toast cola de notificaciones efímeras. Cada toast se elimina solo
// a los 3 s de mostrarse, sin importar las llamadas posteriores.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// DefaultTTL vida de cada toast.
const DefaultTTL = 3000 * time.Millisecond

// Notifier lo que necesitan los controladores para avisar al usuario.
type Notifier interface {
	Show(message string, typ entity.ToastType) entity.Toast
}

var _ Notifier = (*Service)(nil)

// Service cola ordenada por inserción; sin tope y sin agrupar duplicados.
type Service struct {
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
	onShow func(entity.Toast)

	mu     sync.Mutex
	items  []entity.Toast
	timers map[string]*time.Timer
	closed bool
}

// Option configura el Service.
type Option func(*Service)

// WithTTL cambia la vida de los toasts (los tests usan valores cortos).
func WithTTL(d time.Duration) Option {
	return func(s *Service) { s.ttl = d }
}

// WithLogger registra cada toast con el nivel según su tipo.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l.Named("toast") }
}

// WithListener recibe cada toast al mostrarse (la CLI lo imprime).
func WithListener(fn func(entity.Toast)) Option {
	return func(s *Service) { s.onShow = fn }
}

// New crea el servicio.
func New(opts ...Option) *Service {
	s := &Service{
		ttl:    DefaultTTL,
		log:    logger.Nop(),
		now:    time.Now,
		timers: make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show agrega un toast y agenda su eliminación. Un tipo desconocido se trata como info.
func (s *Service) Show(message string, typ entity.ToastType) entity.Toast {
	if !typ.Valid() {
		typ = entity.ToastInfo
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	t := entity.Toast{ID: id.String(), Message: message, Type: typ, CreatedAt: s.now()}

	s.mu.Lock()
	if !s.closed {
		s.items = append(s.items, t)
		s.timers[t.ID] = time.AfterFunc(s.ttl, func() { s.Remove(t.ID) })
	}
	s.mu.Unlock()

	s.logToast(t)
	if s.onShow != nil {
		s.onShow(t)
	}
	return t
}

// Success atajo de Show(message, success).
func (s *Service) Success(message string) entity.Toast { return s.Show(message, entity.ToastSuccess) }

// Error atajo de Show(message, error).
func (s *Service) Error(message string) entity.Toast { return s.Show(message, entity.ToastError) }

// Remove quita el toast. Un id inexistente no hace nada.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tm, ok := s.timers[id]; ok {
		tm.Stop()
		delete(s.timers, id)
	}
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

// List copia de los toasts visibles en orden de inserción.
func (s *Service) List() []entity.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Toast(nil), s.items...)
}

// Close detiene los timers pendientes y vacía la cola.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, tm := range s.timers {
		tm.Stop()
		delete(s.timers, id)
	}
	s.items = nil
	s.closed = true
}

func (s *Service) logToast(t entity.Toast) {
	level := zerolog.InfoLevel
	switch t.Type {
	case entity.ToastWarning:
		level = zerolog.WarnLevel
	case entity.ToastError:
		level = zerolog.ErrorLevel
	}
	s.log.WithLevel(level).Str("id", t.ID).Str("type", string(t.Type)).Msg(t.Message)
}
