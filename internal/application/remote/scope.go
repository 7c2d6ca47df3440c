package remote

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scope alcance de cancelación de una vista. Al cerrarse cancela las peticiones
// en curso y los resultados que lleguen tarde no se aplican.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// NewScope deriva un alcance de parent.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context contexto a pasar a las llamadas de red.
func (s *Scope) Context() context.Context { return s.ctx }

// Close cancela el alcance. Idempotente.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Closed true después de Close o si el padre fue cancelado.
func (s *Scope) Closed() bool {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	return closed || s.ctx.Err() != nil
}

// LoadAll corre cargas independientes en paralelo y espera a todas.
// Sin contexto compartido: la falla de una no cancela a las demás.
// Devuelve el primer error solo para logging; cada recurso guarda el suyo.
func LoadAll(loaders ...func() error) error {
	var g errgroup.Group
	for _, load := range loaders {
		g.Go(load)
	}
	return g.Wait()
}
