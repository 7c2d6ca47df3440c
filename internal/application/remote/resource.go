// Package remote modela datos remotos de una vista: estado de carga, error propio
// y un alcance de cancelación atado a la vida de la vista.
package remote

import (
	"context"
	"sync"
)

// Status estado de un recurso.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "idle"
	}
}

// Resource valor remoto con su estado. Cada recurso guarda su propio error.
type Resource[T any] struct {
	mu     sync.RWMutex
	status Status
	data   T
	err    error
	seq    uint64
}

// Snapshot copia del estado de un recurso.
type Snapshot[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Get estado actual.
func (r *Resource[T]) Get() Snapshot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot[T]{Status: r.status, Data: r.data, Err: r.err}
}

// Data último valor cargado con éxito (cero si nunca cargó).
func (r *Resource[T]) Data() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

// Status estado actual.
func (r *Resource[T]) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Err error de la última carga fallida.
func (r *Resource[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Load ejecuta fn dentro del alcance. Si el alcance se cerró antes de que fn
// termine, o si empezó una carga más nueva, el resultado se descarta.
// Devuelve el error de fn (o el del alcance) para que el llamador decida si avisa.
func (r *Resource[T]) Load(scope *Scope, fn func(ctx context.Context) (T, error)) error {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.status = Loading
	r.err = nil
	r.mu.Unlock()

	ctx := scope.Context()
	v, err := fn(ctx)

	if scope.Closed() {
		return context.Canceled
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		return err
	}
	if err != nil {
		r.status, r.err = Failure, err
		return err
	}
	r.status, r.data = Success, v
	return nil
}

// Reset vuelve a Idle.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.seq++
	r.status, r.data, r.err = Idle, zero, nil
}
