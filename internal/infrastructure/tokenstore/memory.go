// Package tokenstore implementaciones de auth.TokenStore: memoria, archivo (CLI) y Redis (gateway).
package tokenstore

import (
	"context"
	"sync"

	"github.com/jhoicas/facturapro/internal/application/auth"
)

var (
	_ auth.TokenStore = (*Memory)(nil)
	_ auth.TokenStore = (*File)(nil)
	_ auth.TokenStore = (*RedisToken)(nil)
)

// Memory guarda el token en memoria del proceso.
type Memory struct {
	mu    sync.Mutex
	token string
}

// NewMemory crea un store vacío (o con token inicial).
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
