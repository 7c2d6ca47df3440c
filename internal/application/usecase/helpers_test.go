package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/api/apitest"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
)

const (
	testEmail    = "ventas@acme.pe"
	testPassword = "secreto123"
)

type env struct {
	backend *apitest.Backend
	client  *api.Client
	toasts  *toast.Service
	scope   *remote.Scope
}

func newEnv(t *testing.T) *env {
	t.Helper()
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory(b.TokenFor(testEmail, time.Hour))
	toasts := toast.New(toast.WithTTL(time.Hour))
	scope := remote.NewScope(context.Background())
	t.Cleanup(func() {
		scope.Close()
		toasts.Close()
	})
	return &env{
		backend: b,
		client:  api.New(api.Config{BaseURL: b.URL, Tokens: tokens}),
		toasts:  toasts,
		scope:   scope,
	}
}

// last último toast mostrado.
func (e *env) last() entity.Toast {
	list := e.toasts.List()
	if len(list) == 0 {
		return entity.Toast{}
	}
	return list[len(list)-1]
}

func (e *env) has(typ entity.ToastType, msg string) bool {
	for _, t := range e.toasts.List() {
		if t.Type == typ && t.Message == msg {
			return true
		}
	}
	return false
}
