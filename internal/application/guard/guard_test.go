package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturapro/internal/application/guard"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

var (
	admin  = &entity.UserProfile{ID: 1, Email: "admin@acme.pe", IsAdmin: true}
	vendor = &entity.UserProfile{ID: 2, Email: "ventas@acme.pe"}
)

func TestDecide(t *testing.T) {
	render := guard.Decision{Action: guard.Render}
	wait := guard.Decision{Action: guard.Wait}
	toLogin := guard.Decision{Action: guard.Redirect, To: guard.LoginPath}
	toHome := guard.Decision{Action: guard.Redirect, To: guard.HomePath}

	cases := []struct {
		name   string
		snap   guard.Snapshot
		policy guard.Policy
		want   guard.Decision
	}{
		{"protegida cargando espera", guard.Snapshot{Loading: true}, guard.Protected, wait},
		{"admin cargando espera aunque haya usuario", guard.Snapshot{Loading: true, User: vendor}, guard.AdminOnly, wait},
		{"pública cargando espera", guard.Snapshot{Loading: true}, guard.PublicOnly, wait},
		{"protegida anónimo a login", guard.Snapshot{}, guard.Protected, toLogin},
		{"protegida con sesión renderiza", guard.Snapshot{User: vendor}, guard.Protected, render},
		{"admin anónimo a login", guard.Snapshot{}, guard.AdminOnly, toLogin},
		{"admin sin permiso a inicio", guard.Snapshot{User: vendor}, guard.AdminOnly, toHome},
		{"admin con permiso renderiza", guard.Snapshot{User: admin}, guard.AdminOnly, render},
		{"pública anónimo renderiza", guard.Snapshot{}, guard.PublicOnly, render},
		{"pública con sesión a inicio", guard.Snapshot{User: vendor}, guard.PublicOnly, toHome},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, guard.Decide(tc.snap, tc.policy))
		})
	}
}

type fakeSession struct {
	loading bool
	user    *entity.UserProfile
}

func (f fakeSession) Peek() (bool, *entity.UserProfile) { return f.loading, f.user }

func TestFrom(t *testing.T) {
	snap := guard.From(fakeSession{user: admin})
	assert.False(t, snap.Loading)
	assert.Same(t, admin, snap.User)
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "protected", guard.Protected.String())
	assert.Equal(t, "admin_only", guard.AdminOnly.String())
	assert.Equal(t, "public_only", guard.PublicOnly.String())
}
