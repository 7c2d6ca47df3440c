// Package guard decide qué hacer con una navegación según el estado de la sesión.
// Es una función pura del estado: no llama a la red ni modifica la sesión.
package guard

import "github.com/jhoicas/facturapro/internal/domain/entity"

// Rutas de destino de las redirecciones.
const (
	LoginPath = "/login"
	HomePath  = "/dashboard"
)

// Policy requisito de acceso de una ruta.
type Policy int

const (
	// Protected requiere sesión.
	Protected Policy = iota
	// AdminOnly requiere sesión de administrador.
	AdminOnly
	// PublicOnly solo para anónimos (login, registro).
	PublicOnly
)

func (p Policy) String() string {
	switch p {
	case AdminOnly:
		return "admin_only"
	case PublicOnly:
		return "public_only"
	default:
		return "protected"
	}
}

// Action tipo de decisión.
type Action int

const (
	Wait Action = iota
	Render
	Redirect
)

// Decision resultado del guard. To solo tiene valor si Action == Redirect.
type Decision struct {
	Action Action
	To     string
}

// Snapshot estado de sesión que necesita el guard.
type Snapshot struct {
	Loading bool
	User    *entity.UserProfile
}

// Session lo que expone auth.Store. Peek lee carga y usuario bajo un mismo lock.
type Session interface {
	Peek() (loading bool, user *entity.UserProfile)
}

// From toma una foto consistente de la sesión.
func From(s Session) Snapshot {
	loading, user := s.Peek()
	return Snapshot{Loading: loading, User: user}
}

// Decide mientras la sesión carga siempre espera; nunca renderiza ni redirige.
func Decide(s Snapshot, p Policy) Decision {
	if s.Loading {
		return Decision{Action: Wait}
	}
	switch p {
	case PublicOnly:
		if s.User != nil {
			return Decision{Action: Redirect, To: HomePath}
		}
	case AdminOnly:
		if s.User == nil {
			return Decision{Action: Redirect, To: LoginPath}
		}
		if !s.User.IsAdmin {
			return Decision{Action: Redirect, To: HomePath}
		}
	default:
		if s.User == nil {
			return Decision{Action: Redirect, To: LoginPath}
		}
	}
	return Decision{Action: Render}
}
