package auth

import "context"

// TokenStore persiste el bearer token de la sesión (archivo en la CLI, Redis en el gateway).
// Load devuelve "" sin error cuando no hay token.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
