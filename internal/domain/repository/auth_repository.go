package repository

import (
	"context"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// AuthRepository define el puerto de autenticación contra el backend.
type AuthRepository interface {
	// Token intercambia usuario/contraseña por un bearer token.
	Token(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, in dto.RegisterRequest) (*entity.UserProfile, error)
	// Me devuelve el perfil del dueño del token persistido.
	Me(ctx context.Context) (*entity.UserProfile, error)
}

// ProfileRepository define el puerto para el perfil del emisor.
type ProfileRepository interface {
	Update(ctx context.Context, in dto.ProfileUpdate) (*entity.UserProfile, error)
	UploadLogo(ctx context.Context, filename string, content []byte) (string, error)
}
