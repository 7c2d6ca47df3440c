package repository

import (
	"context"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// AdminRepository define el puerto del panel de administración (/admin/...).
// El backend responde 403 si el token no es de un administrador.
type AdminRepository interface {
	Stats(ctx context.Context) (*entity.AdminStats, error)
	Users(ctx context.Context) ([]entity.AdminUser, error)
	User(ctx context.Context, id int64) (*entity.UserProfile, error)
	UserCotizaciones(ctx context.Context, id int64) ([]entity.Cotizacion, error)
	UpdateStatus(ctx context.Context, id int64, in dto.UserStatusUpdate) (*entity.AdminUser, error)
	DeleteUser(ctx context.Context, id int64) error
}
