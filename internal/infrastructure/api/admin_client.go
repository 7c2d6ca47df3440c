package api

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
)

var _ repository.AdminRepository = (*AdminClient)(nil)

// AdminClient /admin/stats/ y /admin/users/.
type AdminClient struct {
	c *Client
}

// NewAdminClient construye el cliente del panel de administración.
func NewAdminClient(c *Client) *AdminClient {
	return &AdminClient{c: c}
}

func (r *AdminClient) Stats(ctx context.Context) (*entity.AdminStats, error) {
	var out entity.AdminStats
	if err := r.c.Get(ctx, "/admin/stats/", &out); err != nil {
		return nil, fmt.Errorf("admin: estadísticas: %w", err)
	}
	return &out, nil
}

func (r *AdminClient) Users(ctx context.Context) ([]entity.AdminUser, error) {
	var out []entity.AdminUser
	if err := r.c.Get(ctx, "/admin/users/", &out); err != nil {
		return nil, fmt.Errorf("admin: listar usuarios: %w", err)
	}
	return out, nil
}

func (r *AdminClient) User(ctx context.Context, id int64) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := r.c.Get(ctx, fmt.Sprintf("/admin/users/%d", id), &out); err != nil {
		return nil, fmt.Errorf("admin: usuario %d: %w", id, err)
	}
	return &out, nil
}

func (r *AdminClient) UserCotizaciones(ctx context.Context, id int64) ([]entity.Cotizacion, error) {
	var out []entity.Cotizacion
	if err := r.c.Get(ctx, fmt.Sprintf("/admin/users/%d/cotizaciones", id), &out); err != nil {
		return nil, fmt.Errorf("admin: cotizaciones de %d: %w", id, err)
	}
	return out, nil
}

func (r *AdminClient) UpdateStatus(ctx context.Context, id int64, in dto.UserStatusUpdate) (*entity.AdminUser, error) {
	var out entity.AdminUser
	if err := r.c.Put(ctx, fmt.Sprintf("/admin/users/%d/status", id), in, &out); err != nil {
		return nil, fmt.Errorf("admin: estado de %d: %w", id, err)
	}
	return &out, nil
}

func (r *AdminClient) DeleteUser(ctx context.Context, id int64) error {
	if err := r.c.Delete(ctx, fmt.Sprintf("/admin/users/%d", id)); err != nil {
		return fmt.Errorf("admin: eliminar %d: %w", id, err)
	}
	return nil
}
