package api

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoClient)(nil)

// ProductoClient CRUD de /productos/.
type ProductoClient struct {
	c *Client
}

// NewProductoClient construye el cliente del recurso productos.
func NewProductoClient(c *Client) *ProductoClient {
	return &ProductoClient{c: c}
}

func (r *ProductoClient) List(ctx context.Context) ([]entity.Producto, error) {
	var out []entity.Producto
	if err := r.c.Get(ctx, "/productos/", &out); err != nil {
		return nil, fmt.Errorf("productos: listar: %w", err)
	}
	return out, nil
}

func (r *ProductoClient) Create(ctx context.Context, in dto.ProductoRequest) (*entity.Producto, error) {
	var out entity.Producto
	if err := r.c.Post(ctx, "/productos/", in, &out); err != nil {
		return nil, fmt.Errorf("productos: crear: %w", err)
	}
	return &out, nil
}

func (r *ProductoClient) Update(ctx context.Context, id int64, in dto.ProductoRequest) (*entity.Producto, error) {
	var out entity.Producto
	if err := r.c.Put(ctx, fmt.Sprintf("/productos/%d", id), in, &out); err != nil {
		return nil, fmt.Errorf("productos: actualizar %d: %w", id, err)
	}
	return &out, nil
}

func (r *ProductoClient) Delete(ctx context.Context, id int64) error {
	if err := r.c.Delete(ctx, fmt.Sprintf("/productos/%d", id)); err != nil {
		return fmt.Errorf("productos: eliminar %d: %w", id, err)
	}
	return nil
}
