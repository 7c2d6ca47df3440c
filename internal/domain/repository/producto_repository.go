package repository

import (
	"context"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// ProductoRepository define el puerto para el catálogo de productos.
type ProductoRepository interface {
	List(ctx context.Context) ([]entity.Producto, error)
	Create(ctx context.Context, in dto.ProductoRequest) (*entity.Producto, error)
	Update(ctx context.Context, id int64, in dto.ProductoRequest) (*entity.Producto, error)
	Delete(ctx context.Context, id int64) error
}
