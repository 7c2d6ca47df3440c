package repository

import (
	"context"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// ClienteRepository define el puerto para los clientes del emisor.
type ClienteRepository interface {
	List(ctx context.Context) ([]entity.Cliente, error)
	Create(ctx context.Context, in dto.ClienteRequest) (*entity.Cliente, error)
	Update(ctx context.Context, id int64, in dto.ClienteRequest) (*entity.Cliente, error)
	Delete(ctx context.Context, id int64) error
}

// DocumentoLookup consulta RUC/DNI en el padrón externo.
type DocumentoLookup interface {
	Consultar(ctx context.Context, tipo, numero string) (*dto.DocumentoInfo, error)
}
