package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

var (
	_ repository.ClienteRepository = (*ClienteClient)(nil)
	_ repository.DocumentoLookup   = (*DocumentoClient)(nil)
)

// ClienteClient CRUD de /clientes/.
type ClienteClient struct {
	c *Client
}

// NewClienteClient construye el cliente del recurso clientes.
func NewClienteClient(c *Client) *ClienteClient {
	return &ClienteClient{c: c}
}

func (r *ClienteClient) List(ctx context.Context) ([]entity.Cliente, error) {
	var out []entity.Cliente
	if err := r.c.Get(ctx, "/clientes/", &out); err != nil {
		return nil, fmt.Errorf("clientes: listar: %w", err)
	}
	return out, nil
}

func (r *ClienteClient) Create(ctx context.Context, in dto.ClienteRequest) (*entity.Cliente, error) {
	var out entity.Cliente
	if err := r.c.Post(ctx, "/clientes/", in, &out); err != nil {
		return nil, fmt.Errorf("clientes: crear: %w", err)
	}
	return &out, nil
}

func (r *ClienteClient) Update(ctx context.Context, id int64, in dto.ClienteRequest) (*entity.Cliente, error) {
	var out entity.Cliente
	if err := r.c.Put(ctx, fmt.Sprintf("/clientes/%d", id), in, &out); err != nil {
		return nil, fmt.Errorf("clientes: actualizar %d: %w", id, err)
	}
	return &out, nil
}

func (r *ClienteClient) Delete(ctx context.Context, id int64) error {
	if err := r.c.Delete(ctx, fmt.Sprintf("/clientes/%d", id)); err != nil {
		return fmt.Errorf("clientes: eliminar %d: %w", id, err)
	}
	return nil
}

// DocumentoClient consulta de RUC/DNI en el padrón.
type DocumentoClient struct {
	c *Client
}

// NewDocumentoClient construye el cliente de consulta de documentos.
func NewDocumentoClient(c *Client) *DocumentoClient {
	return &DocumentoClient{c: c}
}

// Consultar usa GET /consultar-ruc/:num para RUC y POST /consultar-documento para el resto.
func (r *DocumentoClient) Consultar(ctx context.Context, tipo, numero string) (*dto.DocumentoInfo, error) {
	var out dto.DocumentoInfo
	var err error
	if tipo == sunat.TipoDocumentoRUC {
		err = r.c.Get(ctx, "/consultar-ruc/"+url.PathEscape(numero), &out)
	} else {
		err = r.c.Post(ctx, "/consultar-documento", dto.DocumentoConsulta{TipoDocumento: tipo, NumeroDocumento: numero}, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("consulta %s %s: %w", tipo, numero, err)
	}
	return &out, nil
}
