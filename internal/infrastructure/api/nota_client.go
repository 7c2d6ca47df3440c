package api

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
)

var (
	_ repository.NotaRepository    = (*NotaClient)(nil)
	_ repository.ResumenRepository = (*ResumenClient)(nil)
	_ repository.GuiaRepository    = (*GuiaClient)(nil)
)

// NotaClient /notas/.
type NotaClient struct {
	c *Client
}

// NewNotaClient construye el cliente de notas de crédito.
func NewNotaClient(c *Client) *NotaClient {
	return &NotaClient{c: c}
}

func (r *NotaClient) List(ctx context.Context) ([]entity.Nota, error) {
	var out []entity.Nota
	if err := r.c.Get(ctx, "/notas/", &out); err != nil {
		return nil, fmt.Errorf("notas: listar: %w", err)
	}
	return out, nil
}

// Create emite la nota. Un 200 con success=false (rechazo SUNAT) se devuelve sin error.
func (r *NotaClient) Create(ctx context.Context, in dto.NotaRequest) (*entity.Nota, error) {
	var out entity.Nota
	if err := r.c.Post(ctx, "/notas/", in, &out); err != nil {
		return nil, fmt.Errorf("notas: emitir contra %d: %w", in.ComprobanteAfectadoID, err)
	}
	return &out, nil
}

// ResumenClient /resumen-diario/ y /comunicacion-baja/.
type ResumenClient struct {
	c *Client
}

// NewResumenClient construye el cliente de envíos por lote.
func NewResumenClient(c *Client) *ResumenClient {
	return &ResumenClient{c: c}
}

func (r *ResumenClient) ResumenDiario(ctx context.Context, in dto.ResumenDiarioRequest) (string, error) {
	return r.send(ctx, "/resumen-diario/", in, "resumen diario")
}

func (r *ResumenClient) ComunicacionBaja(ctx context.Context, in dto.ComunicacionBajaRequest) (string, error) {
	return r.send(ctx, "/comunicacion-baja/", in, "comunicación de baja")
}

func (r *ResumenClient) send(ctx context.Context, path string, in any, what string) (string, error) {
	var out dto.TicketResponse
	if err := r.c.Post(ctx, path, in, &out); err != nil {
		return "", fmt.Errorf("sunat: %s: %w", what, err)
	}
	if out.Ticket == "" {
		return "", fmt.Errorf("sunat: %s: respuesta sin ticket: %w", what, domain.ErrServer)
	}
	return out.Ticket, nil
}

// GuiaClient /guias-remision/.
type GuiaClient struct {
	c *Client
}

// NewGuiaClient construye el cliente de guías de remisión.
func NewGuiaClient(c *Client) *GuiaClient {
	return &GuiaClient{c: c}
}

func (r *GuiaClient) List(ctx context.Context) ([]entity.GuiaRemision, error) {
	var out []entity.GuiaRemision
	if err := r.c.Get(ctx, "/guias-remision/", &out); err != nil {
		return nil, fmt.Errorf("guias: listar: %w", err)
	}
	return out, nil
}

func (r *GuiaClient) Create(ctx context.Context, in dto.GuiaRemisionRequest) (*entity.GuiaRemision, error) {
	var out entity.GuiaRemision
	if err := r.c.Post(ctx, "/guias-remision/", in, &out); err != nil {
		return nil, fmt.Errorf("guias: emitir: %w", err)
	}
	return &out, nil
}
