package repository

import (
	"context"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// NotaRepository define el puerto para notas de crédito.
type NotaRepository interface {
	List(ctx context.Context) ([]entity.Nota, error)
	// Create emite la nota. Un rechazo de SUNAT llega como Success=false, sin error.
	Create(ctx context.Context, in dto.NotaRequest) (*entity.Nota, error)
}

// ResumenRepository define el puerto para los envíos por lote a SUNAT.
// Ambos devuelven el ticket con el que SUNAT procesa el lote.
type ResumenRepository interface {
	ResumenDiario(ctx context.Context, in dto.ResumenDiarioRequest) (string, error)
	ComunicacionBaja(ctx context.Context, in dto.ComunicacionBajaRequest) (string, error)
}

// GuiaRepository define el puerto para guías de remisión.
type GuiaRepository interface {
	List(ctx context.Context) ([]entity.GuiaRemision, error)
	Create(ctx context.Context, in dto.GuiaRemisionRequest) (*entity.GuiaRemision, error)
}
