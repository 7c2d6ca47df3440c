package repository

import (
	"context"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// CotizacionRepository define el puerto para cotizaciones.
// Create/Update reciben el payload sin totales; el backend los recalcula.
type CotizacionRepository interface {
	List(ctx context.Context) ([]entity.Cotizacion, error)
	GetByID(ctx context.Context, id int64) (*entity.Cotizacion, error)
	Create(ctx context.Context, in dto.CotizacionRequest) (*entity.Cotizacion, error)
	Update(ctx context.Context, id int64, in dto.CotizacionRequest) (*entity.Cotizacion, error)
	Delete(ctx context.Context, id int64) error
	// Facturar emite el comprobante. Un rechazo de SUNAT llega como Success=false, sin error.
	Facturar(ctx context.Context, id int64, tipoComprobante string) (*entity.Comprobante, error)
	PDF(ctx context.Context, c *entity.Cotizacion) (*dto.Document, error)
}

// ComprobanteRepository define el puerto para comprobantes emitidos y sus archivos.
type ComprobanteRepository interface {
	List(ctx context.Context, tipoDoc string) ([]entity.Comprobante, error)
	Download(ctx context.Context, c *entity.Comprobante, kind dto.DocumentKind) (*dto.Document, error)
}
