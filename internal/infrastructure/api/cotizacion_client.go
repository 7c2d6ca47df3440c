package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
)

var (
	_ repository.CotizacionRepository  = (*CotizacionClient)(nil)
	_ repository.ComprobanteRepository = (*ComprobanteClient)(nil)
)

// CotizacionClient /cotizaciones/ y la emisión de comprobantes.
type CotizacionClient struct {
	c *Client
}

// NewCotizacionClient construye el cliente del recurso cotizaciones.
func NewCotizacionClient(c *Client) *CotizacionClient {
	return &CotizacionClient{c: c}
}

func (r *CotizacionClient) List(ctx context.Context) ([]entity.Cotizacion, error) {
	var out []entity.Cotizacion
	if err := r.c.Get(ctx, "/cotizaciones/", &out); err != nil {
		return nil, fmt.Errorf("cotizaciones: listar: %w", err)
	}
	return out, nil
}

func (r *CotizacionClient) GetByID(ctx context.Context, id int64) (*entity.Cotizacion, error) {
	var out entity.Cotizacion
	if err := r.c.Get(ctx, fmt.Sprintf("/cotizaciones/%d", id), &out); err != nil {
		return nil, fmt.Errorf("cotizaciones: obtener %d: %w", id, err)
	}
	return &out, nil
}

func (r *CotizacionClient) Create(ctx context.Context, in dto.CotizacionRequest) (*entity.Cotizacion, error) {
	var out entity.Cotizacion
	if err := r.c.Post(ctx, "/cotizaciones/", in, &out); err != nil {
		return nil, fmt.Errorf("cotizaciones: crear: %w", err)
	}
	return &out, nil
}

func (r *CotizacionClient) Update(ctx context.Context, id int64, in dto.CotizacionRequest) (*entity.Cotizacion, error) {
	var out entity.Cotizacion
	if err := r.c.Put(ctx, fmt.Sprintf("/cotizaciones/%d", id), in, &out); err != nil {
		return nil, fmt.Errorf("cotizaciones: actualizar %d: %w", id, err)
	}
	return &out, nil
}

func (r *CotizacionClient) Delete(ctx context.Context, id int64) error {
	if err := r.c.Delete(ctx, fmt.Sprintf("/cotizaciones/%d", id)); err != nil {
		return fmt.Errorf("cotizaciones: eliminar %d: %w", id, err)
	}
	return nil
}

// Facturar emite el comprobante. Un 200 con success=false (rechazo SUNAT) se devuelve sin error.
func (r *CotizacionClient) Facturar(ctx context.Context, id int64, tipoComprobante string) (*entity.Comprobante, error) {
	var out entity.Comprobante
	path := fmt.Sprintf("/cotizaciones/%d/facturar", id)
	if err := r.c.Post(ctx, path, dto.FacturarRequest{TipoComprobante: tipoComprobante}, &out); err != nil {
		return nil, fmt.Errorf("cotizaciones: facturar %d: %w", id, err)
	}
	return &out, nil
}

// PDF descarga el PDF de la cotización generado por el backend.
func (r *CotizacionClient) PDF(ctx context.Context, cot *entity.Cotizacion) (*dto.Document, error) {
	if cot == nil {
		return nil, domain.ErrInvalidInput
	}
	bin, err := r.c.Download(ctx, http.MethodGet, fmt.Sprintf("/cotizaciones/%d/pdf", cot.ID), nil)
	if err != nil {
		return nil, fmt.Errorf("cotizaciones: pdf %d: %w", cot.ID, err)
	}
	return &dto.Document{
		Filename:    CotizacionFilename(cot.NumeroCotizacion, cot.NombreCliente()),
		ContentType: orDefault(bin.ContentType, "application/pdf"),
		Data:        bin.Data,
	}, nil
}

// ComprobanteClient /comprobantes/ y descargas de /facturacion/{pdf|xml|cdr}.
type ComprobanteClient struct {
	c *Client
}

// NewComprobanteClient construye el cliente de comprobantes.
func NewComprobanteClient(c *Client) *ComprobanteClient {
	return &ComprobanteClient{c: c}
}

// List comprobantes emitidos; tipoDoc filtra por código de catálogo 01 (vacío = todos).
func (r *ComprobanteClient) List(ctx context.Context, tipoDoc string) ([]entity.Comprobante, error) {
	path := "/comprobantes/"
	if tipoDoc != "" {
		path += "?" + url.Values{"tipo_doc": {tipoDoc}}.Encode()
	}
	var out []entity.Comprobante
	if err := r.c.Get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("comprobantes: listar: %w", err)
	}
	return out, nil
}

// Download descarga PDF, XML o CDR y deriva el nombre Comprobante_{serie}-{correlativo}.{ext}.
func (r *ComprobanteClient) Download(ctx context.Context, c *entity.Comprobante, kind dto.DocumentKind) (*dto.Document, error) {
	if c == nil || !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	bin, err := r.c.Download(ctx, http.MethodPost, "/facturacion/"+string(kind), dto.DocumentRequest{ComprobanteID: c.ID})
	if err != nil {
		return nil, fmt.Errorf("comprobantes: descargar %s de %s: %w", kind, c.Numero(), err)
	}
	return &dto.Document{
		Filename:    ComprobanteFilename(c.Serie, c.Correlativo, kind),
		ContentType: orDefault(bin.ContentType, defaultContentType(kind)),
		Data:        bin.Data,
	}, nil
}

func defaultContentType(kind dto.DocumentKind) string {
	switch kind {
	case dto.DocumentXML:
		return "application/xml"
	case dto.DocumentCDR:
		return "application/zip"
	default:
		return "application/pdf"
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
