package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/logger"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// Tipos de comprobante que acepta POST /cotizaciones/:id/facturar.
const (
	TipoFactura = "factura"
	TipoBoleta  = "boleta"
)

// IssueOutcome resultado de emitir un comprobante. Accepted=false es un rechazo de
// SUNAT: estado final válido, no un error de la llamada.
type IssueOutcome struct {
	Comprobante *entity.Comprobante
	Accepted    bool
	Message     string
}

// Deps dependencias de Quotations.
type Deps struct {
	Cotizaciones repository.CotizacionRepository
	Comprobantes repository.ComprobanteRepository
	Preview      PreviewPDFGenerator // opcional
	Toasts       toast.Notifier
	Logger       *logger.Logger
}

// Quotations controlador de cotizaciones y comprobantes.
type Quotations struct {
	scope        *remote.Scope
	cotizaciones repository.CotizacionRepository
	comprobantes repository.ComprobanteRepository
	preview      PreviewPDFGenerator
	toasts       toast.Notifier
	log          *logger.Logger
	now          func() time.Time

	list   remote.Resource[[]entity.Cotizacion]
	issued remote.Resource[[]entity.Comprobante]
}

// NewQuotations construye el controlador atado a scope.
func NewQuotations(scope *remote.Scope, d Deps) *Quotations {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Quotations{
		scope:        scope,
		cotizaciones: d.Cotizaciones,
		comprobantes: d.Comprobantes,
		preview:      d.Preview,
		toasts:       d.Toasts,
		log:          log.Named("cotizaciones"),
		now:          time.Now,
	}
}

// List estado de la lista de cotizaciones.
func (uc *Quotations) List() *remote.Resource[[]entity.Cotizacion] { return &uc.list }

// Issued estado de la lista de comprobantes emitidos.
func (uc *Quotations) Issued() *remote.Resource[[]entity.Comprobante] { return &uc.issued }

// Load pide las cotizaciones.
func (uc *Quotations) Load() error {
	err := uc.list.Load(uc.scope, uc.cotizaciones.List)
	uc.reportLoad(err)
	return err
}

// LoadComprobantes pide los comprobantes emitidos; tipoDoc "" = todos.
func (uc *Quotations) LoadComprobantes(tipoDoc string) error {
	err := uc.issued.Load(uc.scope, func(ctx context.Context) ([]entity.Comprobante, error) {
		return uc.comprobantes.List(ctx, tipoDoc)
	})
	uc.reportLoad(err)
	return err
}

// Get detalle de una cotización (para editar o descargar).
func (uc *Quotations) Get(id int64) (*entity.Cotizacion, error) {
	c, err := uc.cotizaciones.GetByID(uc.scope.Context(), id)
	if err != nil {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}
	return c, nil
}

// Save crea o actualiza según el editor y recarga la lista.
func (uc *Quotations) Save(ed *Editor) (*entity.Cotizacion, error) {
	req, err := ed.Request()
	if err != nil {
		uc.toasts.Show(FormMessage(err), entity.ToastError)
		return nil, err
	}

	var c *entity.Cotizacion
	if ed.ID() == 0 {
		c, err = uc.cotizaciones.Create(uc.scope.Context(), req)
	} else {
		c, err = uc.cotizaciones.Update(uc.scope.Context(), ed.ID(), req)
	}
	if err != nil {
		uc.log.Warn().Err(err).Int64("id", ed.ID()).Msg("no se pudo guardar la cotización")
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}

	if ed.ID() == 0 {
		uc.toasts.Show(fmt.Sprintf("¡Cotización N° %s creada!", c.NumeroCotizacion), entity.ToastSuccess)
	} else {
		uc.toasts.Show("¡Cotización actualizada con éxito!", entity.ToastSuccess)
	}
	_ = uc.Load()
	return c, nil
}

// Delete elimina la cotización y recarga.
func (uc *Quotations) Delete(id int64) error {
	if err := uc.cotizaciones.Delete(uc.scope.Context(), id); err != nil {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return err
	}
	uc.toasts.Show("Cotización eliminada con éxito.", entity.ToastSuccess)
	_ = uc.Load()
	return nil
}

// Facturar emite factura o boleta. Solo devuelve error si la llamada falla;
// un rechazo de SUNAT se devuelve como IssueOutcome{Accepted: false}.
func (uc *Quotations) Facturar(id int64, tipo string) (*IssueOutcome, error) {
	if tipo != TipoFactura && tipo != TipoBoleta {
		uc.toasts.Show("Seleccione factura o boleta.", entity.ToastError)
		return nil, fmt.Errorf("%w: tipo de comprobante %q", domain.ErrInvalidInput, tipo)
	}

	comp, err := uc.cotizaciones.Facturar(uc.scope.Context(), id, tipo)
	if err != nil {
		uc.log.Warn().Err(err).Int64("cotizacion", id).Str("tipo", tipo).Msg("emisión fallida")
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}

	name := sunat.NombreComprobante(comp.TipoDoc)
	out := &IssueOutcome{Comprobante: comp, Accepted: comp.Success}
	if comp.Success {
		out.Message = fmt.Sprintf("¡%s enviada a SUNAT con éxito!", name)
		uc.log.Info().Int64("cotizacion", id).Str("numero", comp.Numero()).Msg("comprobante aceptado")
		uc.toasts.Show(out.Message, entity.ToastSuccess)
	} else {
		reason := comp.SunatError()
		if reason == "" {
			reason = "sin detalle"
		}
		out.Message = fmt.Sprintf("%s rechazada por SUNAT: %s", name, reason)
		uc.log.Warn().Int64("cotizacion", id).Str("numero", comp.Numero()).Str("motivo", reason).Msg("comprobante rechazado")
		uc.toasts.Show(out.Message, entity.ToastWarning)
	}
	_ = uc.Load()
	return out, nil
}

// Download descarga PDF, XML o CDR del comprobante.
func (uc *Quotations) Download(comp *entity.Comprobante, kind dto.DocumentKind) (*dto.Document, error) {
	doc, err := uc.comprobantes.Download(uc.scope.Context(), comp, kind)
	if err != nil {
		msg := apierror.UserMessage(err)
		if msg == "" {
			msg = "Error al descargar " + string(kind)
		}
		uc.toasts.Show(msg, entity.ToastError)
		return nil, err
	}
	return doc, nil
}

// DownloadQuotationPDF PDF oficial de la cotización generado por el backend.
func (uc *Quotations) DownloadQuotationPDF(c *entity.Cotizacion) (*dto.Document, error) {
	doc, err := uc.cotizaciones.PDF(uc.scope.Context(), c)
	if err != nil {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}
	return doc, nil
}

// PreviewPDF PDF local del borrador, marcado como no válido.
func (uc *Quotations) PreviewPDF(ed *Editor, emisor *entity.UserProfile, cliente *entity.Cliente) (*dto.Document, error) {
	if uc.preview == nil {
		return nil, fmt.Errorf("billing: vista previa PDF no configurada")
	}
	if len(ed.Draft().Items) == 0 {
		uc.toasts.Show(FormMessage(ErrSinItems), entity.ToastError)
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrSinItems)
	}
	pd := ed.PreviewDocument(emisor, cliente)
	pd.Fecha = uc.now()
	data, err := uc.preview.GeneratePreviewPDF(uc.scope.Context(), pd)
	if err != nil {
		uc.log.Error().Err(err).Msg("no se pudo generar la vista previa")
		uc.toasts.Show("No se pudo generar la vista previa.", entity.ToastError)
		return nil, err
	}
	return &dto.Document{Filename: "Cotizacion_borrador.pdf", ContentType: "application/pdf", Data: data}, nil
}

func (uc *Quotations) reportLoad(err error) {
	if err != nil && !uc.scope.Closed() {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
	}
}
