package billing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/application/validation"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/logger"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// NotaOutcome resultado de emitir una nota de crédito; mismo contrato que IssueOutcome.
type NotaOutcome struct {
	Nota     *entity.Nota
	Accepted bool
	Message  string
}

// CreditNotesDeps dependencias de CreditNotes.
type CreditNotesDeps struct {
	Notas        repository.NotaRepository
	Comprobantes repository.ComprobanteRepository
	Toasts       toast.Notifier
	Logger       *logger.Logger
}

// CreditNotes controlador de notas de crédito sobre comprobantes emitidos.
type CreditNotes struct {
	scope        *remote.Scope
	notas        repository.NotaRepository
	comprobantes repository.ComprobanteRepository
	toasts       toast.Notifier
	validate     *validation.Validator
	log          *logger.Logger

	list remote.Resource[[]entity.Nota]
}

// NewCreditNotes construye el controlador atado a scope.
func NewCreditNotes(scope *remote.Scope, d CreditNotesDeps) *CreditNotes {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &CreditNotes{
		scope:        scope,
		notas:        d.Notas,
		comprobantes: d.Comprobantes,
		toasts:       d.Toasts,
		validate:     validation.New(),
		log:          log.Named("notas"),
	}
}

// List estado de la lista de notas.
func (uc *CreditNotes) List() *remote.Resource[[]entity.Nota] { return &uc.list }

// Load pide las notas emitidas.
func (uc *CreditNotes) Load() error {
	err := uc.list.Load(uc.scope, uc.notas.List)
	if err != nil && !uc.scope.Closed() {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
	}
	return err
}

// EmitirCredito emite una nota de crédito contra el comprobante. Igual que Facturar,
// solo devuelve error si la llamada falla o el comprobante no admite notas.
func (uc *CreditNotes) EmitirCredito(comprobanteID int64, codMotivo string) (*NotaOutcome, error) {
	in := dto.NotaRequest{
		ComprobanteAfectadoID: comprobanteID,
		TipoNota:              dto.TipoNotaCredito,
		CodMotivo:             codMotivo,
		DescripcionMotivo:     sunat.MotivosNotaCredito[codMotivo],
	}
	if err := uc.validate.Struct(in); err != nil {
		uc.toasts.Show(err.Error(), entity.ToastError)
		return nil, err
	}

	comp, err := uc.comprobante(uc.scope.Context(), comprobanteID)
	if err != nil {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}
	switch {
	case !comp.Success:
		uc.toasts.Show("No se puede emitir una nota sobre un comprobante rechazado por SUNAT.", entity.ToastError)
		return nil, fmt.Errorf("%w: comprobante %s rechazado", domain.ErrConflict, comp.Numero())
	case comp.Anulado():
		uc.toasts.Show(fmt.Sprintf("El comprobante %s ya fue anulado.", comp.Numero()), entity.ToastError)
		return nil, fmt.Errorf("%w: comprobante %s anulado", domain.ErrConflict, comp.Numero())
	}

	n, err := uc.notas.Create(uc.scope.Context(), in)
	if err != nil {
		uc.log.Warn().Err(err).Int64("comprobante", comprobanteID).Str("motivo", codMotivo).Msg("nota fallida")
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}

	name := sunat.NombreComprobante(n.TipoDoc)
	out := &NotaOutcome{Nota: n, Accepted: n.Success}
	if n.Success {
		out.Message = fmt.Sprintf("¡%s enviada a SUNAT con éxito!", name)
		uc.log.Info().Str("afectado", comp.Numero()).Str("numero", n.Numero()).Msg("nota aceptada")
		uc.toasts.Show(out.Message, entity.ToastSuccess)
	} else {
		reason := n.SunatError()
		if reason == "" {
			reason = "sin detalle"
		}
		out.Message = fmt.Sprintf("%s rechazada por SUNAT: %s", name, reason)
		uc.log.Warn().Str("afectado", comp.Numero()).Str("numero", n.Numero()).Str("motivo", reason).Msg("nota rechazada")
		uc.toasts.Show(out.Message, entity.ToastWarning)
	}
	_ = uc.Load()
	return out, nil
}

func (uc *CreditNotes) comprobante(ctx context.Context, id int64) (*entity.Comprobante, error) {
	all, err := uc.comprobantes.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, &apierror.Error{Status: http.StatusNotFound, Detail: apierror.StringDetail("Comprobante no encontrado")}
}
