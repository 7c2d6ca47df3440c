package billing

import (
	"fmt"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/application/validation"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// GuiaOutcome resultado de emitir una guía de remisión.
type GuiaOutcome struct {
	Guia     *entity.GuiaRemision
	Accepted bool
	Message  string
}

// Guias controlador de guías de remisión remitente.
type Guias struct {
	scope    *remote.Scope
	repo     repository.GuiaRepository
	toasts   toast.Notifier
	validate *validation.Validator
	log      *logger.Logger

	list remote.Resource[[]entity.GuiaRemision]
}

// NewGuias construye el controlador atado a scope.
func NewGuias(scope *remote.Scope, repo repository.GuiaRepository, toasts toast.Notifier, log *logger.Logger) *Guias {
	if log == nil {
		log = logger.Nop()
	}
	return &Guias{
		scope:    scope,
		repo:     repo,
		toasts:   toasts,
		validate: validation.New(),
		log:      log.Named("guias"),
	}
}

// List estado de la lista de guías.
func (uc *Guias) List() *remote.Resource[[]entity.GuiaRemision] { return &uc.list }

// Load pide las guías emitidas.
func (uc *Guias) Load() error {
	err := uc.list.Load(uc.scope, uc.repo.List)
	if err != nil && !uc.scope.Closed() {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
	}
	return err
}

// Create valida y emite la guía; un rechazo de SUNAT no es error.
func (uc *Guias) Create(in dto.GuiaRemisionRequest) (*GuiaOutcome, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.toasts.Show(err.Error(), entity.ToastError)
		return nil, err
	}
	g, err := uc.repo.Create(uc.scope.Context(), in)
	if err != nil {
		uc.log.Warn().Err(err).Msg("emisión de guía fallida")
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}

	out := &GuiaOutcome{Guia: g, Accepted: g.Success}
	if g.Success {
		out.Message = "¡Guía de remisión enviada a SUNAT con éxito!"
		uc.log.Info().Str("numero", g.Numero()).Msg("guía aceptada")
		uc.toasts.Show(out.Message, entity.ToastSuccess)
	} else {
		reason := g.SunatError()
		if reason == "" {
			reason = "sin detalle"
		}
		out.Message = fmt.Sprintf("Guía de remisión rechazada por SUNAT: %s", reason)
		uc.log.Warn().Str("numero", g.Numero()).Str("motivo", reason).Msg("guía rechazada")
		uc.toasts.Show(out.Message, entity.ToastWarning)
	}
	_ = uc.Load()
	return out, nil
}
