package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/application/validation"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// Batches envíos por lote a SUNAT: resumen diario de boletas y comunicación de baja
// de facturas. SUNAT los procesa de forma asíncrona; aquí solo se obtiene el ticket.
type Batches struct {
	scope    *remote.Scope
	repo     repository.ResumenRepository
	toasts   toast.Notifier
	validate *validation.Validator
	log      *logger.Logger
}

// NewBatches construye el controlador atado a scope.
func NewBatches(scope *remote.Scope, repo repository.ResumenRepository, toasts toast.Notifier, log *logger.Logger) *Batches {
	if log == nil {
		log = logger.Nop()
	}
	return &Batches{
		scope:    scope,
		repo:     repo,
		toasts:   toasts,
		validate: validation.New(),
		log:      log.Named("lotes"),
	}
}

// ResumenDiario envía el resumen de las boletas emitidas en fecha.
func (uc *Batches) ResumenDiario(fecha time.Time) (string, error) {
	in := dto.ResumenDiarioRequest{Fecha: fecha.Format("2006-01-02")}
	if err := uc.validate.Struct(in); err != nil {
		uc.toasts.Show(err.Error(), entity.ToastError)
		return "", err
	}
	ticket, err := uc.repo.ResumenDiario(uc.scope.Context(), in)
	if err != nil {
		uc.fail("resumen", err)
		return "", err
	}
	uc.log.Info().Str("fecha", in.Fecha).Str("ticket", ticket).Msg("resumen diario enviado")
	uc.toasts.Show(fmt.Sprintf("Resumen diario enviado. Ticket: %s", ticket), entity.ToastSuccess)
	return ticket, nil
}

// ComunicacionBaja da de baja las facturas indicadas.
func (uc *Batches) ComunicacionBaja(items []dto.BajaItem) (string, error) {
	in := dto.ComunicacionBajaRequest{Items: items}
	if err := uc.validate.Struct(in); err != nil {
		uc.toasts.Show(err.Error(), entity.ToastError)
		return "", err
	}
	ticket, err := uc.repo.ComunicacionBaja(uc.scope.Context(), in)
	if err != nil {
		uc.fail("baja", err)
		return "", err
	}
	uc.log.Info().Int("items", len(items)).Str("ticket", ticket).Msg("comunicación de baja enviada")
	uc.toasts.Show(fmt.Sprintf("Comunicación de baja enviada. Ticket: %s", ticket), entity.ToastSuccess)
	return ticket, nil
}

func (uc *Batches) fail(op string, err error) {
	uc.log.Warn().Err(err).Str("op", op).Msg("envío por lote fallido")
	uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
}
