package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/logger"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// DocumentoLookup consulta el padrón RUC/DNI para autocompletar formularios.
type DocumentoLookup struct {
	repo   repository.DocumentoLookup
	toasts toast.Notifier
	log    *logger.Logger
}

// NewDocumentoLookup construye el caso de uso.
func NewDocumentoLookup(repo repository.DocumentoLookup, toasts toast.Notifier, log *logger.Logger) *DocumentoLookup {
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentoLookup{repo: repo, toasts: toasts, log: log.Named("padron")}
}

// Lookup nunca falla hacia el llamador: si la consulta no responde devuelve nil
// con un toast informativo y el usuario completa los datos a mano.
func (uc *DocumentoLookup) Lookup(ctx context.Context, tipo, numero string) *dto.DocumentoInfo {
	numero = strings.TrimSpace(numero)
	if numero == "" {
		uc.toasts.Show("Por favor, ingrese un número de documento.", entity.ToastError)
		return nil
	}
	if err := sunat.ValidateDocumento(tipo, numero); err != nil {
		uc.toasts.Show(fmt.Sprintf("Número de %s inválido.", tipo), entity.ToastError)
		return nil
	}

	info, err := uc.repo.Consultar(ctx, tipo, numero)
	if err != nil {
		uc.log.Info().Err(err).Str("tipo", tipo).Str("numero", numero).Msg("consulta de padrón sin resultado")
		uc.toasts.Show("No se pudo consultar el documento; complete los datos manualmente.", entity.ToastInfo)
		return nil
	}
	uc.toasts.Show("Datos encontrados con éxito.", entity.ToastSuccess)
	if !info.Activo() {
		uc.toasts.Show(fmt.Sprintf("Advertencia: El contribuyente está en estado %s", info.Estado), entity.ToastWarning)
	}
	return info
}

// Fill completa un ClienteRequest con lo devuelto por el padrón sin pisar lo que el usuario ya escribió.
func Fill(in dto.ClienteRequest, info *dto.DocumentoInfo) dto.ClienteRequest {
	if info == nil {
		return in
	}
	if in.RazonSocial == "" {
		in.RazonSocial = info.Name()
	}
	if in.Direccion == "" {
		in.Direccion = info.Direccion
	}
	return in
}
