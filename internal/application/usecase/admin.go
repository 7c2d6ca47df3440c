package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// ErrMotivoRequerido desactivar una cuenta exige un motivo, que el usuario ve al iniciar sesión.
var ErrMotivoRequerido = fmt.Errorf("%w: indique el motivo de la desactivación", domain.ErrInvalidInput)

// AdminUserDetail perfil de un usuario con sus cotizaciones.
type AdminUserDetail struct {
	Profile      *entity.UserProfile
	Cotizaciones []entity.Cotizacion
}

// Admin controlador del panel de administración. Solo lo usa una sesión con
// is_admin; el backend igual responde 403 a cualquier otra.
type Admin struct {
	scope  *remote.Scope
	repo   repository.AdminRepository
	toasts toast.Notifier
	log    *logger.Logger

	stats remote.Resource[*entity.AdminStats]
	users remote.Resource[[]entity.AdminUser]
}

// NewAdmin construye el controlador atado a scope.
func NewAdmin(scope *remote.Scope, repo repository.AdminRepository, toasts toast.Notifier, log *logger.Logger) *Admin {
	if log == nil {
		log = logger.Nop()
	}
	return &Admin{scope: scope, repo: repo, toasts: toasts, log: log.Named("admin")}
}

// Stats estado de las estadísticas.
func (uc *Admin) Stats() *remote.Resource[*entity.AdminStats] { return &uc.stats }

// Users estado de la lista de usuarios.
func (uc *Admin) Users() *remote.Resource[[]entity.AdminUser] { return &uc.users }

// Load pide estadísticas y usuarios en paralelo.
func (uc *Admin) Load() error {
	return remote.LoadAll(uc.LoadStats, uc.LoadUsers)
}

// LoadStats pide /admin/stats/.
func (uc *Admin) LoadStats() error {
	err := uc.stats.Load(uc.scope, uc.repo.Stats)
	uc.reportLoad(err)
	return err
}

// LoadUsers pide /admin/users/.
func (uc *Admin) LoadUsers() error {
	err := uc.users.Load(uc.scope, uc.repo.Users)
	uc.reportLoad(err)
	return err
}

// User detalle de un usuario; perfil y cotizaciones se piden en paralelo.
func (uc *Admin) User(id int64) (*AdminUserDetail, error) {
	var out AdminUserDetail
	g, ctx := errgroup.WithContext(uc.scope.Context())
	g.Go(func() (err error) {
		out.Profile, err = uc.repo.User(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Cotizaciones, err = uc.repo.UserCotizaciones(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}
	return &out, nil
}

// Activate reactiva la cuenta y limpia el motivo.
func (uc *Admin) Activate(id int64) (*entity.AdminUser, error) {
	u, err := uc.updateStatus(id, dto.UserStatusUpdate{IsActive: true})
	if err != nil {
		return nil, err
	}
	uc.toasts.Show(fmt.Sprintf("Usuario %s activado.", u.Email), entity.ToastSuccess)
	uc.refresh()
	return u, nil
}

// Deactivate desactiva la cuenta con el motivo indicado.
func (uc *Admin) Deactivate(id int64, reason string) (*entity.AdminUser, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		uc.toasts.Show("Indique el motivo de la desactivación.", entity.ToastError)
		return nil, ErrMotivoRequerido
	}
	u, err := uc.updateStatus(id, dto.UserStatusUpdate{IsActive: false, DeactivationReason: &reason})
	if err != nil {
		return nil, err
	}
	uc.toasts.Show(fmt.Sprintf("Usuario %s desactivado.", u.Email), entity.ToastSuccess)
	uc.refresh()
	return u, nil
}

// Delete elimina la cuenta y recarga.
func (uc *Admin) Delete(id int64) error {
	if err := uc.repo.DeleteUser(uc.scope.Context(), id); err != nil {
		uc.fail("eliminar", id, err)
		return err
	}
	uc.toasts.Show("Usuario eliminado con éxito.", entity.ToastSuccess)
	uc.refresh()
	return nil
}

func (uc *Admin) updateStatus(id int64, in dto.UserStatusUpdate) (*entity.AdminUser, error) {
	u, err := uc.repo.UpdateStatus(uc.scope.Context(), id, in)
	if err != nil {
		uc.fail("estado", id, err)
		return nil, err
	}
	uc.log.Info().Int64("usuario", id).Bool("activo", in.IsActive).Msg("estado de cuenta actualizado")
	return u, nil
}

// refresh recarga lista y estadísticas; sus errores ya se avisan en cada carga.
func (uc *Admin) refresh() {
	_ = uc.Load()
}

func (uc *Admin) reportLoad(err error) {
	if err != nil && !uc.scope.Closed() {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
	}
}

func (uc *Admin) fail(op string, id int64, err error) {
	uc.log.Warn().Err(err).Str("op", op).Int64("usuario", id).Msg("operación de administración fallida")
	uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
}
