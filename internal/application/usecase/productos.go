package usecase

import (
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/application/validation"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/repository"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// Productos controlador del catálogo de productos.
type Productos struct {
	scope    *remote.Scope
	repo     repository.ProductoRepository
	toasts   toast.Notifier
	validate *validation.Validator
	log      *logger.Logger

	list remote.Resource[[]entity.Producto]
}

// NewProductos construye el controlador atado a scope.
func NewProductos(scope *remote.Scope, repo repository.ProductoRepository, toasts toast.Notifier, log *logger.Logger) *Productos {
	if log == nil {
		log = logger.Nop()
	}
	return &Productos{
		scope:    scope,
		repo:     repo,
		toasts:   toasts,
		validate: validation.New(),
		log:      log.Named("productos"),
	}
}

// List estado de la lista.
func (uc *Productos) List() *remote.Resource[[]entity.Producto] { return &uc.list }

// Load pide el catálogo.
func (uc *Productos) Load() error {
	err := uc.list.Load(uc.scope, uc.repo.List)
	if err != nil && !uc.scope.Closed() {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
	}
	return err
}

// Create valida, crea y recarga.
func (uc *Productos) Create(in dto.ProductoRequest) (*entity.Producto, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.Create(uc.scope.Context(), in)
	if err != nil {
		uc.fail("crear", err)
		return nil, err
	}
	uc.toasts.Show("Producto creado", entity.ToastSuccess)
	_ = uc.Load()
	return p, nil
}

// Update valida, actualiza y recarga.
func (uc *Productos) Update(id int64, in dto.ProductoRequest) (*entity.Producto, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.Update(uc.scope.Context(), id, in)
	if err != nil {
		uc.fail("actualizar", err)
		return nil, err
	}
	uc.toasts.Show("Producto actualizado", entity.ToastSuccess)
	_ = uc.Load()
	return p, nil
}

// Delete elimina y recarga.
func (uc *Productos) Delete(id int64) error {
	if err := uc.repo.Delete(uc.scope.Context(), id); err != nil {
		uc.fail("eliminar", err)
		return err
	}
	uc.toasts.Show("Producto eliminado", entity.ToastSuccess)
	_ = uc.Load()
	return nil
}

func (uc *Productos) check(in dto.ProductoRequest) error {
	if err := uc.validate.Struct(in); err != nil {
		uc.toasts.Show(err.Error(), entity.ToastError)
		return err
	}
	return nil
}

func (uc *Productos) fail(op string, err error) {
	uc.log.Warn().Err(err).Str("op", op).Msg("operación de producto fallida")
	uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
}
