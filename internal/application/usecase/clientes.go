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
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// Clientes controlador de la pantalla de clientes. Cada mutación avisa con un
// toast y vuelve a pedir la lista; no mezcla la respuesta en la lista local.
type Clientes struct {
	scope    *remote.Scope
	repo     repository.ClienteRepository
	toasts   toast.Notifier
	validate *validation.Validator
	log      *logger.Logger

	list remote.Resource[[]entity.Cliente]
}

// NewClientes construye el controlador atado a scope.
func NewClientes(scope *remote.Scope, repo repository.ClienteRepository, toasts toast.Notifier, log *logger.Logger) *Clientes {
	if log == nil {
		log = logger.Nop()
	}
	return &Clientes{
		scope:    scope,
		repo:     repo,
		toasts:   toasts,
		validate: validation.New(),
		log:      log.Named("clientes"),
	}
}

// List estado de la lista.
func (uc *Clientes) List() *remote.Resource[[]entity.Cliente] { return &uc.list }

// Load pide la lista. Un error queda en el recurso y se avisa con toast.
func (uc *Clientes) Load() error {
	err := uc.list.Load(uc.scope, uc.repo.List)
	if err != nil && !uc.scope.Closed() {
		uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
	}
	return err
}

// Create valida, crea y recarga.
func (uc *Clientes) Create(in dto.ClienteRequest) (*entity.Cliente, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.Create(uc.scope.Context(), in)
	if err != nil {
		uc.fail("crear", err)
		return nil, err
	}
	uc.toasts.Show("Cliente creado con éxito.", entity.ToastSuccess)
	_ = uc.Load()
	return c, nil
}

// Update valida, actualiza y recarga.
func (uc *Clientes) Update(id int64, in dto.ClienteRequest) (*entity.Cliente, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.Update(uc.scope.Context(), id, in)
	if err != nil {
		uc.fail("actualizar", err)
		return nil, err
	}
	uc.toasts.Show("Cliente actualizado con éxito.", entity.ToastSuccess)
	_ = uc.Load()
	return c, nil
}

// Delete elimina y recarga.
func (uc *Clientes) Delete(id int64) error {
	if err := uc.repo.Delete(uc.scope.Context(), id); err != nil {
		uc.fail("eliminar", err)
		return err
	}
	uc.toasts.Show("Cliente eliminado con éxito.", entity.ToastSuccess)
	_ = uc.Load()
	return nil
}

// check valida el formulario. Un RUC con dígito verificador incorrecto solo se advierte:
// el backend y el padrón tienen la última palabra.
func (uc *Clientes) check(in dto.ClienteRequest) error {
	if err := uc.validate.Struct(in); err != nil {
		uc.toasts.Show(err.Error(), entity.ToastError)
		return err
	}
	if in.TipoDocumento == sunat.TipoDocumentoRUC {
		if err := sunat.ValidateRUCCheckDigit(in.NumeroDocumento); err != nil {
			uc.toasts.Show("El dígito verificador del RUC no coincide; verifique el número.", entity.ToastWarning)
		}
	}
	return nil
}

func (uc *Clientes) fail(op string, err error) {
	uc.log.Warn().Err(err).Str("op", op).Msg("operación de cliente fallida")
	uc.toasts.Show(apierror.UserMessage(err), entity.ToastError)
}
