package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/toast"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// ProfileStore lo que necesita la pantalla de perfil de la sesión.
type ProfileStore interface {
	UpdateProfile(ctx context.Context, in dto.ProfileUpdate) (*entity.UserProfile, error)
	UploadLogo(ctx context.Context, filename string, content []byte) (string, error)
}

// Profile pantalla de configuración del emisor.
type Profile struct {
	session ProfileStore
	toasts  toast.Notifier
}

// NewProfile construye el caso de uso.
func NewProfile(session ProfileStore, toasts toast.Notifier) *Profile {
	return &Profile{session: session, toasts: toasts}
}

// Update guarda el perfil; la sesión reemplaza el perfil completo con la respuesta.
func (uc *Profile) Update(ctx context.Context, in dto.ProfileUpdate) (*entity.UserProfile, error) {
	user, err := uc.session.UpdateProfile(ctx, in)
	if err != nil {
		uc.toasts.Show("Error: "+apierror.UserMessage(err), entity.ToastError)
		return nil, err
	}
	uc.toasts.Show("Perfil guardado con éxito.", entity.ToastSuccess)
	return user, nil
}

// UploadLogo solo acepta JPG o PNG.
func (uc *Profile) UploadLogo(ctx context.Context, filename string, content []byte) (string, error) {
	if len(content) == 0 {
		uc.toasts.Show("Por favor, selecciona un archivo de logo.", entity.ToastError)
		return "", domain.ErrInvalidInput
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
	default:
		uc.toasts.Show("Solo se permiten imágenes JPG o PNG.", entity.ToastError)
		return "", domain.ErrInvalidInput
	}
	stored, err := uc.session.UploadLogo(ctx, filename, content)
	if err != nil {
		uc.toasts.Show("Error: "+apierror.UserMessage(err), entity.ToastError)
		return "", err
	}
	uc.toasts.Show("Logo subido con éxito.", entity.ToastSuccess)
	return stored, nil
}
