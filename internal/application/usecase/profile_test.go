package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/internal/application/auth"
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/api/apitest"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
)

func loggedIn(t *testing.T) (*apitest.Backend, *auth.Store) {
	t.Helper()
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword, false)
	tokens := tokenstore.NewMemory("")
	a := api.NewAuthClient(api.New(api.Config{BaseURL: b.URL, Tokens: tokens}))
	s := auth.NewStore(a, a, tokens)
	require.True(t, s.Login(context.Background(), dto.Credentials{Username: testEmail, Password: testPassword}).Success)
	return b, s
}

func TestProfile_Guardar(t *testing.T) {
	_, s := loggedIn(t)
	e := newEnv(t)
	uc := usecase.NewProfile(s, e.toasts)

	name := "ACME SAC"
	user, err := uc.Update(context.Background(), dto.ProfileUpdate{BusinessName: &name})

	require.NoError(t, err)
	assert.Equal(t, name, user.BusinessName)
	assert.Equal(t, name, s.User().BusinessName)
	assert.Equal(t, "Perfil guardado con éxito.", e.last().Message)
}

func TestProfile_MasDeTresCuentas(t *testing.T) {
	_, s := loggedIn(t)
	e := newEnv(t)
	uc := usecase.NewProfile(s, e.toasts)

	cuentas := make([]entity.BankAccount, 4)
	for i := range cuentas {
		cuentas[i] = entity.BankAccount{Banco: "BCP", Cuenta: "191-000", CCI: "002191000"}
	}
	_, err := uc.Update(context.Background(), dto.ProfileUpdate{BankAccounts: cuentas})

	require.Error(t, err)
	assert.Equal(t, entity.ToastError, e.last().Type)
	assert.Contains(t, e.last().Message, "bank_accounts")
}

func TestProfile_LogoSoloJPGoPNG(t *testing.T) {
	b, s := loggedIn(t)
	e := newEnv(t)
	uc := usecase.NewProfile(s, e.toasts)
	ctx := context.Background()

	_, err := uc.UploadLogo(ctx, "logo.gif", []byte("GIF89a"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Solo se permiten imágenes JPG o PNG.", e.last().Message)

	_, err = uc.UploadLogo(ctx, "logo.png", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, b.Count("POST", "/users/upload-logo"))

	stored, err := uc.UploadLogo(ctx, "logo.JPG", []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	assert.Equal(t, stored, s.User().LogoFilename)
	assert.Equal(t, "Logo subido con éxito.", e.last().Message)
}
