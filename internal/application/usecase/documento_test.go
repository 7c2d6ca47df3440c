package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
)

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLookup_RUCEncontrado(t *testing.T) {
	e := newEnv(t)
	e.backend.AddPadron("20123456786", dto.DocumentoInfo{RazonSocial: "ACME SAC", Direccion: "Av. Lima 123", Estado: "ACTIVO"})
	uc := usecase.NewDocumentoLookup(api.NewDocumentoClient(e.client), e.toasts, nil)

	info := uc.Lookup(context.Background(), "RUC", "20123456786")

	require.NotNil(t, info)
	assert.Equal(t, "ACME SAC", info.Name())
	assert.Equal(t, "Datos encontrados con éxito.", e.last().Message)

	filled := usecase.Fill(dto.ClienteRequest{TipoDocumento: "RUC", NumeroDocumento: "20123456786"}, info)
	assert.Equal(t, "ACME SAC", filled.RazonSocial)
	assert.Equal(t, "Av. Lima 123", filled.Direccion)
}

func TestLookup_EstadoNoActivo_Advierte(t *testing.T) {
	e := newEnv(t)
	e.backend.AddPadron("20123456786", dto.DocumentoInfo{RazonSocial: "ACME SAC", Estado: "BAJA DE OFICIO"})
	uc := usecase.NewDocumentoLookup(api.NewDocumentoClient(e.client), e.toasts, nil)

	info := uc.Lookup(context.Background(), "RUC", "20123456786")

	require.NotNil(t, info)
	assert.True(t, e.has(entity.ToastWarning, "Advertencia: El contribuyente está en estado BAJA DE OFICIO"))
}

func TestLookup_DNIConNombres(t *testing.T) {
	e := newEnv(t)
	e.backend.AddPadron("12345678", dto.DocumentoInfo{Nombres: "JUAN", ApellidoPaterno: "PEREZ", ApellidoMaterno: "SOTO"})
	uc := usecase.NewDocumentoLookup(api.NewDocumentoClient(e.client), e.toasts, nil)

	info := uc.Lookup(context.Background(), "DNI", "12345678")

	require.NotNil(t, info)
	assert.Equal(t, "JUAN PEREZ SOTO", info.Name())
}

func TestLookup_FallaDegradaANil(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewDocumentoLookup(api.NewDocumentoClient(e.client), e.toasts, nil)

	info := uc.Lookup(context.Background(), "RUC", "20999999999")

	assert.Nil(t, info)
	assert.Equal(t, entity.ToastInfo, e.last().Type)

	e.backend.Close()
	assert.Nil(t, uc.Lookup(context.Background(), "RUC", "20123456786"))
	assert.Equal(t, entity.ToastInfo, e.last().Type)
}

func TestLookup_NumeroVacioOInvalido(t *testing.T) {
	e := newEnv(t)
	uc := usecase.NewDocumentoLookup(api.NewDocumentoClient(e.client), e.toasts, nil)

	assert.Nil(t, uc.Lookup(context.Background(), "DNI", "  "))
	assert.Equal(t, "Por favor, ingrese un número de documento.", e.last().Message)

	assert.Nil(t, uc.Lookup(context.Background(), "DNI", "123"))
	assert.Equal(t, "Número de DNI inválido.", e.last().Message)
	assert.Empty(t, e.backend.Requests())
}

func TestFill_NoPisaLoEscrito(t *testing.T) {
	in := dto.ClienteRequest{RazonSocial: "Mi nombre"}
	out := usecase.Fill(in, &dto.DocumentoInfo{RazonSocial: "Otro", Direccion: "Calle 1"})
	assert.Equal(t, "Mi nombre", out.RazonSocial)
	assert.Equal(t, "Calle 1", out.Direccion)
	assert.Equal(t, in, usecase.Fill(in, nil))
}
