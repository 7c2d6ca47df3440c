package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturapro/pkg/config"
)

func TestLoad_APIURLTienePrioridad(t *testing.T) {
	t.Setenv("API_URL", "https://api.facturapro.pe/")
	t.Setenv("API_BASE_URL", "http://otro:9000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.facturapro.pe", cfg.API.BaseURL, "se recorta la barra final")
	assert.Equal(t, time.Duration(0), cfg.API.Timeout(), "sin timeout por defecto")
}

func TestLoad_FallbackAPIBaseURL(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("API_BASE_URL", "http://localhost:9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
}

func TestLoad_URLInvalida(t *testing.T) {
	t.Setenv("API_URL", "ftp://nope")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ValoresGateway(t *testing.T) {
	t.Setenv("API_URL", "http://localhost:8000")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("API_TIMEOUT_SECONDS", "15")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.Equal(t, 1500*time.Millisecond, cfg.Session.CheckTimeout(), "valor por defecto")
	assert.Equal(t, 15*time.Minute, cfg.Session.AnonymousTTL(), "valor por defecto")
}
