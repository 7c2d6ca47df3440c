package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// APIConfig datos del backend REST de FacturaPro.
type APIConfig struct {
	BaseURL        string // API_URL o API_BASE_URL
	TimeoutSeconds int    // 0 = sin timeout; la cancelación se hace por context
}

// Timeout devuelve el timeout del cliente HTTP como time.Duration.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig persistencia del token de sesión.
// TokenPath lo usa la CLI; Cookie/TTL/Secure los usa el gateway.
type SessionConfig struct {
	TokenPath      string
	Cookie         string
	TTLMinutes     int
	Secure         bool
	CheckTimeoutMs int // espera del guard al primer CheckAuth antes de responder 503
	// AnonymousTTLMinutes inactividad tolerada a una sesión sin login antes de descartarla.
	AnonymousTTLMinutes int
}

// TTL devuelve la vida de la sesión del gateway.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// AnonymousTTL vida en memoria de una sesión que nunca inició sesión.
func (c SessionConfig) AnonymousTTL() time.Duration {
	return time.Duration(c.AnonymousTTLMinutes) * time.Minute
}

// CheckTimeout devuelve la espera del guard como time.Duration.
func (c SessionConfig) CheckTimeout() time.Duration {
	return time.Duration(c.CheckTimeoutMs) * time.Millisecond
}

// HTTPConfig configuración del gateway HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión a Redis para las sesiones del gateway.
type RedisConfig struct {
	Addr string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: API_URL, APP_ENV, LOG_LEVEL, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// API_URL tiene prioridad; API_BASE_URL es el nombre que usaba el frontend.
	baseURL := getString(v, "API_URL", "")
	if baseURL == "" {
		baseURL = getString(v, "API_BASE_URL", "http://localhost:8000")
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "facturapro"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(baseURL, "/"),
			TimeoutSeconds: getInt(v, "API_TIMEOUT_SECONDS", 0),
		},
		Session: SessionConfig{
			TokenPath:           getString(v, "SESSION_TOKEN_PATH", defaultTokenPath()),
			Cookie:              getString(v, "SESSION_COOKIE", "facturapro_session"),
			TTLMinutes:          getInt(v, "SESSION_TTL_MINUTES", 60*12),
			Secure:              getBool(v, "SESSION_SECURE", false),
			CheckTimeoutMs:      getInt(v, "SESSION_CHECK_TIMEOUT_MS", 1500),
			AnonymousTTLMinutes: getInt(v, "SESSION_ANONYMOUS_TTL_MINUTES", 15),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr: getString(v, "REDIS_ADDR", "localhost:6379"),
		},
	}

	if _, err := parseBaseURL(cfg.API.BaseURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseBaseURL(raw string) (string, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "", fmt.Errorf("config: API_URL debe empezar con http:// o https://, se recibió %q", raw)
	}
	return raw, nil
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".facturapro", "token")
	}
	return filepath.Join(home, ".facturapro", "token")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
