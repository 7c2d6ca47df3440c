package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/internal/infrastructure/metrics"
	"github.com/jhoicas/facturapro/internal/infrastructure/tokenstore"
	httpRouter "github.com/jhoicas/facturapro/internal/interfaces/http"
	"github.com/jhoicas/facturapro/pkg/config"
	"github.com/jhoicas/facturapro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando gateway")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()
	tokens := tokenstore.NewRedis(rdb, cfg.Session.TTL())

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := tokens.Ping(pingCtx); err != nil {
		cancelPing()
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}
	cancelPing()

	m := metrics.New()
	sessions := httpRouter.NewSessions(
		httpRouter.SessionConfig{
			Cookie:       cfg.Session.Cookie,
			TTL:          cfg.Session.TTL(),
			Secure:       cfg.Session.Secure,
			CheckTimeout: cfg.Session.CheckTimeout(),
			AnonymousTTL: cfg.Session.AnonymousTTL(),
		},
		api.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout(),
			Metrics: m,
			Logger:  log,
		},
		tokens,
		log,
	)
	defer sessions.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:     sessions,
		Metrics:      m,
		Logger:       log,
		CheckTimeout: cfg.Session.CheckTimeout(),
		AppName:      cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("gateway detenido")
}
