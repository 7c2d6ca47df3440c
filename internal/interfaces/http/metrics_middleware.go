package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/infrastructure/metrics"
)

// MetricsMiddleware registra status y duración por ruta (el patrón, no la URL).
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
		}
		m.ObserveGateway(c.Route().Path, code, time.Since(start))
		return err
	}
}
