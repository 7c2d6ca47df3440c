package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/guard"
)

// RequirePolicy devuelve un middleware Fiber que aplica el guard de rutas a la
// sesión del navegador. Debe usarse DESPUÉS de SessionMiddleware.
//
// Comportamiento:
//   - Wait     → 503 con Retry-After mientras el primer CheckAuth no termina.
//   - Redirect → 303 al destino del guard (/login o /dashboard).
//   - Render   → sigue la cadena.
func RequirePolicy(policy guard.Policy, checkTimeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code:    "NO_SESSION",
				Message: "sesión no inicializada",
			})
		}

		if checkTimeout > 0 {
			timer := time.NewTimer(checkTimeout)
			select {
			case <-sess.Ready():
			case <-timer.C:
			case <-c.UserContext().Done():
			}
			timer.Stop()
		}

		d := guard.Decide(guard.From(sess.Auth), policy)
		switch d.Action {
		case guard.Wait:
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(checkTimeout)))
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SESSION_LOADING",
				Message: "verificando la sesión, intente nuevamente",
			})
		case guard.Redirect:
			return c.Redirect(d.To, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int(d.Round(time.Second) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
