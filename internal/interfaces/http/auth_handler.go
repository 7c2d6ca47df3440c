package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/guard"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// AuthHandler login, registro y logout sobre la sesión del navegador.
type AuthHandler struct{}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginPage GET /login (solo anónimos).
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"view": "login"})
}

// Login POST /login. Acepta form o JSON con username y password.
// Éxito → 303 a /dashboard; falla → 401 con el mensaje del backend.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sess := GetSession(c)
	var in dto.Credentials
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res := sess.Auth.Login(c.UserContext(), in)
	if !res.Success {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "LOGIN_FAILED", Message: res.Error})
	}
	return c.Redirect(guard.HomePath, fiber.StatusSeeOther)
}

// Register POST /register. No inicia sesión: redirige a /login con un toast.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sess := GetSession(c)
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res := sess.Auth.Register(c.UserContext(), in)
	if !res.Success {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "REGISTER_FAILED", Message: res.Error})
	}
	sess.Toasts.Show("Registro exitoso. Ahora puede iniciar sesión.", entity.ToastSuccess)
	return c.Redirect(guard.LoginPath, fiber.StatusSeeOther)
}

// Logout POST /logout. Idempotente.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	GetSession(c).Auth.Logout(c.UserContext())
	return c.Redirect(guard.LoginPath, fiber.StatusSeeOther)
}
