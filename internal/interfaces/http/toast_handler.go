package http

import (
	"github.com/gofiber/fiber/v2"
)

// ToastHandler cola de notificaciones de la sesión del navegador.
type ToastHandler struct{}

// NewToastHandler construye el handler.
func NewToastHandler() *ToastHandler {
	return &ToastHandler{}
}

// List GET /toasts (orden de inserción).
func (h *ToastHandler) List(c *fiber.Ctx) error {
	return c.JSON(GetSession(c).Toasts.List())
}

// Dismiss DELETE /toasts/:id. Quitar un id inexistente no es error.
func (h *ToastHandler) Dismiss(c *fiber.Ctx) error {
	GetSession(c).Toasts.Remove(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
