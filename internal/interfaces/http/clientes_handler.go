package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// ClientesHandler pantalla de clientes (protegido).
type ClientesHandler struct {
	log *logger.Logger
}

// NewClientesHandler construye el handler.
func NewClientesHandler(log *logger.Logger) *ClientesHandler {
	return &ClientesHandler{log: log}
}

func (h *ClientesHandler) controller(c *fiber.Ctx, scope *remote.Scope) *usecase.Clientes {
	sess := GetSession(c)
	return usecase.NewClientes(scope, api.NewClienteClient(sess.Client), sess.Toasts, h.log)
}

// List GET /clientes
func (h *ClientesHandler) List(c *fiber.Ctx) error {
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.controller(c, scope)
	if err := uc.Load(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.List().Data())
}

// Create POST /clientes
func (h *ClientesHandler) Create(c *fiber.Ctx) error {
	var in dto.ClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	cliente, err := h.controller(c, scope).Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cliente)
}

// Delete DELETE /clientes/:id
func (h *ClientesHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	if err := h.controller(c, scope).Delete(int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
