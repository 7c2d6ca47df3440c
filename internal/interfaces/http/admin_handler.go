package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// AdminHandler panel de administración (solo administradores).
type AdminHandler struct {
	log *logger.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(log *logger.Logger) *AdminHandler {
	return &AdminHandler{log: log}
}

func (h *AdminHandler) controller(c *fiber.Ctx, scope *remote.Scope) *usecase.Admin {
	sess := GetSession(c)
	return usecase.NewAdmin(scope, api.NewAdminClient(sess.Client), sess.Toasts, h.log)
}

func adminID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
}

// Stats GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.controller(c, scope)
	if err := uc.LoadStats(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.Stats().Data())
}

// Users GET /admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.controller(c, scope)
	if err := uc.LoadUsers(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.Users().Data())
}

// User GET /admin/users/:id  perfil y cotizaciones del usuario.
func (h *AdminHandler) User(c *fiber.Ctx) error {
	id, ok := adminID(c)
	if !ok {
		return invalidID(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	d, err := h.controller(c, scope).User(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": d.Profile, "cotizaciones": d.Cotizaciones})
}

// UpdateStatus PUT /admin/users/:id/status  body: {"is_active": false, "deactivation_reason": "..."}
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := adminID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UserStatusUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.controller(c, scope)
	if in.IsActive {
		u, err := uc.Activate(id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
	reason := ""
	if in.DeactivationReason != nil {
		reason = *in.DeactivationReason
	}
	u, err := uc.Deactivate(id, reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

// Delete DELETE /admin/users/:id
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := adminID(c)
	if !ok {
		return invalidID(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	if err := h.controller(c, scope).Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
