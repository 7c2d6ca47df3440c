package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// ProductosHandler pantalla de productos (protegido).
type ProductosHandler struct {
	log *logger.Logger
}

// NewProductosHandler construye el handler.
func NewProductosHandler(log *logger.Logger) *ProductosHandler {
	return &ProductosHandler{log: log}
}

// List GET /productos
func (h *ProductosHandler) List(c *fiber.Ctx) error {
	sess := GetSession(c)
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := usecase.NewProductos(scope, api.NewProductoClient(sess.Client), sess.Toasts, h.log)
	if err := uc.Load(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.List().Data())
}
