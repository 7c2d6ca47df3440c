package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/billing"
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// CotizacionesHandler pantalla de cotizaciones y emisión (protegido).
type CotizacionesHandler struct {
	log *logger.Logger
}

// NewCotizacionesHandler construye el handler.
func NewCotizacionesHandler(log *logger.Logger) *CotizacionesHandler {
	return &CotizacionesHandler{log: log}
}

// FacturarResponse resultado de la emisión. Accepted=false es un rechazo de SUNAT,
// no un error: se responde 200.
type FacturarResponse struct {
	Accepted    bool                `json:"accepted"`
	Message     string              `json:"message"`
	Comprobante *entity.Comprobante `json:"comprobante"`
}

func (h *CotizacionesHandler) controller(c *fiber.Ctx, scope *remote.Scope) *billing.Quotations {
	sess := GetSession(c)
	return billing.NewQuotations(scope, billing.Deps{
		Cotizaciones: api.NewCotizacionClient(sess.Client),
		Comprobantes: api.NewComprobanteClient(sess.Client),
		Toasts:       sess.Toasts,
		Logger:       h.log,
	})
}

// List GET /cotizaciones
func (h *CotizacionesHandler) List(c *fiber.Ctx) error {
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.controller(c, scope)
	if err := uc.Load(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.List().Data())
}

// Facturar POST /cotizaciones/:id/facturar  body: {"tipo_comprobante": "factura"|"boleta"}
func (h *CotizacionesHandler) Facturar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.FacturarRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	out, err := h.controller(c, scope).Facturar(int64(id), in.TipoComprobante)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(FacturarResponse{
		Accepted:    out.Accepted,
		Message:     out.Message,
		Comprobante: out.Comprobante,
	})
}

// Comprobantes GET /comprobantes?tipo_doc=01
func (h *CotizacionesHandler) Comprobantes(c *fiber.Ctx) error {
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.controller(c, scope)
	if err := uc.LoadComprobantes(c.Query("tipo_doc")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.Issued().Data())
}
