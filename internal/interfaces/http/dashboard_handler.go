package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/billing"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/application/usecase"
	"github.com/jhoicas/facturapro/internal/domain/apierror"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// DashboardHandler resumen de la cuenta.
type DashboardHandler struct {
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{log: log}
}

// ResourceSummary estado de una de las listas del dashboard.
type ResourceSummary struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// DashboardResponse respuesta de GET /dashboard.
type DashboardResponse struct {
	User         *entity.UserProfile `json:"user"`
	Clientes     ResourceSummary     `json:"clientes"`
	Productos    ResourceSummary     `json:"productos"`
	Cotizaciones ResourceSummary     `json:"cotizaciones"`
}

// Summary GET /dashboard
//
// Carga clientes, productos y cotizaciones en paralelo. La falla de una lista
// queda en su propio resumen y no cancela las demás; siempre responde 200.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	sess := GetSession(c)
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	clientes := usecase.NewClientes(scope, api.NewClienteClient(sess.Client), sess.Toasts, h.log)
	productos := usecase.NewProductos(scope, api.NewProductoClient(sess.Client), sess.Toasts, h.log)
	cotizaciones := billing.NewQuotations(scope, billing.Deps{
		Cotizaciones: api.NewCotizacionClient(sess.Client),
		Comprobantes: api.NewComprobanteClient(sess.Client),
		Toasts:       sess.Toasts,
		Logger:       h.log,
	})

	_ = remote.LoadAll(clientes.Load, productos.Load, cotizaciones.Load)

	return c.JSON(DashboardResponse{
		User:         sess.Auth.User(),
		Clientes:     summarize(clientes.List()),
		Productos:    summarize(productos.List()),
		Cotizaciones: summarize(cotizaciones.List()),
	})
}

func summarize[T any](r *remote.Resource[[]T]) ResourceSummary {
	snap := r.Get()
	out := ResourceSummary{Status: snap.Status.String(), Count: len(snap.Data)}
	if snap.Err != nil {
		out.Error = apierror.UserMessage(snap.Err)
	}
	return out
}
