package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/facturapro/internal/application/guard"
	"github.com/jhoicas/facturapro/internal/infrastructure/metrics"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions     *Sessions
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
	CheckTimeout time.Duration
	AppName      string
}

// Router registra las rutas del gateway.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	app.Use(MetricsMiddleware(deps.Metrics))

	// Públicos (sin sesión)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	web := app.Group("/", SessionMiddleware(deps.Sessions))
	publicOnly := RequirePolicy(guard.PublicOnly, deps.CheckTimeout)
	protected := RequirePolicy(guard.Protected, deps.CheckTimeout)
	adminOnly := RequirePolicy(guard.AdminOnly, deps.CheckTimeout)

	// Auth
	authHandler := NewAuthHandler()
	web.Get("/login", publicOnly, authHandler.LoginPage)
	web.Post("/login", publicOnly, authHandler.Login)
	web.Post("/register", publicOnly, authHandler.Register)
	web.Post("/logout", authHandler.Logout)

	// Toasts de la sesión
	toastHandler := NewToastHandler()
	web.Get("/toasts", toastHandler.List)
	web.Delete("/toasts/:id", toastHandler.Dismiss)

	// Pantallas (protegido)
	dashboardHandler := NewDashboardHandler(log)
	web.Get("/dashboard", protected, dashboardHandler.Summary)

	clientesHandler := NewClientesHandler(log)
	web.Get("/clientes", protected, clientesHandler.List)
	web.Post("/clientes", protected, clientesHandler.Create)
	web.Delete("/clientes/:id", protected, clientesHandler.Delete)

	productosHandler := NewProductosHandler(log)
	web.Get("/productos", protected, productosHandler.List)

	cotizacionesHandler := NewCotizacionesHandler(log)
	web.Get("/cotizaciones", protected, cotizacionesHandler.List)
	web.Post("/cotizaciones/:id/facturar", protected, cotizacionesHandler.Facturar)
	web.Get("/comprobantes", protected, cotizacionesHandler.Comprobantes)

	sunatHandler := NewSunatHandler(log)
	web.Get("/notas", protected, sunatHandler.Notas)
	web.Post("/comprobantes/:id/notas", protected, sunatHandler.EmitirNota)
	web.Post("/resumen-diario", protected, sunatHandler.ResumenDiario)
	web.Post("/comunicacion-baja", protected, sunatHandler.ComunicacionBaja)
	web.Get("/guias", protected, sunatHandler.Guias)
	web.Post("/guias", protected, sunatHandler.CreateGuia)

	// Administración
	adminHandler := NewAdminHandler(log)
	web.Get("/admin/stats", adminOnly, adminHandler.Stats)
	web.Get("/admin/users", adminOnly, adminHandler.Users)
	web.Get("/admin/users/:id", adminOnly, adminHandler.User)
	web.Put("/admin/users/:id/status", adminOnly, adminHandler.UpdateStatus)
	web.Delete("/admin/users/:id", adminOnly, adminHandler.Delete)
}
