package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/billing"
	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/application/remote"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/infrastructure/api"
	"github.com/jhoicas/facturapro/pkg/logger"
)

// SunatHandler notas de crédito, envíos por lote y guías de remisión (protegido).
type SunatHandler struct {
	log *logger.Logger
}

// NewSunatHandler construye el handler.
func NewSunatHandler(log *logger.Logger) *SunatHandler {
	return &SunatHandler{log: log}
}

// NotaRequest body de POST /comprobantes/:id/notas.
type NotaRequest struct {
	CodMotivo string `json:"cod_motivo"`
}

// NotaResponse igual que FacturarResponse: un rechazo de SUNAT responde 200.
type NotaResponse struct {
	Accepted bool         `json:"accepted"`
	Message  string       `json:"message"`
	Nota     *entity.Nota `json:"nota"`
}

// GuiaResponse resultado de POST /guias.
type GuiaResponse struct {
	Accepted bool                 `json:"accepted"`
	Message  string               `json:"message"`
	Guia     *entity.GuiaRemision `json:"guia"`
}

func (h *SunatHandler) notas(c *fiber.Ctx, scope *remote.Scope) *billing.CreditNotes {
	sess := GetSession(c)
	return billing.NewCreditNotes(scope, billing.CreditNotesDeps{
		Notas:        api.NewNotaClient(sess.Client),
		Comprobantes: api.NewComprobanteClient(sess.Client),
		Toasts:       sess.Toasts,
		Logger:       h.log,
	})
}

// Notas GET /notas
func (h *SunatHandler) Notas(c *fiber.Ctx) error {
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.notas(c, scope)
	if err := uc.Load(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.List().Data())
}

// EmitirNota POST /comprobantes/:id/notas  body: {"cod_motivo": "01"}
func (h *SunatHandler) EmitirNota(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in NotaRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	out, err := h.notas(c, scope).EmitirCredito(int64(id), in.CodMotivo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(NotaResponse{Accepted: out.Accepted, Message: out.Message, Nota: out.Nota})
}

func (h *SunatHandler) batches(c *fiber.Ctx, scope *remote.Scope) *billing.Batches {
	sess := GetSession(c)
	return billing.NewBatches(scope, api.NewResumenClient(sess.Client), sess.Toasts, h.log)
}

// ResumenDiario POST /resumen-diario  body: {"fecha": "2006-01-02"}; sin fecha usa hoy.
func (h *SunatHandler) ResumenDiario(c *fiber.Ctx) error {
	var in dto.ResumenDiarioRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	fecha := time.Now()
	if in.Fecha != "" {
		t, err := time.Parse("2006-01-02", in.Fecha)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha: fecha inválida (AAAA-MM-DD)"})
		}
		fecha = t
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	ticket, err := h.batches(c, scope).ResumenDiario(fecha)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TicketResponse{Ticket: ticket})
}

// ComunicacionBaja POST /comunicacion-baja  body: {"items_a_dar_de_baja": [...]}
func (h *SunatHandler) ComunicacionBaja(c *fiber.Ctx) error {
	var in dto.ComunicacionBajaRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	ticket, err := h.batches(c, scope).ComunicacionBaja(in.Items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TicketResponse{Ticket: ticket})
}

func (h *SunatHandler) guias(c *fiber.Ctx, scope *remote.Scope) *billing.Guias {
	sess := GetSession(c)
	return billing.NewGuias(scope, api.NewGuiaClient(sess.Client), sess.Toasts, h.log)
}

// Guias GET /guias
func (h *SunatHandler) Guias(c *fiber.Ctx) error {
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	uc := h.guias(c, scope)
	if err := uc.Load(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(uc.List().Data())
}

// CreateGuia POST /guias
func (h *SunatHandler) CreateGuia(c *fiber.Ctx) error {
	var in dto.GuiaRemisionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	scope := remote.NewScope(c.UserContext())
	defer scope.Close()

	out, err := h.guias(c, scope).Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(GuiaResponse{Accepted: out.Accepted, Message: out.Message, Guia: out.Guia})
}
