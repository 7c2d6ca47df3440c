package apitest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// Recursos cuya próxima emisión puede rechazar SUNAT (ver RejectNext).
const (
	ResourceNotas = "notas"
	ResourceGuias = "guias"
)

// RejectNext hace que SUNAT rechace la próxima emisión de resource con message.
func (b *Backend) RejectNext(resource, message string) {
	b.mu.Lock()
	b.rechazos[resource] = message
	b.mu.Unlock()
}

// Notas estado actual ordenado por id.
func (b *Backend) Notas() []entity.Nota {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.notas, func(n entity.Nota) int64 { return n.ID })
}

// Comprobante comprobante por id, con sus notas afectadas.
func (b *Backend) Comprobante(id int64) (entity.Comprobante, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.comprobantes[id]
	return c, ok
}

// takeRechazo requiere mu tomado.
func (b *Backend) takeRechazo(resource string) (string, bool) {
	msg, ok := b.rechazos[resource]
	delete(b.rechazos, resource)
	return msg, ok
}

// sunatOutcome arma sunat_response y hash; requiere mu tomado.
func (b *Backend) sunatOutcome(resource, tipoDoc, serie, correlativo string) (bool, json.RawMessage, string) {
	if msg, rejected := b.takeRechazo(resource); rejected {
		raw, _ := json.Marshal(fiber.Map{"success": false, "error": fiber.Map{"code": "2116", "message": msg}})
		return false, raw, ""
	}
	numero := serie + "-" + correlativo
	desc := fmt.Sprintf("La %s numero %s, ha sido aceptada", sunat.NombreComprobante(tipoDoc), numero)
	raw, _ := json.Marshal(fiber.Map{
		"success":     true,
		"cdrResponse": fiber.Map{"code": "0", "description": desc},
		"cdrZip":      base64.StdEncoding.EncodeToString(CDRZip(EmisorRUC, tipoDoc, serie, correlativo, "0", desc)),
	})
	return true, raw, base64.StdEncoding.EncodeToString([]byte(numero))
}

func (b *Backend) listNotas(c *fiber.Ctx) error {
	notas := b.Notas()
	// el backend lista la más reciente primero
	for i, j := 0, len(notas)-1; i < j; i, j = i+1, j-1 {
		notas[i], notas[j] = notas[j], notas[i]
	}
	return c.JSON(notas)
}

func (b *Backend) createNota(c *fiber.Ctx) error {
	var in dto.NotaRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if in.TipoNota != dto.TipoNotaCredito {
		return detail(c, fiber.StatusBadRequest, "Solo se admiten notas de crédito")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	comp, ok := b.comprobantes[in.ComprobanteAfectadoID]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Comprobante no encontrado")
	}
	if !comp.Success {
		return detail(c, fiber.StatusBadRequest, "No se puede emitir una nota sobre un comprobante rechazado")
	}
	if comp.Anulado() {
		return detail(c, fiber.StatusBadRequest, "El comprobante ya fue anulado")
	}

	serie := "BC01"
	if comp.TipoDoc == sunat.ComprobanteFactura {
		serie = "FC01"
	}
	b.correlativos[serie]++
	b.nextID++
	n := entity.Nota{
		ID:                    b.nextID,
		ComprobanteAfectadoID: comp.ID,
		TipoDoc:               sunat.ComprobanteNotaCredito,
		Serie:                 serie,
		Correlativo:           strconv.Itoa(b.correlativos[serie]),
		FechaEmision:          time.Now().Format("2006-01-02"),
		CodMotivo:             in.CodMotivo,
	}
	n.PayloadEnviado, _ = json.Marshal(fiber.Map{
		"tipoDoc":        n.TipoDoc,
		"serie":          n.Serie,
		"correlativo":    n.Correlativo,
		"tipDocAfectado": comp.TipoDoc,
		"numDocfectado":  comp.Numero(),
		"codMotivo":      in.CodMotivo,
		"desMotivo":      in.DescripcionMotivo,
	})
	n.Success, n.SunatResponse, n.SunatHash = b.sunatOutcome(ResourceNotas, n.TipoDoc, n.Serie, n.Correlativo)

	comp.NotasAfectadas = append(comp.NotasAfectadas, entity.NotaAfectada{ID: n.ID, CodMotivo: n.CodMotivo, Success: n.Success})
	b.comprobantes[comp.ID] = comp
	b.notas[n.ID] = n
	return c.JSON(n)
}

func (b *Backend) resumenDiario(c *fiber.Ctx) error {
	var in dto.ResumenDiarioRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, x := range b.comprobantes {
		if x.TipoDoc == sunat.ComprobanteBoleta && x.Success && x.FechaEmision == in.Fecha {
			n++
		}
	}
	if n == 0 {
		return detail(c, fiber.StatusBadRequest, "No hay boletas emitidas el "+in.Fecha)
	}
	return c.JSON(dto.TicketResponse{Ticket: b.nextTicket()})
}

func (b *Backend) comunicacionBaja(c *fiber.Ctx) error {
	var in dto.ComunicacionBajaRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if len(in.Items) == 0 {
		return detail(c, fiber.StatusBadRequest, "No hay comprobantes para dar de baja")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, it := range in.Items {
		x, ok := b.comprobantes[it.ComprobanteID]
		if !ok || x.TipoDoc != sunat.ComprobanteFactura || !x.Success {
			return detail(c, fiber.StatusBadRequest, fmt.Sprintf("El comprobante %d no es una factura aceptada", it.ComprobanteID))
		}
	}
	return c.JSON(dto.TicketResponse{Ticket: b.nextTicket()})
}

// nextTicket requiere mu tomado.
func (b *Backend) nextTicket() string {
	b.tickets++
	return fmt.Sprintf("%d%09d", time.Now().Year(), b.tickets)
}

func (b *Backend) listGuias(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(sortedValues(b.guias, func(g entity.GuiaRemision) int64 { return g.ID }))
}

func (b *Backend) createGuia(c *fiber.Ctx) error {
	var in dto.GuiaRemisionRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if len(in.Bienes) == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": []fiber.Map{
			{"loc": []string{"body", "bienes"}, "msg": "ensure this value has at least 1 items", "type": "value_error.list.min_items"},
		}})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	const serie = "T001"
	b.correlativos[serie]++
	b.nextID++
	g := entity.GuiaRemision{
		ID:           b.nextID,
		TipoDoc:      sunat.ComprobanteGuia,
		Serie:        serie,
		Correlativo:  strconv.Itoa(b.correlativos[serie]),
		FechaEmision: time.Now().Format("2006-01-02"),
	}
	g.PayloadEnviado, _ = json.Marshal(in)
	g.Success, g.SunatResponse, g.SunatHash = b.sunatOutcome(ResourceGuias, g.TipoDoc, g.Serie, g.Correlativo)
	b.guias[g.ID] = g
	return c.JSON(g)
}
