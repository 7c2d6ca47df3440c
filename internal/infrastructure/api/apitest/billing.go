package apitest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
	"github.com/jhoicas/facturapro/internal/domain/quotation"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// RechazoDNI mensaje de SUNAT al emitir factura a un cliente sin RUC.
const RechazoDNI = "El dato ingresado en el tipo de documento de identidad del receptor no esta permitido."

// PDFBytes contenido devuelto por los endpoints de PDF.
var PDFBytes = []byte("%PDF-1.4\n% FacturaPro apitest\n%%EOF\n")

// Cotizaciones estado actual ordenado por id.
func (b *Backend) Cotizaciones() []entity.Cotizacion {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.cotizaciones, func(c entity.Cotizacion) int64 { return c.ID })
}

// AddCotizacion crea una cotización pendiente con totales calculados.
func (b *Backend) AddCotizacion(in dto.CotizacionRequest) entity.Cotizacion {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.storeCotizacion(0, in)
}

// storeCotizacion requiere mu tomado.
func (b *Backend) storeCotizacion(id int64, in dto.CotizacionRequest) entity.Cotizacion {
	if id == 0 {
		b.nextID++
		id = b.nextID
	}
	cot := entity.Cotizacion{
		ID:               id,
		NumeroCotizacion: fmt.Sprintf("COT-%04d", id),
		ClienteID:        in.ClienteID,
		Moneda:           in.Moneda,
		Estado:           entity.CotizacionPendiente,
		FechaEmision:     time.Now().Format("2006-01-02"),
	}
	if prev, ok := b.cotizaciones[id]; ok {
		cot.NumeroCotizacion, cot.FechaEmision = prev.NumeroCotizacion, prev.FechaEmision
	}
	if in.FechaVencimiento != nil {
		cot.FechaVencimiento = *in.FechaVencimiento
	}
	if cl, ok := b.clientes[in.ClienteID]; ok {
		cot.Cliente = &cl
	}
	total := decimal.Zero
	for _, it := range in.Items {
		lt := quotation.LineTotal(it.Cantidad, it.PrecioUnitario)
		total = total.Add(lt)
		cot.Items = append(cot.Items, entity.CotizacionItem{
			ProductoID:     it.ProductoID,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          &lt,
		})
	}
	cot.MontoTotal = &total
	b.cotizaciones[id] = cot
	return cot
}

func (b *Backend) listCotizaciones(c *fiber.Ctx) error {
	return c.JSON(b.Cotizaciones())
}

func (b *Backend) getCotizacion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cot, ok := b.cotizaciones[int64(id)]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Cotización no encontrada")
	}
	return c.JSON(cot)
}

// parseCotizacion valida el body; ok=false significa que ya se respondió con error.
func (b *Backend) parseCotizacion(c *fiber.Ctx) (in dto.CotizacionRequest, ok bool, err error) {
	if err := c.BodyParser(&in); err != nil {
		return in, false, detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if len(in.Items) == 0 {
		return in, false, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": []fiber.Map{
			{"loc": []string{"body", "items"}, "msg": "ensure this value has at least 1 items", "type": "value_error.list.min_items"},
		}})
	}
	b.mu.Lock()
	_, exists := b.clientes[in.ClienteID]
	b.mu.Unlock()
	if !exists {
		return in, false, detail(c, fiber.StatusNotFound, "Cliente no encontrado")
	}
	return in, true, nil
}

func (b *Backend) createCotizacion(c *fiber.Ctx) error {
	in, ok, err := b.parseCotizacion(c)
	if !ok {
		return err
	}
	cot := b.AddCotizacion(in)
	b.mu.Lock()
	b.owners[cot.ID] = currentEmail(c)
	b.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(cot)
}

func (b *Backend) updateCotizacion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	in, ok, err := b.parseCotizacion(c)
	if !ok {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	prev, exists := b.cotizaciones[int64(id)]
	if !exists {
		return detail(c, fiber.StatusNotFound, "Cotización no encontrada")
	}
	if !prev.Pendiente() {
		return detail(c, fiber.StatusBadRequest, "Solo se pueden editar cotizaciones pendientes")
	}
	return c.JSON(b.storeCotizacion(int64(id), in))
}

func (b *Backend) deleteCotizacion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cot, ok := b.cotizaciones[int64(id)]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Cotización no encontrada")
	}
	if cot.Comprobante != nil {
		return detail(c, fiber.StatusBadRequest, "No se puede eliminar una cotización facturada")
	}
	delete(b.cotizaciones, int64(id))
	return c.SendStatus(fiber.StatusNoContent)
}

func (b *Backend) facturar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	var in dto.FacturarRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	var serie, tipoDoc string
	switch in.TipoComprobante {
	case "factura":
		serie, tipoDoc = "F001", sunat.ComprobanteFactura
	case "boleta":
		serie, tipoDoc = "B001", sunat.ComprobanteBoleta
	default:
		return detail(c, fiber.StatusBadRequest, "tipo_comprobante debe ser factura o boleta")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	cot, ok := b.cotizaciones[int64(id)]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Cotización no encontrada")
	}
	if !cot.Pendiente() {
		return detail(c, fiber.StatusBadRequest, "La cotización ya fue facturada")
	}

	b.correlativos[serie]++
	b.nextID++
	payload, _ := json.Marshal(cot)
	comp := entity.Comprobante{
		ID:             b.nextID,
		CotizacionID:   &cot.ID,
		TipoDoc:        tipoDoc,
		Serie:          serie,
		Correlativo:    strconv.Itoa(b.correlativos[serie]),
		FechaEmision:   time.Now().Format("2006-01-02"),
		PayloadEnviado: payload,
	}

	cl := b.clientes[cot.ClienteID]
	if tipoDoc == sunat.ComprobanteFactura && cl.TipoDocumento != sunat.TipoDocumentoRUC {
		comp.Success = false
		comp.SunatResponse, _ = json.Marshal(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": "2800", "message": RechazoDNI},
		})
	} else {
		desc := fmt.Sprintf("La %s numero %s, ha sido aceptada", sunat.NombreComprobante(tipoDoc), comp.Numero())
		zipped := CDRZip(EmisorRUC, tipoDoc, comp.Serie, comp.Correlativo, "0", desc)
		comp.Success = true
		comp.SunatHash = base64.StdEncoding.EncodeToString([]byte(comp.Numero()))
		comp.SunatResponse, _ = json.Marshal(fiber.Map{
			"success":     true,
			"cdrResponse": fiber.Map{"code": "0", "description": desc},
			"cdrZip":      base64.StdEncoding.EncodeToString(zipped),
		})
		cot.Estado = entity.CotizacionFacturada
	}
	cot.Comprobante = &comp
	b.cotizaciones[cot.ID] = cot
	b.comprobantes[comp.ID] = comp
	return c.JSON(comp)
}

func (b *Backend) cotizacionPDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	b.mu.Lock()
	_, ok := b.cotizaciones[int64(id)]
	b.mu.Unlock()
	if !ok {
		return detail(c, fiber.StatusNotFound, "Cotización no encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(PDFBytes)
}

func (b *Backend) listComprobantes(c *fiber.Ctx) error {
	tipo := c.Query("tipo_doc")
	b.mu.Lock()
	defer b.mu.Unlock()
	all := sortedValues(b.comprobantes, func(x entity.Comprobante) int64 { return x.ID })
	out := make([]entity.Comprobante, 0, len(all))
	for _, x := range all {
		if tipo == "" || x.TipoDoc == tipo {
			out = append(out, x)
		}
	}
	return c.JSON(out)
}

func (b *Backend) download(c *fiber.Ctx) error {
	var in dto.DocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	b.mu.Lock()
	comp, ok := b.comprobantes[in.ComprobanteID]
	var cot entity.Cotizacion
	if ok && comp.CotizacionID != nil {
		cot = b.cotizaciones[*comp.CotizacionID]
	}
	b.mu.Unlock()
	if !ok {
		return detail(c, fiber.StatusNotFound, "Comprobante no encontrado")
	}

	switch dto.DocumentKind(c.Params("kind")) {
	case dto.DocumentPDF:
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(PDFBytes)
	case dto.DocumentXML:
		c.Set(fiber.HeaderContentType, "application/xml")
		return c.Send(InvoiceXML(invoiceFor(comp, cot)))
	case dto.DocumentCDR:
		if !comp.Success {
			return detail(c, fiber.StatusNotFound, "El comprobante no tiene CDR")
		}
		desc := fmt.Sprintf("La %s numero %s, ha sido aceptada", sunat.NombreComprobante(comp.TipoDoc), comp.Numero())
		c.Set(fiber.HeaderContentType, "application/zip")
		return c.Send(CDRZip(EmisorRUC, comp.TipoDoc, comp.Serie, comp.Correlativo, "0", desc))
	default:
		return detail(c, fiber.StatusNotFound, "Tipo de documento no soportado")
	}
}

func invoiceFor(comp entity.Comprobante, cot entity.Cotizacion) Invoice {
	inv := Invoice{
		EmisorRUC:    EmisorRUC,
		EmisorNombre: "FACTURAPRO DEMO S.A.C.",
		TipoDoc:      comp.TipoDoc,
		Serie:        comp.Serie,
		Correlativo:  comp.Correlativo,
		FechaEmision: comp.FechaEmision,
		Moneda:       cot.Moneda,
		Digest:       comp.SunatHash,
	}
	if cot.Cliente != nil {
		inv.ClienteTipoDoc = sunat.CodigoDocumentoIdentidad(cot.Cliente.TipoDocumento)
		inv.ClienteNumero = cot.Cliente.NumeroDocumento
		inv.ClienteNombre = cot.Cliente.RazonSocial
	}
	lines := make([]quotation.Line, 0, len(cot.Items))
	for _, it := range cot.Items {
		lines = append(lines, quotation.Line{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
	}
	t := quotation.Breakdown(lines, quotation.IGVRate)
	inv.Base, inv.IGV, inv.Total = t.Base, t.IGV, t.Total
	return inv
}
