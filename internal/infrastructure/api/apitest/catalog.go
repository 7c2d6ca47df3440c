package apitest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

func (b *Backend) listClientes(c *fiber.Ctx) error {
	return c.JSON(b.Clientes())
}

func (b *Backend) createCliente(c *fiber.Ctx) error {
	var in dto.ClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if in.RazonSocial == "" || in.NumeroDocumento == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": []fiber.Map{
			{"loc": []string{"body", "razon_social"}, "msg": "field required", "type": "value_error.missing"},
		}})
	}
	b.mu.Lock()
	for _, existing := range b.clientes {
		if existing.NumeroDocumento == in.NumeroDocumento {
			b.mu.Unlock()
			return detail(c, fiber.StatusBadRequest, "Ya existe un cliente con ese número de documento")
		}
	}
	b.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(b.AddCliente(clienteFrom(0, in)))
}

func (b *Backend) updateCliente(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	var in dto.ClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clientes[int64(id)]; !ok {
		return detail(c, fiber.StatusNotFound, "Cliente no encontrado")
	}
	cl := clienteFrom(int64(id), in)
	b.clientes[cl.ID] = cl
	return c.JSON(cl)
}

func (b *Backend) deleteCliente(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clientes[int64(id)]; !ok {
		return detail(c, fiber.StatusNotFound, "Cliente no encontrado")
	}
	delete(b.clientes, int64(id))
	return c.SendStatus(fiber.StatusNoContent)
}

func clienteFrom(id int64, in dto.ClienteRequest) entity.Cliente {
	return entity.Cliente{
		ID:              id,
		TipoDocumento:   in.TipoDocumento,
		NumeroDocumento: in.NumeroDocumento,
		RazonSocial:     in.RazonSocial,
		Direccion:       in.Direccion,
		Email:           in.Email,
		Telefono:        in.Telefono,
	}
}

func (b *Backend) listProductos(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(sortedValues(b.productos, func(p entity.Producto) int64 { return p.ID }))
}

func (b *Backend) createProducto(c *fiber.Ctx) error {
	var in dto.ProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	if in.Nombre == "" {
		return detail(c, fiber.StatusBadRequest, "El nombre es obligatorio")
	}
	return c.Status(fiber.StatusCreated).JSON(b.AddProducto(productoFrom(0, in)))
}

func (b *Backend) updateProducto(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	var in dto.ProductoRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.productos[int64(id)]; !ok {
		return detail(c, fiber.StatusNotFound, "Producto no encontrado")
	}
	p := productoFrom(int64(id), in)
	b.productos[p.ID] = p
	return c.JSON(p)
}

func (b *Backend) deleteProducto(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.productos[int64(id)]; !ok {
		return detail(c, fiber.StatusNotFound, "Producto no encontrado")
	}
	delete(b.productos, int64(id))
	return c.SendStatus(fiber.StatusNoContent)
}

func productoFrom(id int64, in dto.ProductoRequest) entity.Producto {
	return entity.Producto{
		ID:                id,
		CodigoInterno:     in.CodigoInterno,
		Nombre:            in.Nombre,
		Descripcion:       in.Descripcion,
		Moneda:            in.Moneda,
		PrecioUnitario:    in.PrecioUnitario,
		UnidadMedida:      in.UnidadMedida,
		TipoAfectacionIGV: in.TipoAfectacionIGV,
	}
}
