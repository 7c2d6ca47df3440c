package apitest

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain/entity"
)

// SetActive cambia el estado de la cuenta email (para preparar tests).
func (b *Backend) SetActive(email string, active bool, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc, ok := b.accounts[email]; ok {
		acc.profile.IsActive = active
		acc.profile.DeactivationReason = reason
	}
}

// HasUser indica si la cuenta email existe.
func (b *Backend) HasUser(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.accounts[email]
	return ok
}

func (b *Backend) adminOnly(c *fiber.Ctx) error {
	b.mu.Lock()
	acc, ok := b.accounts[currentEmail(c)]
	admin := ok && acc.profile.IsAdmin
	b.mu.Unlock()
	if !admin {
		return detail(c, fiber.StatusForbidden, "Not enough permissions")
	}
	return c.Next()
}

func (b *Backend) adminStats(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := entity.AdminStats{TotalUsers: len(b.accounts), TotalCotizaciones: len(b.cotizaciones)}
	for _, acc := range b.accounts {
		if acc.profile.IsActive {
			st.ActiveUsers++
		}
	}
	// todas las cuentas del backend simulado se crearon durante el test
	st.NewUsersLast30Days = st.TotalUsers
	return c.JSON(st)
}

func (b *Backend) adminUsers(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.AdminUser, 0, len(b.accounts))
	for _, acc := range b.accounts {
		out = append(out, b.adminView(acc.profile))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(out)
}

// adminView requiere mu tomado.
func (b *Backend) adminView(p entity.UserProfile) entity.AdminUser {
	n := 0
	for _, owner := range b.owners {
		if owner == p.Email {
			n++
		}
	}
	return entity.AdminUser{
		ID:                 p.ID,
		Email:              p.Email,
		IsActive:           p.IsActive,
		IsAdmin:            p.IsAdmin,
		CreationDate:       p.CreationDate,
		CotizacionesCount:  n,
		DeactivationReason: p.DeactivationReason,
	}
}

// accountByID requiere mu tomado.
func (b *Backend) accountByID(c *fiber.Ctx) (*account, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, detail(c, fiber.StatusBadRequest, "id inválido")
	}
	for _, acc := range b.accounts {
		if acc.profile.ID == int64(id) {
			return acc, nil
		}
	}
	return nil, detail(c, fiber.StatusNotFound, "User not found")
}

func (b *Backend) adminUser(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, err := b.accountByID(c)
	if acc == nil {
		return err
	}
	return c.JSON(acc.profile)
}

func (b *Backend) adminUserCotizaciones(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, err := b.accountByID(c)
	if acc == nil {
		return err
	}
	out := make([]entity.Cotizacion, 0)
	for _, cot := range sortedValues(b.cotizaciones, func(x entity.Cotizacion) int64 { return x.ID }) {
		if b.owners[cot.ID] == acc.profile.Email {
			out = append(out, cot)
		}
	}
	return c.JSON(out)
}

func (b *Backend) adminUpdateStatus(c *fiber.Ctx) error {
	var in dto.UserStatusUpdate
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "JSON inválido")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, err := b.accountByID(c)
	if acc == nil {
		return err
	}
	acc.profile.IsActive = in.IsActive
	acc.profile.DeactivationReason = ""
	if !in.IsActive && in.DeactivationReason != nil {
		acc.profile.DeactivationReason = *in.DeactivationReason
	}
	return c.JSON(b.adminView(acc.profile))
}

func (b *Backend) adminDeleteUser(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, err := b.accountByID(c)
	if acc == nil {
		return err
	}
	if acc.profile.IsAdmin {
		return detail(c, fiber.StatusBadRequest, "Cannot delete the main admin account")
	}
	delete(b.accounts, acc.profile.Email)
	return c.SendStatus(fiber.StatusNoContent)
}
