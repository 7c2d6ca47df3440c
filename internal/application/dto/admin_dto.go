package dto

// UserStatusUpdate body para PUT /admin/users/:id/status.
// Al desactivar, el motivo es obligatorio; al activar se envía null.
type UserStatusUpdate struct {
	IsActive           bool    `json:"is_active"`
	DeactivationReason *string `json:"deactivation_reason"`
}
