package entity

import "time"

// ToastType severidad de una notificación.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
	ToastWarning ToastType = "warning"
)

// Valid indica si t es un tipo conocido.
func (t ToastType) Valid() bool {
	switch t {
	case ToastSuccess, ToastError, ToastInfo, ToastWarning:
		return true
	}
	return false
}

// Toast notificación efímera.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      ToastType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
