package apierror

import (
	"context"
	"errors"

	"github.com/jhoicas/facturapro/internal/domain"
)

// NetworkMessage texto mostrado ante fallas de transporte (sin conexión, DNS, timeout).
const NetworkMessage = "No se pudo conectar con el servidor"

// UserMessage traduce cualquier error de una llamada al texto que ve el usuario.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	switch {
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return NetworkMessage
	case errors.Is(err, context.Canceled):
		return "Operación cancelada"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
