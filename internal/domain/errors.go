package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("sesión expirada")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrNetwork          = errors.New("no se pudo conectar con el servidor")
	ErrNotAuthenticated = errors.New("no hay sesión iniciada")
	ErrServer           = errors.New("error del servidor")
)
