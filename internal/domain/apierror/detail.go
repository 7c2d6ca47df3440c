// Package apierror modela el cuerpo de error del backend ({"detail": ...}).
//
// El campo detail llega con dos formas: un texto plano (HTTPException) o una
// lista de problemas de validación por campo (422). Ambas se normalizan a un
// único texto legible con Message.
package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhoicas/facturapro/internal/domain"
)

// FallbackMessage se usa cuando el cuerpo no trae un detail legible.
const FallbackMessage = "Error desconocido"

// Detail es la unión StringDetail | ValidationList | UnknownDetail.
type Detail interface {
	Message() string
	isDetail()
}

// StringDetail detail como texto plano.
type StringDetail string

// ValidationIssue un problema de validación por campo.
type ValidationIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}

// ValidationList detail como lista de problemas de validación.
type ValidationList []ValidationIssue

// UnknownDetail detail ausente o con forma no reconocida.
type UnknownDetail struct{}

func (StringDetail) isDetail()   {}
func (ValidationList) isDetail() {}
func (UnknownDetail) isDetail()  {}

// Message implementa Detail.
func (d StringDetail) Message() string {
	if s := strings.TrimSpace(string(d)); s != "" {
		return s
	}
	return FallbackMessage
}

// Message une los mensajes de la lista, anteponiendo el campo cuando se conoce.
func (l ValidationList) Message() string {
	parts := make([]string, 0, len(l))
	for _, issue := range l {
		msg := strings.TrimSpace(issue.Msg)
		if msg == "" {
			continue
		}
		if field := issue.field(); field != "" {
			msg = field + ": " + msg
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return FallbackMessage
	}
	return strings.Join(parts, "; ")
}

// Message implementa Detail.
func (UnknownDetail) Message() string { return FallbackMessage }

// field devuelve el último segmento de loc que no sea "body"/"query"/"path".
func (i ValidationIssue) field() string {
	for j := len(i.Loc) - 1; j >= 0; j-- {
		s := fmt.Sprint(i.Loc[j])
		switch s {
		case "body", "query", "path", "":
			continue
		}
		return s
	}
	return ""
}

// ParseDetail interpreta el cuerpo de error. Nunca falla: ante cualquier forma
// inesperada devuelve UnknownDetail.
func ParseDetail(body []byte) Detail {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return UnknownDetail{}
	}
	if len(envelope.Detail) == 0 || string(envelope.Detail) == "null" {
		if envelope.Message != "" {
			return StringDetail(envelope.Message)
		}
		return UnknownDetail{}
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return UnknownDetail{}
		}
		return StringDetail(s)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(envelope.Detail, &raw); err == nil {
		list := make(ValidationList, 0, len(raw))
		for _, item := range raw {
			var issue ValidationIssue
			if err := json.Unmarshal(item, &issue); err == nil && issue.Msg != "" {
				list = append(list, issue)
				continue
			}
			var text string
			if err := json.Unmarshal(item, &text); err == nil && text != "" {
				list = append(list, ValidationIssue{Msg: text})
			}
		}
		if len(list) == 0 {
			return UnknownDetail{}
		}
		return list
	}

	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &obj); err == nil {
		if obj.Message != "" {
			return StringDetail(obj.Message)
		}
		if obj.Msg != "" {
			return StringDetail(obj.Msg)
		}
	}
	return UnknownDetail{}
}

// Message normaliza el cuerpo de error a un texto legible y nunca vacío.
func Message(body []byte) string {
	return ParseDetail(body).Message()
}

// Error respuesta no exitosa del backend.
type Error struct {
	Status int
	Detail Detail
}

// New construye el error a partir del status y el cuerpo crudo.
func New(status int, body []byte) *Error {
	return &Error{Status: status, Detail: ParseDetail(body)}
}

// Error devuelve el mensaje legible del detail.
func (e *Error) Error() string {
	if _, unknown := e.Detail.(UnknownDetail); unknown || e.Detail == nil {
		return fmt.Sprintf("%s (HTTP %d)", FallbackMessage, e.Status)
	}
	return e.Detail.Message()
}

// Unwrap permite errors.Is contra los errores de dominio según el status.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusConflict:
		return domain.ErrConflict
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case e.Status >= 500:
		return domain.ErrServer
	default:
		return nil
	}
}
