// Package validation centraliza las reglas de formulario (validator/v10) con
// los catálogos SUNAT y mensajes en español.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturapro/internal/application/dto"
	"github.com/jhoicas/facturapro/internal/domain"
	"github.com/jhoicas/facturapro/pkg/sunat"
)

// Validator envuelve *validator.Validate con las reglas propias registradas.
type Validator struct {
	v *validator.Validate
}

// New crea un Validator con las reglas ruc, moneda, unidad_medida, afectacion_igv
// y la validación cruzada tipo/número de documento de ClienteRequest.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})

	_ = v.RegisterValidation("ruc", func(fl validator.FieldLevel) bool {
		return sunat.ValidateRUCFormat(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("moneda", func(fl validator.FieldLevel) bool {
		return sunat.ValidMonedas[fl.Field().String()]
	})
	_ = v.RegisterValidation("unidad_medida", func(fl validator.FieldLevel) bool {
		return sunat.ValidMeasurementUnitCodes[fl.Field().String()]
	})
	_ = v.RegisterValidation("afectacion_igv", func(fl validator.FieldLevel) bool {
		return sunat.ValidAfectacionIGVCodes[fl.Field().String()]
	})
	_ = v.RegisterValidation("motivo_nota", func(fl validator.FieldLevel) bool {
		_, ok := sunat.MotivosNotaCredito[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("motivo_traslado", func(fl validator.FieldLevel) bool {
		_, ok := sunat.MotivosTraslado[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("modalidad_traslado", func(fl validator.FieldLevel) bool {
		return sunat.ValidModalidadTraslado[fl.Field().String()]
	})
	_ = v.RegisterValidation("ubigeo", func(fl validator.FieldLevel) bool {
		return isDigits(fl.Field().String(), 6)
	})
	v.RegisterStructValidation(clienteDocumento, dto.ClienteRequest{})
	v.RegisterStructValidation(guiaTransporte, dto.GuiaRemisionRequest{})

	return &Validator{v: v}
}

func clienteDocumento(sl validator.StructLevel) {
	c := sl.Current().Interface().(dto.ClienteRequest)
	if c.TipoDocumento == "" || c.NumeroDocumento == "" {
		return
	}
	if err := sunat.ValidateDocumento(c.TipoDocumento, c.NumeroDocumento); err != nil {
		sl.ReportError(c.NumeroDocumento, "numero_documento", "NumeroDocumento", "documento", c.TipoDocumento)
	}
}

// guiaTransporte exige transportista en modalidad pública y conductor en la privada.
func guiaTransporte(sl validator.StructLevel) {
	g := sl.Current().Interface().(dto.GuiaRemisionRequest)
	switch g.ModTraslado {
	case sunat.ModalidadTransportePublico:
		if g.Transportista == nil || g.Transportista.NumDoc == "" {
			sl.ReportError(g.Transportista, "transportista", "Transportista", "required", "")
		}
	case sunat.ModalidadTransportePrivado:
		if g.Conductor == nil {
			sl.ReportError(g.Conductor, "conductor", "Conductor", "required", "")
		}
	}
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Struct valida s y devuelve un error que envuelve domain.ErrInvalidInput con
// todos los campos fallidos en un solo mensaje legible.
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &Error{Fields: Fields(verrs)}
}

// FieldError campo inválido con su mensaje.
type FieldError struct {
	Field   string
	Message string
}

// Error errores de validación de un formulario.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return domain.ErrInvalidInput }

// Map mensajes indexados por campo, como los muestra un formulario.
func (e *Error) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Message
		}
	}
	return m
}

// Fields traduce validator.ValidationErrors a mensajes en español.
func Fields(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "CotizacionRequest.items[0].cantidad" → "items[0].cantidad".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "no es un email válido"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("debe tener al menos %s elemento(s)", fe.Param())
		}
		return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("admite como máximo %s elemento(s)", fe.Param())
		}
		return fmt.Sprintf("no debe superar %s caracteres", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "ruc":
		return "RUC inválido (11 dígitos, prefijo 10, 15, 16, 17 o 20)"
	case "documento":
		if fe.Param() == sunat.TipoDocumentoDNI {
			return "el DNI debe tener 8 dígitos"
		}
		return "RUC inválido (11 dígitos, prefijo 10, 15, 16, 17 o 20)"
	case "moneda":
		return "moneda no soportada (PEN o USD)"
	case "unidad_medida":
		return "unidad de medida no existe en el catálogo 03 de SUNAT"
	case "afectacion_igv":
		return "tipo de afectación IGV no existe en el catálogo 07 de SUNAT"
	case "datetime":
		return "fecha inválida (AAAA-MM-DD)"
	case "motivo_nota":
		return "motivo no existe en el catálogo 09 de SUNAT"
	case "motivo_traslado":
		return "motivo de traslado no existe en el catálogo 20 de SUNAT"
	case "modalidad_traslado":
		return "modalidad de traslado inválida (01 pública, 02 privada)"
	case "ubigeo":
		return "el ubigeo debe tener 6 dígitos"
	case "hexcolor":
		return "debe ser un color hexadecimal (#RRGGBB)"
	default:
		return "valor inválido"
	}
}
