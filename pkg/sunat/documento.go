package sunat

import (
	"fmt"
	"unicode"
)

// pesos del módulo 11 para el dígito verificador del RUC, aplicados a los 10 primeros dígitos.
var rucWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// prefijos válidos del RUC: persona natural (10), no domiciliados (15, 17), extranjeros (16), jurídica (20).
var rucPrefixes = map[string]bool{"10": true, "15": true, "16": true, "17": true, "20": true}

// ValidateRUCFormat comprueba que el RUC tenga 11 dígitos y un prefijo válido.
// No verifica el dígito verificador; ver ValidateRUCCheckDigit.
func ValidateRUCFormat(ruc string) error {
	if !allDigits(ruc) || len(ruc) != 11 {
		return fmt.Errorf("sunat: el RUC debe tener 11 dígitos, se recibió %q", ruc)
	}
	if !rucPrefixes[ruc[:2]] {
		return fmt.Errorf("sunat: prefijo de RUC inválido %q", ruc[:2])
	}
	return nil
}

// ValidateRUCCheckDigit valida el dígito verificador del RUC (módulo 11).
func ValidateRUCCheckDigit(ruc string) error {
	if err := ValidateRUCFormat(ruc); err != nil {
		return err
	}
	expected, err := ComputeRUCCheckDigit(ruc[:10])
	if err != nil {
		return err
	}
	if ruc[10] != expected {
		return fmt.Errorf("sunat: dígito verificador del RUC inválido: esperado %c, recibido %c", expected, ruc[10])
	}
	return nil
}

// ComputeRUCCheckDigit calcula el dígito verificador para los 10 primeros dígitos del RUC.
func ComputeRUCCheckDigit(base string) (byte, error) {
	if !allDigits(base) || len(base) != 10 {
		return 0, fmt.Errorf("sunat: se requieren 10 dígitos para calcular el dígito verificador, se recibió %q", base)
	}
	var sum int
	for i := 0; i < 10; i++ {
		sum += int(base[i]-'0') * rucWeights[i]
	}
	dv := 11 - sum%11
	switch dv {
	case 10:
		dv = 0
	case 11:
		dv = 1
	}
	return byte('0' + dv), nil
}

// ValidateDNI comprueba que el DNI tenga exactamente 8 dígitos.
func ValidateDNI(dni string) error {
	if !allDigits(dni) || len(dni) != 8 {
		return fmt.Errorf("sunat: el DNI debe tener 8 dígitos, se recibió %q", dni)
	}
	return nil
}

// ValidateDocumento valida el número según el tipo ("DNI" o "RUC").
func ValidateDocumento(tipo, numero string) error {
	switch tipo {
	case TipoDocumentoDNI:
		return ValidateDNI(numero)
	case TipoDocumentoRUC:
		return ValidateRUCFormat(numero)
	default:
		return fmt.Errorf("sunat: tipo de documento no soportado %q", tipo)
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
