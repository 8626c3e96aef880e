// Package brdoc valida y enmascara documentos fiscales brasileños (CPF y CNPJ).
// Los dígitos verificadores los calcula github.com/paemuri/brdoc; aquí solo se normaliza la entrada.
package brdoc

import (
	"fmt"
	"unicode"

	"github.com/paemuri/brdoc"
)

// Digits devuelve solo los dígitos de s ("123.456.789-09" -> "12345678909").
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// ValidateCPF valida un CPF (con o sin máscara).
func ValidateCPF(s string) error {
	digits := Digits(s)
	if len(digits) != 11 {
		return fmt.Errorf("brdoc: CPF debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	if !brdoc.IsCPF(digits) {
		return fmt.Errorf("brdoc: CPF inválido")
	}
	return nil
}

// ValidateCNPJ valida un CNPJ (con o sin máscara).
func ValidateCNPJ(s string) error {
	digits := Digits(s)
	if len(digits) != 14 {
		return fmt.Errorf("brdoc: CNPJ debe tener 14 dígitos, se encontraron %d", len(digits))
	}
	if !brdoc.IsCNPJ(digits) {
		return fmt.Errorf("brdoc: CNPJ inválido")
	}
	return nil
}

// ValidateDocument acepta CPF (11 dígitos) o CNPJ (14 dígitos).
func ValidateDocument(s string) error {
	switch len(Digits(s)) {
	case 11:
		return ValidateCPF(s)
	case 14:
		return ValidateCNPJ(s)
	}
	return fmt.Errorf("brdoc: documento debe ser CPF (11) o CNPJ (14 dígitos)")
}

// FormatCNPJ aplica la máscara 00.000.000/0000-00. Si no tiene 14 dígitos devuelve s tal cual.
func FormatCNPJ(s string) string {
	d := Digits(s)
	if len(d) != 14 {
		return s
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

// FormatCPF aplica la máscara 000.000.000-00. Si no tiene 11 dígitos devuelve s tal cual.
func FormatCPF(s string) string {
	d := Digits(s)
	if len(d) != 11 {
		return s
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// FormatDocument enmascara CPF o CNPJ según la cantidad de dígitos.
func FormatDocument(s string) string {
	if len(Digits(s)) == 14 {
		return FormatCNPJ(s)
	}
	return FormatCPF(s)
}
