// Package numbering define el formato de los números secuenciales de documentos (VND-000123, ENT-000045).
// La asignación atómica vive en repository.CounterRepository.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tipo de documento numerado.
type Kind string

const (
	KindSale  Kind = "sale"
	KindEntry Kind = "entry"
)

// Prefix prefijo fijo por tipo.
func (k Kind) Prefix() string {
	switch k {
	case KindSale:
		return "VND"
	case KindEntry:
		return "ENT"
	}
	return ""
}

// Valid indica si el tipo es conocido.
func (k Kind) Valid() bool { return k.Prefix() != "" }

// Format compone el número: <PREFIX>-%06d.
func Format(k Kind, n int64) string {
	return fmt.Sprintf("%s-%06d", k.Prefix(), n)
}

// Parse extrae la parte numérica. Devuelve error si el prefijo no corresponde al tipo.
func Parse(k Kind, s string) (int64, error) {
	prefix := k.Prefix() + "-"
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("numbering: %q no tiene prefijo %s", s, prefix)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(s, prefix), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("numbering: %q no es numérico", s)
	}
	return n, nil
}

// SeedFrom valor inicial del contador a partir del último número emitido ("" = ninguno).
// Un número ilegible se trata como ausencia de historial.
func SeedFrom(k Kind, last string) int64 {
	if last == "" {
		return 0
	}
	n, err := Parse(k, last)
	if err != nil {
		return 0
	}
	return n
}
