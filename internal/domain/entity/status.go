package entity

import (
	"fmt"

	"github.com/jhoicas/pdv-api/internal/domain"
)

// transitions tabla de transiciones legales de un estado a otros.
type transitions[S ~string] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// check valida la transición y devuelve ErrInvalidTransition envuelto con el detalle.
func (t transitions[S]) check(kind string, from, to S) error {
	if t.allows(from, to) {
		return nil
	}
	return fmt.Errorf("%s: %s -> %s: %w", kind, from, to, domain.ErrInvalidTransition)
}
