package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/numbering"
)

// CounterRepository contador atómico por (empresa, tipo de documento).
type CounterRepository interface {
	// Next incrementa y devuelve el siguiente valor. Debe ejecutarse dentro de la transacción
	// del documento para que un rollback no consuma el número.
	Next(ctx context.Context, companyID string, kind numbering.Kind) (int64, error)
}
