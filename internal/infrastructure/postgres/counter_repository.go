package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/numbering"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo contadores de numeración en document_counters.
// El UPDATE toma el lock de la fila: dos ventas simultáneas de la misma empresa reciben números distintos.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Debe usarse con la tx del documento.
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Next incrementa y devuelve el siguiente valor. La primera vez siembra el contador desde el último
// número emitido, así una base migrada sin contadores continúa la secuencia.
func (r *CounterRepo) Next(ctx context.Context, companyID string, kind numbering.Kind) (int64, error) {
	if !kind.Valid() {
		return 0, domain.ErrInvalidInput
	}
	var n int64
	err := r.q.QueryRow(ctx, `
		UPDATE document_counters SET last_value = last_value + 1
		WHERE company_id = $1 AND kind = $2
		RETURNING last_value`, companyID, string(kind)).Scan(&n)
	if err == nil {
		return n, nil
	}
	if !noRows(err) {
		return 0, fmt.Errorf("next %s number: %w", kind, err)
	}

	last, err := r.lastNumber(ctx, companyID, kind)
	if err != nil {
		return 0, err
	}
	// ON CONFLICT cubre la carrera de dos transacciones que siembran a la vez.
	err = r.q.QueryRow(ctx, `
		INSERT INTO document_counters (company_id, kind, last_value) VALUES ($1, $2, $3)
		ON CONFLICT (company_id, kind) DO UPDATE SET last_value = document_counters.last_value + 1
		RETURNING last_value`, companyID, string(kind), numbering.SeedFrom(kind, last)+1).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("seed %s counter: %w", kind, err)
	}
	return n, nil
}

func (r *CounterRepo) lastNumber(ctx context.Context, companyID string, kind numbering.Kind) (string, error) {
	switch kind {
	case numbering.KindSale:
		return NewSaleRepository(r.q).LastNumber(ctx, companyID)
	case numbering.KindEntry:
		return NewEntryRepository(r.q).LastNumber(ctx, companyID)
	}
	return "", nil
}
