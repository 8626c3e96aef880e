package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pdv-api/internal/domain"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx: los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueConstraintErrors traduce el índice violado al error de dominio correspondiente.
var uniqueConstraintErrors = map[string]error{
	"users_email_key":              domain.ErrEmailAlreadyExists,
	"sales_company_number_key":     domain.ErrNumberConflict,
	"entries_company_number_key":   domain.ErrNumberConflict,
	"cash_registers_one_open":      domain.ErrRegisterAlreadyOpen,
	"receivables_sale_payment_key": domain.ErrConflict,
}

// mapWriteError convierte violaciones de unicidad en errores de dominio y envuelve el resto.
func mapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		if derr, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%s: %w", op, derr)
		}
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// noRows indica pgx.ErrNoRows (los repositorios devuelven nil, nil en ese caso).
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

// where arma cláusulas WHERE con placeholders posicionales.
type where struct {
	conds []string
	args  []any
}

// arg registra un argumento y devuelve su número de placeholder.
func (w *where) arg(v any) int {
	w.args = append(w.args, v)
	return len(w.args)
}

// add agrega una condición; cond lleva un %d para el número del placeholder.
func (w *where) add(cond string, v any) {
	w.conds = append(w.conds, fmt.Sprintf(cond, w.arg(v)))
}

// raw agrega una condición sin argumentos.
func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET al final.
func (w *where) page(limit, offset int) string {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}
