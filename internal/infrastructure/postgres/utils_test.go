package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pdv-api/internal/domain"
)

// ─────────────────────────────────────────────────────────────────────────────
// mapWriteError
// ─────────────────────────────────────────────────────────────────────────────

func TestMapWriteError_UniqueConstraints(t *testing.T) {
	cases := map[string]error{
		"sales_company_number_key":     domain.ErrNumberConflict,
		"entries_company_number_key":   domain.ErrNumberConflict,
		"cash_registers_one_open":      domain.ErrRegisterAlreadyOpen,
		"users_email_key":              domain.ErrEmailAlreadyExists,
		"companies_cnpj_key":           domain.ErrDuplicate,
		"products_company_barcode_key": domain.ErrDuplicate,
	}
	for constraint, want := range cases {
		err := mapWriteError("insert", &pgconn.PgError{Code: "23505", ConstraintName: constraint})
		assert.ErrorIs(t, err, want, constraint)
	}
}

func TestMapWriteError_Passthrough(t *testing.T) {
	assert.NoError(t, mapWriteError("insert", nil))

	boom := errors.New("boom")
	err := mapWriteError("insert sale", boom)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "insert sale")

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "sales_customer_id_fkey"}
	assert.NotErrorIs(t, mapWriteError("insert sale", fk), domain.ErrDuplicate)
}

// ─────────────────────────────────────────────────────────────────────────────
// where
// ─────────────────────────────────────────────────────────────────────────────

func TestWhere_BuildsPositionalPlaceholders(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.add("company_id = $%d", "c1")
	w.raw("deleted_at IS NULL")
	w.add("status = $%d", "pending")
	page := w.page(10, 20)

	assert.Equal(t, " WHERE company_id = $1 AND deleted_at IS NULL AND status = $2", w.String())
	assert.Equal(t, " LIMIT $3 OFFSET $4", page)
	assert.Equal(t, []any{"c1", "pending", 10, 20}, w.args)
}

func TestWhere_PageDefaults(t *testing.T) {
	var w where
	w.page(0, -5)
	assert.Equal(t, []any{20, 0}, w.args)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	v := nullIfEmpty("789")
	if assert.NotNil(t, v) {
		assert.Equal(t, "789", deref(v))
	}
	assert.Equal(t, "", deref(nil))
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/pdv?sslmode=disable", migrateURL("postgres://u:p@db:5432/pdv?sslmode=disable"))
	assert.Equal(t, "pgx5://db/pdv", migrateURL("postgresql://db/pdv"))
	assert.Equal(t, "pgx5://db/pdv", migrateURL("pgx5://db/pdv"))
}
