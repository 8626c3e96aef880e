package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo sesiones de caja. El índice cash_registers_one_open garantiza una abierta por usuario.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const cashRegisterColumns = `id, company_id, user_id, opening_balance, closing_balance, expected_balance, difference,
	total_sales, total_cash, total_card, total_other, total_change, sales_count, status, notes, opened_at, closed_at`

func scanCashRegister(row pgx.Row) (*entity.CashRegister, error) {
	var c entity.CashRegister
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.UserID, &c.OpeningBalance, &c.ClosingBalance, &c.ExpectedBalance, &c.Difference,
		&c.TotalSales, &c.TotalCash, &c.TotalCard, &c.TotalOther, &c.TotalChange, &c.SalesCount,
		&c.Status, &c.Notes, &c.OpenedAt, &c.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CashRegisterRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.CashRegister, error) {
	c, err := scanCashRegister(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Create abre una sesión. Una segunda sesión abierta del mismo usuario devuelve ErrRegisterAlreadyOpen.
func (r *CashRegisterRepo) Create(ctx context.Context, c *entity.CashRegister) error {
	query := `
		INSERT INTO cash_registers (` + cashRegisterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.UserID, c.OpeningBalance, c.ClosingBalance, c.ExpectedBalance, c.Difference,
		c.TotalSales, c.TotalCash, c.TotalCard, c.TotalOther, c.TotalChange, c.SalesCount,
		c.Status, c.Notes, c.OpenedAt, c.ClosedAt,
	)
	return mapWriteError("insert cash register", err)
}

// GetByID obtiene una sesión por ID.
func (r *CashRegisterRepo) GetByID(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, "get cash register", `SELECT `+cashRegisterColumns+` FROM cash_registers WHERE id = $1`, id)
}

// GetForUpdate bloquea la sesión hasta el fin de la transacción.
func (r *CashRegisterRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, "get cash register for update",
		`SELECT `+cashRegisterColumns+` FROM cash_registers WHERE id = $1 FOR UPDATE`, id)
}

// GetOpenForUpdate sesión abierta del usuario, bloqueada; nil si no hay.
func (r *CashRegisterRepo) GetOpenForUpdate(ctx context.Context, companyID, userID string) (*entity.CashRegister, error) {
	return r.getOne(ctx, "get open cash register",
		`SELECT `+cashRegisterColumns+` FROM cash_registers
		 WHERE company_id = $1 AND user_id = $2 AND status = 'open' FOR UPDATE`, companyID, userID)
}

// Update persiste totales y cierre.
func (r *CashRegisterRepo) Update(ctx context.Context, c *entity.CashRegister) error {
	query := `
		UPDATE cash_registers SET closing_balance = $2, expected_balance = $3, difference = $4, total_sales = $5,
			total_cash = $6, total_card = $7, total_other = $8, total_change = $9, sales_count = $10,
			status = $11, notes = $12, closed_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.ClosingBalance, c.ExpectedBalance, c.Difference, c.TotalSales,
		c.TotalCash, c.TotalCard, c.TotalOther, c.TotalChange, c.SalesCount,
		c.Status, c.Notes, c.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update cash register: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List sesiones de la empresa (o de un usuario), más recientes primero.
func (r *CashRegisterRepo) List(ctx context.Context, companyID, userID string, limit, offset int) ([]*entity.CashRegister, error) {
	var w where
	w.add("company_id = $%d", companyID)
	if userID != "" {
		w.add("user_id = $%d", userID)
	}
	query := `SELECT ` + cashRegisterColumns + ` FROM cash_registers` + w.String() + ` ORDER BY opened_at DESC` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()

	var list []*entity.CashRegister
	for rows.Next() {
		c, err := scanCashRegister(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
