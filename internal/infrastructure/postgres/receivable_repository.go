package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.ReceivableRepository = (*ReceivableRepo)(nil)

// ReceivableRepo persiste cuentas por cobrar; cuotas e historial de pagos van como JSONB.
type ReceivableRepo struct {
	q Querier
}

// NewReceivableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivableRepository(q Querier) *ReceivableRepo {
	return &ReceivableRepo{q: q}
}

type installmentRow struct {
	Number     int             `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

type receivablePaymentRow struct {
	ID                string          `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	Method            string          `json:"method"`
	PaidAt            time.Time       `json:"paid_at"`
	UserID            string          `json:"user_id"`
	Notes             string          `json:"notes,omitempty"`
	InstallmentNumber int             `json:"installment,omitempty"`
}

func toInstallmentRows(in []entity.Installment) []installmentRow {
	out := make([]installmentRow, 0, len(in))
	for _, i := range in {
		out = append(out, installmentRow(i))
	}
	return out
}

func toReceivablePaymentRows(in []entity.ReceivablePayment) []receivablePaymentRow {
	out := make([]receivablePaymentRow, 0, len(in))
	for _, p := range in {
		out = append(out, receivablePaymentRow(p))
	}
	return out
}

const receivableColumns = `id, company_id, sale_id, payment_id, customer_id, sale_number, method, original_amount,
	current_amount, due_date, status, installments, payments, paid_at, cancelled_at, cancel_reason, created_at, updated_at`

func scanReceivable(row pgx.Row) (*entity.Receivable, error) {
	var (
		rc    entity.Receivable
		insts []installmentRow
		pays  []receivablePaymentRow
	)
	err := row.Scan(
		&rc.ID, &rc.CompanyID, &rc.SaleID, &rc.PaymentID, &rc.CustomerID, &rc.SaleNumber, &rc.Method, &rc.OriginalAmount,
		&rc.CurrentAmount, &rc.DueDate, &rc.Status, &insts, &pays, &rc.PaidAt, &rc.CancelledAt, &rc.CancelReason,
		&rc.CreatedAt, &rc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rc.Installments = make([]entity.Installment, 0, len(insts))
	for _, i := range insts {
		rc.Installments = append(rc.Installments, entity.Installment(i))
	}
	rc.Payments = make([]entity.ReceivablePayment, 0, len(pays))
	for _, p := range pays {
		rc.Payments = append(rc.Payments, entity.ReceivablePayment(p))
	}
	return &rc, nil
}

func (r *ReceivableRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Receivable, error) {
	rc, err := scanReceivable(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rc, nil
}

func (r *ReceivableRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Receivable, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	defer rows.Close()

	var list []*entity.Receivable
	for rows.Next() {
		rc, err := scanReceivable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receivable: %w", err)
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}

// Create persiste la cuenta. Una sola por (venta, pago): repetir devuelve ErrConflict.
func (r *ReceivableRepo) Create(ctx context.Context, rc *entity.Receivable) error {
	query := `
		INSERT INTO receivables (` + receivableColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		rc.ID, rc.CompanyID, rc.SaleID, rc.PaymentID, rc.CustomerID, rc.SaleNumber, rc.Method, rc.OriginalAmount,
		rc.CurrentAmount, rc.DueDate, rc.Status, toInstallmentRows(rc.Installments), toReceivablePaymentRows(rc.Payments),
		rc.PaidAt, rc.CancelledAt, rc.CancelReason, rc.CreatedAt, rc.UpdatedAt,
	)
	return mapWriteError("insert receivable", err)
}

// GetByID obtiene la cuenta con cuotas y pagos.
func (r *ReceivableRepo) GetByID(ctx context.Context, id string) (*entity.Receivable, error) {
	return r.getOne(ctx, "get receivable", `SELECT `+receivableColumns+` FROM receivables WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: dos pagos simultáneos sobre la misma cuenta se serializan.
func (r *ReceivableRepo) GetForUpdate(ctx context.Context, id string) (*entity.Receivable, error) {
	return r.getOne(ctx, "get receivable for update", `SELECT `+receivableColumns+` FROM receivables WHERE id = $1 FOR UPDATE`, id)
}

// GetBySalePayment cuenta generada por el pago indicado (bloqueada si se llama dentro de una tx).
func (r *ReceivableRepo) GetBySalePayment(ctx context.Context, saleID, paymentID string) (*entity.Receivable, error) {
	return r.getOne(ctx, "get receivable by sale payment",
		`SELECT `+receivableColumns+` FROM receivables WHERE sale_id = $1 AND payment_id = $2 FOR UPDATE`,
		saleID, paymentID)
}

// Update persiste saldo, estado, cuotas y pagos.
func (r *ReceivableRepo) Update(ctx context.Context, rc *entity.Receivable) error {
	query := `
		UPDATE receivables SET current_amount = $2, due_date = $3, status = $4, installments = $5, payments = $6,
			paid_at = $7, cancelled_at = $8, cancel_reason = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rc.ID, rc.CurrentAmount, rc.DueDate, rc.Status, toInstallmentRows(rc.Installments),
		toReceivablePaymentRows(rc.Payments), rc.PaidAt, rc.CancelledAt, rc.CancelReason, rc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update receivable: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List cuentas de la empresa ordenadas por vencimiento.
func (r *ReceivableRepo) List(ctx context.Context, f repository.ReceivableFilter) ([]*entity.Receivable, error) {
	var w where
	w.add("company_id = $%d", f.CompanyID)
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	if f.SaleID != "" {
		w.add("sale_id = $%d", f.SaleID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	query := `SELECT ` + receivableColumns + ` FROM receivables` + w.String() + ` ORDER BY due_date, created_at` + w.page(f.Limit, f.Offset)
	return r.list(ctx, query, w.args...)
}

// ListOpenDue cuentas abiertas con alguna cuota pending vencida antes de now.
func (r *ReceivableRepo) ListOpenDue(ctx context.Context, companyID string, now time.Time, limit int) ([]*entity.Receivable, error) {
	var w where
	w.raw("status IN ('pending', 'overdue')")
	if companyID != "" {
		w.add("company_id = $%d", companyID)
	}
	w.add(`EXISTS (
		SELECT 1 FROM jsonb_array_elements(installments) AS inst
		WHERE inst->>'status' = 'pending' AND (inst->>'due_date')::timestamptz < $%d)`, now)
	query := `SELECT ` + receivableColumns + ` FROM receivables` + w.String() + ` ORDER BY due_date` + w.page(limit, 0)
	return r.list(ctx, query, w.args...)
}

// Summary saldos por estado de la empresa.
func (r *ReceivableRepo) Summary(ctx context.Context, companyID string) (repository.ReceivableSummary, error) {
	s := repository.ReceivableSummary{PendingTotal: decimal.Zero, OverdueTotal: decimal.Zero, PaidTotal: decimal.Zero}
	rows, err := r.q.Query(ctx, `
		SELECT status, count(*),
			COALESCE(sum(CASE WHEN status = 'paid' THEN original_amount ELSE current_amount END), 0)
		FROM receivables
		WHERE company_id = $1 AND status IN ('pending', 'overdue', 'paid')
		GROUP BY status`, companyID)
	if err != nil {
		return s, fmt.Errorf("receivables summary: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status entity.ReceivableStatus
			count  int
			total  decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &total); err != nil {
			return s, fmt.Errorf("scan receivables summary: %w", err)
		}
		switch status {
		case entity.ReceivablePending:
			s.PendingCount, s.PendingTotal = count, total
		case entity.ReceivableOverdue:
			s.OverdueCount, s.OverdueTotal = count, total
		case entity.ReceivablePaid:
			s.PaidCount, s.PaidTotal = count, total
		}
	}
	return s, rows.Err()
}
