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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persiste ventas: cabecera en sales, líneas en sale_items y pagos como JSONB.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// salePaymentRow forma JSON de entity.SalePayment dentro de sales.payments.
type salePaymentRow struct {
	ID           string          `json:"id"`
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	Installments int             `json:"installments"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}

func toPaymentRows(ps []entity.SalePayment) []salePaymentRow {
	out := make([]salePaymentRow, 0, len(ps))
	for _, p := range ps {
		out = append(out, salePaymentRow(p))
	}
	return out
}

func fromPaymentRows(rs []salePaymentRow) []entity.SalePayment {
	out := make([]entity.SalePayment, 0, len(rs))
	for _, r := range rs {
		out = append(out, entity.SalePayment(r))
	}
	return out
}

const saleColumns = `id, company_id, customer_id, user_id, cash_register_id, sale_number, subtotal, discount, total,
	payments, amount_paid, change_amount, status, notes, cancelled_at, cancelled_by, cancel_reason, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s        entity.Sale
		register *string
		payments []salePaymentRow
	)
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.CustomerID, &s.UserID, &register, &s.SaleNumber, &s.Subtotal, &s.Discount, &s.Total,
		&payments, &s.AmountPaid, &s.Change, &s.Status, &s.Notes, &s.CancelledAt, &s.CancelledBy, &s.CancelReason,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CashRegisterID = deref(register)
	s.Payments = fromPaymentRows(payments)
	return &s, nil
}

// Create inserta cabecera y líneas. Número repetido en la empresa devuelve ErrNumberConflict.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.CustomerID, s.UserID, nullIfEmpty(s.CashRegisterID), s.SaleNumber, s.Subtotal, s.Discount, s.Total,
		toPaymentRows(s.Payments), s.AmountPaid, s.Change, s.Status, s.Notes, s.CancelledAt, s.CancelledBy, s.CancelReason,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert sale", err)
	}

	const itemQuery = `
		INSERT INTO sale_items (sale_id, line, product_id, description, unit, unit_price, quantity, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, it := range s.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			s.ID, i+1, it.ProductID, it.Description, it.Unit, it.UnitPrice, it.Quantity, it.Total,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, op, query string, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID obtiene la venta completa.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale", `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale for update", `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

// loadItems completa las líneas de varias ventas con una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
		byID[s.ID] = s
		s.Items = []entity.SaleItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT sale_id, product_id, description, unit, unit_price, quantity, total
		FROM sale_items WHERE sale_id = ANY($1::uuid[]) ORDER BY sale_id, line`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			saleID string
			it     entity.SaleItem
		)
		if err := rows.Scan(&saleID, &it.ProductID, &it.Description, &it.Unit, &it.UnitPrice, &it.Quantity, &it.Total); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

// Update persiste estado, pagos y cancelación. Las líneas no cambian.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET payments = $2, status = $3, notes = $4, cancelled_at = $5, cancelled_by = $6,
			cancel_reason = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, toPaymentRows(s.Payments), s.Status, s.Notes, s.CancelledAt, s.CancelledBy, s.CancelReason, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ventas más recientes primero. To es exclusivo.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var w where
	w.add("company_id = $%d", f.CompanyID)
	if f.CustomerID != "" {
		w.add("customer_id = $%d", f.CustomerID)
	}
	if f.UserID != "" {
		w.add("user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.From != nil {
		w.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("created_at < $%d", *f.To)
	}
	query := `SELECT ` + saleColumns + ` FROM sales` + w.String() + ` ORDER BY created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	// las filas deben cerrarse antes de otra consulta sobre la misma conexión (tx)
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// LastNumber último número emitido por la empresa ("" si no hay ventas).
func (r *SaleRepo) LastNumber(ctx context.Context, companyID string) (string, error) {
	var n string
	err := r.q.QueryRow(ctx,
		`SELECT sale_number FROM sales WHERE company_id = $1 ORDER BY sale_number DESC LIMIT 1`, companyID,
	).Scan(&n)
	if err != nil {
		if noRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("last sale number: %w", err)
	}
	return n, nil
}

// Totals cantidad y monto de ventas no canceladas en [from, to).
func (r *SaleRepo) Totals(ctx context.Context, companyID string, from, to time.Time) (repository.SalesTotals, error) {
	t := repository.SalesTotals{}
	err := r.q.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(total), 0)
		FROM sales
		WHERE company_id = $1 AND status <> 'cancelled' AND created_at >= $2 AND created_at < $3`,
		companyID, from, to,
	).Scan(&t.Count, &t.Total)
	if err != nil {
		return t, fmt.Errorf("sales totals: %w", err)
	}
	return t, nil
}

// TopProducts productos más vendidos (por cantidad) en [from, to).
func (r *SaleRepo) TopProducts(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.product_id, min(i.description), sum(i.quantity), sum(i.total)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		WHERE s.company_id = $1 AND s.status <> 'cancelled' AND s.created_at >= $2 AND s.created_at < $3
		GROUP BY i.product_id
		ORDER BY sum(i.quantity) DESC, min(i.description)
		LIMIT $4`,
		companyID, from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductSales
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Description, &ps.Quantity, &ps.Total); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}
