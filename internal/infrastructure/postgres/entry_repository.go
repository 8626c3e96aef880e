package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.EntryRepository = (*EntryRepo)(nil)

// EntryRepo persiste entradas de mercadería: cabecera en entries y líneas en entry_items.
type EntryRepo struct {
	q Querier
}

// NewEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntryRepository(q Querier) *EntryRepo {
	return &EntryRepo{q: q}
}

const entryColumns = `id, company_id, user_id, entry_number, fiscal_document, supplier_name, supplier_document, supplier_phone,
	invoice_value, total_cost, status, notes, completed_at, completed_by, cancelled_at, cancelled_by, cancel_reason,
	created_at, updated_at`

func scanEntry(row pgx.Row) (*entity.Entry, error) {
	var e entity.Entry
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.UserID, &e.EntryNumber, &e.FiscalDocument,
		&e.Supplier.Name, &e.Supplier.Document, &e.Supplier.Phone,
		&e.InvoiceValue, &e.TotalCost, &e.Status, &e.Notes, &e.CompletedAt, &e.CompletedBy,
		&e.CancelledAt, &e.CancelledBy, &e.CancelReason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserta cabecera y líneas. Número repetido en la empresa devuelve ErrNumberConflict.
func (r *EntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.UserID, e.EntryNumber, e.FiscalDocument,
		e.Supplier.Name, e.Supplier.Document, e.Supplier.Phone,
		e.InvoiceValue, e.TotalCost, e.Status, e.Notes, e.CompletedAt, e.CompletedBy,
		e.CancelledAt, e.CancelledBy, e.CancelReason, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert entry", err)
	}
	return r.insertItems(ctx, e)
}

func (r *EntryRepo) insertItems(ctx context.Context, e *entity.Entry) error {
	const query = `
		INSERT INTO entry_items (entry_id, line, product_id, description, quantity, unit_cost, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, it := range e.Items {
		if _, err := r.q.Exec(ctx, query,
			e.ID, i+1, it.ProductID, it.Description, it.Quantity, it.UnitCost, it.Total,
		); err != nil {
			return fmt.Errorf("insert entry item: %w", err)
		}
	}
	return nil
}

func (r *EntryRepo) getOne(ctx context.Context, op, query, id string) (*entity.Entry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadItems(ctx, []*entity.Entry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID obtiene la entrada completa.
func (r *EntryRepo) GetByID(ctx context.Context, id string) (*entity.Entry, error) {
	return r.getOne(ctx, "get entry", `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
func (r *EntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Entry, error) {
	return r.getOne(ctx, "get entry for update", `SELECT `+entryColumns+` FROM entries WHERE id = $1 FOR UPDATE`, id)
}

func (r *EntryRepo) loadItems(ctx context.Context, entries []*entity.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, 0, len(entries))
	byID := make(map[string]*entity.Entry, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		byID[e.ID] = e
		e.Items = []entity.EntryItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT entry_id, product_id, description, quantity, unit_cost, total
		FROM entry_items WHERE entry_id = ANY($1::uuid[]) ORDER BY entry_id, line`, ids)
	if err != nil {
		return fmt.Errorf("list entry items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			entryID string
			it      entity.EntryItem
		)
		if err := rows.Scan(&entryID, &it.ProductID, &it.Description, &it.Quantity, &it.UnitCost, &it.Total); err != nil {
			return fmt.Errorf("scan entry item: %w", err)
		}
		if e, ok := byID[entryID]; ok {
			e.Items = append(e.Items, it)
		}
	}
	return rows.Err()
}

// Update reemplaza cabecera y líneas.
func (r *EntryRepo) Update(ctx context.Context, e *entity.Entry) error {
	query := `
		UPDATE entries SET fiscal_document = $2, supplier_name = $3, supplier_document = $4, supplier_phone = $5,
			invoice_value = $6, total_cost = $7, status = $8, notes = $9, completed_at = $10, completed_by = $11,
			cancelled_at = $12, cancelled_by = $13, cancel_reason = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		e.ID, e.FiscalDocument, e.Supplier.Name, e.Supplier.Document, e.Supplier.Phone,
		e.InvoiceValue, e.TotalCost, e.Status, e.Notes, e.CompletedAt, e.CompletedBy,
		e.CancelledAt, e.CancelledBy, e.CancelReason, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM entry_items WHERE entry_id = $1`, e.ID); err != nil {
		return fmt.Errorf("delete entry items: %w", err)
	}
	return r.insertItems(ctx, e)
}

// List entradas más recientes primero.
func (r *EntryRepo) List(ctx context.Context, f repository.EntryFilter) ([]*entity.Entry, error) {
	var w where
	w.add("company_id = $%d", f.CompanyID)
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	query := `SELECT ` + entryColumns + ` FROM entries` + w.String() + ` ORDER BY created_at DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	var list []*entity.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		list = append(list, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// LastNumber último número de entrada de la empresa ("" si no hay).
func (r *EntryRepo) LastNumber(ctx context.Context, companyID string) (string, error) {
	var n string
	err := r.q.QueryRow(ctx,
		`SELECT entry_number FROM entries WHERE company_id = $1 ORDER BY entry_number DESC LIMIT 1`, companyID,
	).Scan(&n)
	if err != nil {
		if noRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("last entry number: %w", err)
	}
	return n, nil
}
