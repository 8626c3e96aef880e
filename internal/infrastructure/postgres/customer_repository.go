package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/textnorm"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, name, document, email, phone,
	address_street, address_number, address_complement, address_district, address_city, address_state, address_zip,
	active, deleted_at, total_purchases, total_spent, last_purchase_at, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	a := &c.Address
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Document, &c.Email, &c.Phone,
		&a.Street, &a.Number, &a.Complement, &a.District, &a.City, &a.State, &a.ZipCode,
		&c.Active, &c.DeletedAt, &c.TotalPurchases, &c.TotalSpent, &c.LastPurchaseAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Create persiste un nuevo cliente. Documento repetido en la empresa devuelve ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	a := c.Address
	query := `
		INSERT INTO customers (id, company_id, name, search_key, document, email, phone,
			address_street, address_number, address_complement, address_district, address_city, address_state, address_zip,
			active, deleted_at, total_purchases, total_spent, last_purchase_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Name, textnorm.Fold(c.Name), c.Document, c.Email, c.Phone,
		a.Street, a.Number, a.Complement, a.District, a.City, a.State, a.ZipCode,
		c.Active, c.DeletedAt, c.TotalPurchases, c.TotalSpent, c.LastPurchaseAt, c.CreatedAt, c.UpdatedAt,
	)
	return mapWriteError("insert customer", err)
}

// GetByID obtiene un cliente por ID (incluye eliminados).
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer", `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer for update", `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
}

// GetByDocument cliente activo (no eliminado) con ese CPF/CNPJ en la empresa.
func (r *CustomerRepo) GetByDocument(ctx context.Context, companyID, document string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer by document",
		`SELECT `+customerColumns+` FROM customers WHERE company_id = $1 AND document = $2 AND deleted_at IS NULL`,
		companyID, document)
}

// Update actualiza datos de contacto, estado y soft delete. No toca los acumulados.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	a := c.Address
	query := `
		UPDATE customers SET name = $2, search_key = $3, document = $4, email = $5, phone = $6,
			address_street = $7, address_number = $8, address_complement = $9, address_district = $10,
			address_city = $11, address_state = $12, address_zip = $13,
			active = $14, deleted_at = $15, updated_at = $16
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, textnorm.Fold(c.Name), c.Document, c.Email, c.Phone,
		a.Street, a.Number, a.Complement, a.District, a.City, a.State, a.ZipCode,
		c.Active, c.DeletedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update customer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotals persiste los acumulados de compras.
func (r *CustomerRepo) UpdateTotals(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET total_purchases = $2, total_spent = $3, last_purchase_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.TotalPurchases, c.TotalSpent, c.LastPurchaseAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update customer totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List clientes por nombre; Search compara contra el nombre normalizado o el documento.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	var w where
	w.add("company_id = $%d", f.CompanyID)
	if !f.IncludeDeleted {
		w.raw("deleted_at IS NULL")
	}
	if s := textnorm.Fold(f.Search); s != "" {
		w.add("(search_key LIKE '%%' || $%[1]d || '%%' OR document LIKE '%%' || $%[1]d || '%%')", s)
	}
	query := `SELECT ` + customerColumns + ` FROM customers` + w.String() + ` ORDER BY name` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
