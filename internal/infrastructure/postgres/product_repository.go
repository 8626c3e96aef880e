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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, barcode, description, search_key, brand, group_name, subgroup, unit,
	quantity, min_quantity, cost_price, sale_price, active, deleted_at, total_sold, total_entries, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p       entity.Product
		barcode *string
	)
	err := row.Scan(
		&p.ID, &p.CompanyID, &barcode, &p.Description, &p.SearchKey, &p.Brand, &p.Group, &p.Subgroup, &p.Unit,
		&p.Quantity, &p.MinQuantity, &p.CostPrice, &p.SalePrice, &p.Active, &p.DeletedAt,
		&p.TotalSold, &p.TotalEntries, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Barcode = deref(barcode)
	return &p, nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto. Código de barras repetido en la empresa devuelve ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, nullIfEmpty(p.Barcode), p.Description, p.SearchKey, p.Brand, p.Group, p.Subgroup, p.Unit,
		p.Quantity, p.MinQuantity, p.CostPrice, p.SalePrice, p.Active, p.DeletedAt,
		p.TotalSold, p.TotalEntries, p.CreatedAt, p.UpdatedAt,
	)
	return mapWriteError("insert product", err)
}

// GetByID obtiene un producto por ID (incluye eliminados).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: las mutaciones de stock concurrentes sobre el mismo producto se serializan.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product for update", `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByBarcode producto no eliminado con ese código en la empresa.
func (r *ProductRepo) GetByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by barcode",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND barcode = $2 AND deleted_at IS NULL`,
		companyID, barcode)
}

// Update actualiza el catálogo. No escribe quantity, acumulados ni costo (ver UpdateStock).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET barcode = $2, description = $3, search_key = $4, brand = $5, group_name = $6,
			subgroup = $7, unit = $8, min_quantity = $9, sale_price = $10, active = $11, deleted_at = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, nullIfEmpty(p.Barcode), p.Description, p.SearchKey, p.Brand, p.Group,
		p.Subgroup, p.Unit, p.MinQuantity, p.SalePrice, p.Active, p.DeletedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock persiste el resultado de una mutación del libro de stock.
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET quantity = $2, total_sold = $3, total_entries = $4, cost_price = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Quantity, p.TotalSold, p.TotalEntries, p.CostPrice, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List productos ordenados por descripción. Search busca en la clave normalizada o por código exacto.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w where
	w.add("company_id = $%d", f.CompanyID)
	if !f.IncludeDeleted {
		w.raw("deleted_at IS NULL")
	}
	if f.Group != "" {
		w.add("lower(group_name) = lower($%d)", f.Group)
	}
	if f.Search != "" {
		key, code := w.arg(textnorm.Fold(f.Search)), w.arg(f.Search)
		w.raw(fmt.Sprintf("(search_key LIKE '%%' || $%d || '%%' OR barcode = $%d)", key, code))
	}
	query := `SELECT ` + productColumns + ` FROM products` + w.String() + ` ORDER BY search_key` + w.page(f.Limit, f.Offset)
	return r.list(ctx, query, w.args...)
}

const lowStockWhere = ` WHERE company_id = $1 AND deleted_at IS NULL AND quantity <= min_quantity`

// ListLowStock productos en o bajo el punto de reposición, mayor déficit primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + productColumns + ` FROM products` + lowStockWhere +
		` ORDER BY (min_quantity - quantity) DESC, search_key LIMIT $2`
	return r.list(ctx, query, companyID, limit)
}

// CountLowStock cantidad de productos en o bajo el punto de reposición.
func (r *ProductRepo) CountLowStock(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+lowStockWhere, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}
