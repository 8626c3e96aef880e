package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	CompanyID      string
	Search         string // clave normalizada (descripción) o código de barras
	Group          string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Update no toca stock ni acumulados: esos campos solo se escriben con UpdateStock.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste quantity, total_sold, total_entries y cost_price.
	UpdateStock(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	// ListLowStock productos activos con quantity <= min_quantity, mayor déficit primero.
	ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error)
	CountLowStock(ctx context.Context, companyID string) (int, error)
}
