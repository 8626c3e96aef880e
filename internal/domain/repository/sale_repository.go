package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleFilter criterios de listado de ventas.
type SaleFilter struct {
	CompanyID  string
	CustomerID string
	UserID     string
	Status     entity.SaleStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SalesTotals agregado de ventas no canceladas en un período.
type SalesTotals struct {
	Count int
	Total decimal.Decimal
}

// ProductSales ranking de productos vendidos.
type ProductSales struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	Total       decimal.Decimal
}

// SaleRepository define el puerto de persistencia para Sale (cabecera, ítems y pagos).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Update persiste estado, pagos y metadatos de cancelación (las líneas son inmutables).
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
	// LastNumber último sale_number emitido por la empresa ("" si no hay ventas).
	LastNumber(ctx context.Context, companyID string) (string, error)
	Totals(ctx context.Context, companyID string, from, to time.Time) (SalesTotals, error)
	TopProducts(ctx context.Context, companyID string, from, to time.Time, limit int) ([]ProductSales, error)
}
