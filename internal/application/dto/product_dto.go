package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es el stock inicial (opcional).
type CreateProductRequest struct {
	Barcode     string          `json:"barcode" validate:"omitempty,max=50"`
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Brand       string          `json:"brand" validate:"omitempty,max=100"`
	Group       string          `json:"group" validate:"omitempty,max=100"`
	Subgroup    string          `json:"subgroup" validate:"omitempty,max=100"`
	Unit        string          `json:"unit" validate:"required,oneof=UND KG PCT"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gte=0"`
	MinQuantity decimal.Decimal `json:"min_quantity" validate:"gte=0"`
	CostPrice   decimal.Decimal `json:"cost_price" validate:"gte=0"`
	SalePrice   decimal.Decimal `json:"sale_price" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock ni costo: los mueve el ledger).
type UpdateProductRequest struct {
	Barcode     *string          `json:"barcode" validate:"omitempty,max=50"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=200"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	Group       *string          `json:"group" validate:"omitempty,max=100"`
	Subgroup    *string          `json:"subgroup" validate:"omitempty,max=100"`
	Unit        *string          `json:"unit" validate:"omitempty,oneof=UND KG PCT"`
	MinQuantity *decimal.Decimal `json:"min_quantity" validate:"omitempty,gte=0"`
	SalePrice   *decimal.Decimal `json:"sale_price" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	Barcode      string          `json:"barcode,omitempty"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand,omitempty"`
	Group        string          `json:"group,omitempty"`
	Subgroup     string          `json:"subgroup,omitempty"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	LowStock     bool            `json:"low_stock"`
	Active       bool            `json:"active"`
	TotalSold    decimal.Decimal `json:"total_sold"`
	TotalEntries decimal.Decimal `json:"total_entries"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockAdjustRequest ajuste manual de stock (add-stock / remove-stock).
type StockAdjustRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Reason   string          `json:"reason" validate:"omitempty,max=300"`
}

// StockMovementResponse fila del historial de stock.
type StockMovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Type         string          `json:"type"`
	Reason       string          `json:"reason"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reference    string          `json:"reference,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LowStockItem producto bajo el punto de reposición.
type LowStockItem struct {
	ProductID   string          `json:"product_id"`
	Barcode     string          `json:"barcode,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Deficit     decimal.Decimal `json:"deficit"`
	Unit        string          `json:"unit"`
}
