package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierDTO proveedor de la entrada.
type SupplierDTO struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Document string `json:"document" validate:"omitempty,cpfcnpj"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

// EntryItemRequest línea de entrada.
type EntryItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gte=0"`
}

// EntryRequest entrada de POST /api/entries y PUT /api/entries/:id.
type EntryRequest struct {
	FiscalDocument string             `json:"fiscal_document" validate:"required,min=1,max=60"`
	Supplier       SupplierDTO        `json:"supplier"`
	InvoiceValue   decimal.Decimal    `json:"invoice_value" validate:"gte=0"`
	Items          []EntryItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes          string             `json:"notes" validate:"omitempty,max=500"`
}

// EntryItemResponse línea de entrada.
type EntryItemResponse struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// EntryResponse salida de una entrada.
type EntryResponse struct {
	ID             string              `json:"id"`
	CompanyID      string              `json:"company_id"`
	EntryNumber    string              `json:"entry_number"`
	FiscalDocument string              `json:"fiscal_document"`
	Supplier       SupplierDTO         `json:"supplier"`
	InvoiceValue   decimal.Decimal     `json:"invoice_value"`
	Items          []EntryItemResponse `json:"items"`
	TotalCost      decimal.Decimal     `json:"total_cost"`
	Status         string              `json:"status"`
	Notes          string              `json:"notes,omitempty"`
	UserID         string              `json:"user_id"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// EntryListResponse lista paginada de entradas.
type EntryListResponse struct {
	Items []EntryResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
