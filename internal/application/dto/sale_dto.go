package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del carrito. UnitPrice cero u omitido toma el precio de venta del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
}

// SalePaymentRequest pago informado en el checkout.
type SalePaymentRequest struct {
	Method       string          `json:"method" validate:"required,oneof=dinheiro debito credito pix boleto promissoria crediario"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Installments int             `json:"installments" validate:"omitempty,min=1,max=48"`
	DueDate      *time.Time      `json:"due_date"`
}

// CreateSaleRequest entrada de POST /api/sales.
type CreateSaleRequest struct {
	CustomerID string               `json:"customer_id" validate:"required,uuid"`
	Items      []SaleItemRequest    `json:"items" validate:"required,min=1,dive"`
	Discount   decimal.Decimal      `json:"discount" validate:"gte=0"`
	Payments   []SalePaymentRequest `json:"payments" validate:"required,min=1,dive"`
	Notes      string               `json:"notes" validate:"omitempty,max=500"`
}

// CancelRequest motivo de cancelación (ventas, entradas, cuentas por cobrar).
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// SalePaymentResponse pago de la venta.
type SalePaymentResponse struct {
	ID           string          `json:"id"`
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	Installments int             `json:"installments,omitempty"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID             string                `json:"id"`
	CompanyID      string                `json:"company_id"`
	SaleNumber     string                `json:"sale_number"`
	CustomerID     string                `json:"customer_id"`
	UserID         string                `json:"user_id"`
	CashRegisterID string                `json:"cash_register_id,omitempty"`
	Items          []SaleItemResponse    `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	Discount       decimal.Decimal       `json:"discount"`
	Total          decimal.Decimal       `json:"total"`
	Payments       []SalePaymentResponse `json:"payments"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	Change         decimal.Decimal       `json:"change"`
	Status         string                `json:"status"`
	Notes          string                `json:"notes,omitempty"`
	ReceivableIDs  []string              `json:"receivable_ids,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	CancelledBy    string                `json:"cancelled_by,omitempty"`
	CancelReason   string                `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleListQuery filtros de GET /api/sales.
type SaleListQuery struct {
	PageRequest
	Status     string     `query:"status" validate:"omitempty,oneof=completed pending cancelled"`
	CustomerID string     `query:"customer_id" validate:"omitempty,uuid"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
}
