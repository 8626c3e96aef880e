package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivablePaymentRequest pago de una cuenta por cobrar.
// Amount omitido en el pago por (venta, pago) liquida el saldo completo.
type ReceivablePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	Method      string          `json:"method" validate:"required,oneof=dinheiro debito credito pix boleto"`
	Installment int             `json:"installment" validate:"omitempty,min=1"`
	Notes       string          `json:"notes" validate:"omitempty,max=300"`
}

// InstallmentResponse cuota.
type InstallmentResponse struct {
	Number     int             `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

// ReceivablePaymentResponse pago registrado.
type ReceivablePaymentResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	PaidAt      time.Time       `json:"paid_at"`
	UserID      string          `json:"user_id"`
	Notes       string          `json:"notes,omitempty"`
	Installment int             `json:"installment,omitempty"`
}

// ReceivableResponse salida de una cuenta por cobrar.
type ReceivableResponse struct {
	ID             string                      `json:"id"`
	CompanyID      string                      `json:"company_id"`
	SaleID         string                      `json:"sale_id"`
	PaymentID      string                      `json:"payment_id"`
	SaleNumber     string                      `json:"sale_number"`
	CustomerID     string                      `json:"customer_id"`
	Method         string                      `json:"method"`
	OriginalAmount decimal.Decimal             `json:"original_amount"`
	CurrentAmount  decimal.Decimal             `json:"current_amount"`
	DueDate        time.Time                   `json:"due_date"`
	Status         string                      `json:"status"`
	Installments   []InstallmentResponse       `json:"installments"`
	Payments       []ReceivablePaymentResponse `json:"payments"`
	PaidAt         *time.Time                  `json:"paid_at,omitempty"`
	CancelledAt    *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason   string                      `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// ReceivableListResponse lista paginada.
type ReceivableListResponse struct {
	Items []ReceivableResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ReceivableSummaryResponse saldos por estado.
type ReceivableSummaryResponse struct {
	PendingCount int             `json:"pending_count"`
	PendingTotal decimal.Decimal `json:"pending_total"`
	OverdueCount int             `json:"overdue_count"`
	OverdueTotal decimal.Decimal `json:"overdue_total"`
	PaidCount    int             `json:"paid_count"`
	PaidTotal    decimal.Decimal `json:"paid_total"`
}
