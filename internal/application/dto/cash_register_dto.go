package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCashRegisterRequest apertura de caja.
type OpenCashRegisterRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"gte=0"`
}

// CloseCashRegisterRequest cierre de caja con el efectivo contado.
type CloseCashRegisterRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance" validate:"gte=0"`
	Notes          string          `json:"notes" validate:"omitempty,max=500"`
}

// CashRegisterResponse salida de una sesión de caja.
type CashRegisterResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	UserID          string          `json:"user_id"`
	Status          string          `json:"status"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	Difference      decimal.Decimal `json:"difference"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCash       decimal.Decimal `json:"total_cash"`
	TotalCard       decimal.Decimal `json:"total_card"`
	TotalOther      decimal.Decimal `json:"total_other"`
	TotalChange     decimal.Decimal `json:"total_change"`
	SalesCount      int             `json:"sales_count"`
	Notes           string          `json:"notes,omitempty"`
	OpenedAt        time.Time       `json:"opened_at"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
}

// CashRegisterListResponse historial paginado.
type CashRegisterListResponse struct {
	Items []CashRegisterResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
