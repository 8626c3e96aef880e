package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del día y del mes en curso, Top-5 productos del mes y saldos por cobrar.
type DashboardSummaryDTO struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayCount    int             `json:"today_count"`
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyCount  int             `json:"monthly_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"` // del mes

	TopProducts []TopProductDTO `json:"top_products"`

	LowStockCount      int             `json:"low_stock_count"`
	ReceivablesPending decimal.Decimal `json:"receivables_pending"`
	ReceivablesOverdue decimal.Decimal `json:"receivables_overdue"`
	OverdueCount       int             `json:"overdue_count"`

	DateLabel string `json:"date_label"` // ej: "março 2026"
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	Description  string          `json:"description"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
