package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReceivableFilter criterios de listado de cuentas por cobrar.
type ReceivableFilter struct {
	CompanyID  string
	CustomerID string
	SaleID     string
	Status     entity.ReceivableStatus
	Limit      int
	Offset     int
}

// ReceivableSummary saldos abiertos por estado.
type ReceivableSummary struct {
	PendingCount int
	PendingTotal decimal.Decimal
	OverdueCount int
	OverdueTotal decimal.Decimal
	PaidCount    int
	PaidTotal    decimal.Decimal
}

// ReceivableRepository define el puerto de persistencia para Receivable (cuotas y pagos incluidos).
type ReceivableRepository interface {
	Create(ctx context.Context, r *entity.Receivable) error
	GetByID(ctx context.Context, id string) (*entity.Receivable, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Receivable, error)
	GetBySalePayment(ctx context.Context, saleID, paymentID string) (*entity.Receivable, error)
	Update(ctx context.Context, r *entity.Receivable) error
	List(ctx context.Context, f ReceivableFilter) ([]*entity.Receivable, error)
	// ListOpenDue cuentas abiertas con alguna cuota todavía pending vencida antes de now ("" = todas las empresas).
	// Tras CheckOverdue la cuenta deja de aparecer, por lo que el barrido avanza por lotes.
	ListOpenDue(ctx context.Context, companyID string, now time.Time, limit int) ([]*entity.Receivable, error)
	Summary(ctx context.Context, companyID string) (ReceivableSummary, error)
}
