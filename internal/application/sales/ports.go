package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// ReceiptData datos necesarios para el comprobante de una venta.
type ReceiptData struct {
	Company  *entity.Company
	Customer *entity.Customer
	Sale     *entity.Sale
}

// ReceiptRenderer genera el comprobante PDF de una venta.
type ReceiptRenderer interface {
	Render(ctx context.Context, data ReceiptData) ([]byte, error)
}

// Recorder contadores de negocio (Prometheus en producción).
type Recorder interface {
	SaleCreated(total decimal.Decimal)
	SaleCancelled()
}

type nopRecorder struct{}

func (nopRecorder) SaleCreated(decimal.Decimal) {}
func (nopRecorder) SaleCancelled()              {}
