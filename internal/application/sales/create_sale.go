package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/numbering"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// SaleUseCase flujo de venta: checkout, cancelación y consultas.
// Toda escritura de una operación ocurre dentro de una sola transacción (todo o nada).
type SaleUseCase struct {
	tx       repository.TxRunner
	repos    repository.Repos
	ledger   *inventory.StockLedger
	receipts ReceiptRenderer
	metrics  Recorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. receipts puede ser nil (sin PDF).
func NewSaleUseCase(
	tx repository.TxRunner,
	repos repository.Repos,
	ledger *inventory.StockLedger,
	receipts ReceiptRenderer,
	log zerolog.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		tx:       tx,
		repos:    repos,
		ledger:   ledger,
		receipts: receipts,
		metrics:  nopRecorder{},
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// WithRecorder registra los contadores de negocio.
func (uc *SaleUseCase) WithRecorder(r Recorder) *SaleUseCase {
	if r != nil {
		uc.metrics = r
	}
	return uc
}

// Create registra una venta. Orden de validación: cliente, ítems y stock, totales y descuento,
// pagos, suficiencia de pagos. Cualquier falla aborta la transacción sin escrituras parciales.
func (uc *SaleUseCase) Create(ctx context.Context, caller entity.Caller, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.requireApproved(ctx, caller); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la venta necesita al menos un ítem")
	}
	if len(in.Payments) == 0 {
		return nil, domain.NewValidationError("payments", "la venta necesita al menos un pago")
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		CompanyID:  caller.CompanyID,
		CustomerID: in.CustomerID,
		UserID:     caller.UserID,
		Discount:   in.Discount,
		Status:     entity.SaleCompleted,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var receivableIDs []string

	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		// 1. Cliente
		customer, err := tx.Customers.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || customer.IsDeleted() {
			return fmt.Errorf("cliente %s: %w", in.CustomerID, domain.ErrNotFound)
		}
		if customer.CompanyID != caller.CompanyID {
			return domain.ErrForbidden
		}

		// 2. Ítems: bloqueo, stock y snapshot del producto
		for i, it := range in.Items {
			p, err := uc.ledger.Apply(ctx, tx, inventory.Movement{
				CompanyID: caller.CompanyID,
				ProductID: it.ProductID,
				Reason:    entity.ReasonSale,
				Quantity:  it.Quantity,
				Reference: sale.ID,
				UserID:    caller.UserID,
			}, now)
			if err != nil {
				return itemError(i, err)
			}
			price := p.SalePrice
			if it.UnitPrice != nil && it.UnitPrice.IsPositive() {
				price = *it.UnitPrice
			}
			sale.Items = append(sale.Items, entity.SaleItem{
				ProductID:   p.ID,
				Description: p.Description,
				Unit:        p.Unit,
				UnitPrice:   price,
				Quantity:    it.Quantity,
			})
		}

		// 3-5. Pagos y totales
		sale.Payments = buildPayments(in.Payments, now)
		if err := sale.Totalize(); err != nil {
			return err
		}

		n, err := tx.Counters.Next(ctx, caller.CompanyID, numbering.KindSale)
		if err != nil {
			return err
		}
		sale.SaleNumber = numbering.Format(numbering.KindSale, n)

		register, err := tx.CashRegisters.GetOpenForUpdate(ctx, caller.CompanyID, caller.UserID)
		if err != nil {
			return err
		}
		if register != nil {
			sale.CashRegisterID = register.ID
			register.ApplySale(sale, 1)
			if err := tx.CashRegisters.Update(ctx, register); err != nil {
				return err
			}
		}

		customer.RecordPurchase(sale.Total, now)
		if err := tx.Customers.UpdateTotals(ctx, customer); err != nil {
			return err
		}
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for i := range sale.Payments {
			p := &sale.Payments[i]
			if !entity.IsDeferredMethod(p.Method) {
				continue
			}
			r := entity.NewReceivable(uuid.New().String(), sale, p, now)
			if err := tx.Receivables.Create(ctx, r); err != nil {
				return err
			}
			receivableIDs = append(receivableIDs, r.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleCreated(sale.Total)
	uc.log.Info().
		Str("company_id", sale.CompanyID).
		Str("sale_id", sale.ID).
		Str("sale_number", sale.SaleNumber).
		Str("total", sale.Total.StringFixed(2)).
		Int("receivables", len(receivableIDs)).
		Msg("venta registrada")

	out := dto.NewSaleResponse(sale)
	out.ReceivableIDs = receivableIDs
	return out, nil
}

// buildPayments normaliza los pagos: inmediatos quedan paid; diferidos pending con vencimiento
// (por defecto +1 mes) y cuotas (solo crediário admite más de una).
func buildPayments(in []dto.SalePaymentRequest, now time.Time) []entity.SalePayment {
	out := make([]entity.SalePayment, 0, len(in))
	for _, p := range in {
		sp := entity.SalePayment{
			ID:           uuid.New().String(),
			Method:       p.Method,
			Amount:       p.Amount,
			Installments: p.Installments,
		}
		if sp.Installments < 1 {
			sp.Installments = 1
		}
		if entity.IsDeferredMethod(p.Method) {
			if p.Method != entity.PaymentCrediario {
				sp.Installments = 1
			}
			due := now.AddDate(0, 1, 0)
			if p.DueDate != nil {
				due = *p.DueDate
			}
			sp.Status = entity.PaymentPending
			sp.DueDate = &due
		} else {
			paidAt := now
			sp.Status = entity.PaymentPaid
			sp.PaidAt = &paidAt
		}
		out = append(out, sp)
	}
	return out
}

// itemError prefija los campos de validación con la posición del ítem.
func itemError(i int, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		for j := range ve.Fields {
			ve.Fields[j].Field = fmt.Sprintf("items[%d].%s", i, ve.Fields[j].Field)
		}
		return ve
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return err
	}
	return fmt.Errorf("items[%d]: %w", i, err)
}

func (uc *SaleUseCase) requireApproved(ctx context.Context, caller entity.Caller) error {
	if caller.IsAdmin() {
		return nil
	}
	c, err := uc.repos.Companies.GetByID(ctx, caller.CompanyID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if !c.IsApproved() {
		return domain.ErrCompanyNotApproved
	}
	return nil
}
