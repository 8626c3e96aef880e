// Package receivables libro de cuentas por cobrar: pagos, vencimientos y cancelación.
package receivables

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// sweepBatch tamaño de lote del barrido de vencidos.
const sweepBatch = 200

// ReceivableUseCase casos de uso del libro de cuentas por cobrar.
// El estado overdue se evalúa de forma perezosa en cada lectura y por el barrido periódico del worker.
type ReceivableUseCase struct {
	tx    repository.TxRunner
	repos repository.Repos
	log   zerolog.Logger
	now   func() time.Time
}

// NewReceivableUseCase construye el caso de uso.
func NewReceivableUseCase(tx repository.TxRunner, repos repository.Repos, log zerolog.Logger) *ReceivableUseCase {
	return &ReceivableUseCase{tx: tx, repos: repos, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReceivableUseCase) WithClock(now func() time.Time) *ReceivableUseCase {
	uc.now = now
	return uc
}

// Get devuelve una cuenta con su estado de vencimiento actualizado.
func (uc *ReceivableUseCase) Get(ctx context.Context, caller entity.Caller, id string) (*dto.ReceivableResponse, error) {
	r, err := uc.repos.Receivables.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.CanAccess(r.CompanyID) {
		return nil, domain.ErrForbidden
	}
	if err := uc.refresh(ctx, r); err != nil {
		return nil, err
	}
	return dto.NewReceivableResponse(r), nil
}

// ListQuery filtros del listado.
type ListQuery struct {
	dto.PageRequest
	Status     string
	CustomerID string
	SaleID     string
}

// List lista las cuentas de la empresa ordenadas por vencimiento.
func (uc *ReceivableUseCase) List(ctx context.Context, caller entity.Caller, companyID string, q ListQuery) (*dto.ReceivableListResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	// los filtros por estado necesitan el vencimiento al día
	if _, err := uc.sweep(ctx, companyID, uc.now()); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repos.Receivables.List(ctx, repository.ReceivableFilter{
		CompanyID:  companyID,
		CustomerID: q.CustomerID,
		SaleID:     q.SaleID,
		Status:     entity.ReceivableStatus(q.Status),
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReceivableResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *dto.NewReceivableResponse(r))
	}
	return &dto.ReceivableListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Overdue cuentas vencidas de la empresa.
func (uc *ReceivableUseCase) Overdue(ctx context.Context, caller entity.Caller, companyID string, page dto.PageRequest) (*dto.ReceivableListResponse, error) {
	return uc.List(ctx, caller, companyID, ListQuery{PageRequest: page, Status: string(entity.ReceivableOverdue)})
}

// Summary saldos por estado.
func (uc *ReceivableUseCase) Summary(ctx context.Context, caller entity.Caller, companyID string) (*dto.ReceivableSummaryResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.sweep(ctx, companyID, uc.now()); err != nil {
		return nil, err
	}
	s, err := uc.repos.Receivables.Summary(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &dto.ReceivableSummaryResponse{
		PendingCount: s.PendingCount,
		PendingTotal: s.PendingTotal,
		OverdueCount: s.OverdueCount,
		OverdueTotal: s.OverdueTotal,
		PaidCount:    s.PaidCount,
		PaidTotal:    s.PaidTotal,
	}, nil
}

// AddPayment registra un pago sobre la cuenta. Al quedar en cero marca paid la cuenta
// y el pago de la venta que la originó.
func (uc *ReceivableUseCase) AddPayment(ctx context.Context, caller entity.Caller, id string, in dto.ReceivablePaymentRequest) (*dto.ReceivableResponse, error) {
	return uc.pay(ctx, caller, in, false, func(tx repository.Repos) (*entity.Receivable, error) {
		return tx.Receivables.GetForUpdate(ctx, id)
	})
}

// PayBySalePayment paga la cuenta generada por (venta, pago). Amount cero liquida el saldo completo.
func (uc *ReceivableUseCase) PayBySalePayment(ctx context.Context, caller entity.Caller, saleID, paymentID string, in dto.ReceivablePaymentRequest) (*dto.ReceivableResponse, error) {
	return uc.pay(ctx, caller, in, true, func(tx repository.Repos) (*entity.Receivable, error) {
		r, err := tx.Receivables.GetBySalePayment(ctx, saleID, paymentID)
		if err != nil || r == nil {
			return r, err
		}
		return tx.Receivables.GetForUpdate(ctx, r.ID)
	})
}

func (uc *ReceivableUseCase) pay(
	ctx context.Context,
	caller entity.Caller,
	in dto.ReceivablePaymentRequest,
	fullBalance bool,
	load func(tx repository.Repos) (*entity.Receivable, error),
) (*dto.ReceivableResponse, error) {
	now := uc.now()
	var r *entity.Receivable
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		if r, err = load(tx); err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if !caller.CanAccess(r.CompanyID) {
			return domain.ErrForbidden
		}
		r.CheckOverdue(now)
		if fullBalance && in.Amount.IsZero() {
			in.Amount = r.CurrentAmount
		}
		if err := r.AddPayment(entity.ReceivablePayment{
			ID:                uuid.New().String(),
			Amount:            in.Amount,
			Method:            in.Method,
			UserID:            caller.UserID,
			Notes:             in.Notes,
			InstallmentNumber: in.Installment,
		}, now); err != nil {
			return err
		}
		if err := tx.Receivables.Update(ctx, r); err != nil {
			return err
		}
		if r.Status != entity.ReceivablePaid {
			return nil
		}
		sale, err := tx.Sales.GetForUpdate(ctx, r.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %s de la cuenta %s: %w", r.SaleID, r.ID, domain.ErrNotFound)
		}
		if err := sale.MarkPaymentPaid(r.PaymentID, now); err != nil {
			return err
		}
		return tx.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", r.CompanyID).
		Str("receivable_id", r.ID).
		Str("amount", in.Amount.StringFixed(2)).
		Str("balance", r.CurrentAmount.StringFixed(2)).
		Str("status", string(r.Status)).
		Msg("pago de cuenta por cobrar")
	return dto.NewReceivableResponse(r), nil
}

// Cancel cancela la cuenta. Falla con ErrReceivablePaid si ya fue pagada.
func (uc *ReceivableUseCase) Cancel(ctx context.Context, caller entity.Caller, id, reason string) (*dto.ReceivableResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "el motivo es obligatorio")
	}
	now := uc.now()
	var r *entity.Receivable
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		if r, err = tx.Receivables.GetForUpdate(ctx, id); err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if !caller.CanAccess(r.CompanyID) {
			return domain.ErrForbidden
		}
		if err := r.Cancel(reason, now); err != nil {
			return err
		}
		return tx.Receivables.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewReceivableResponse(r), nil
}

// MarkOverdue barrido de todas las empresas (worker). Devuelve cuántas cuentas cambiaron.
func (uc *ReceivableUseCase) MarkOverdue(ctx context.Context) (int, error) {
	n, err := uc.sweep(ctx, "", uc.now())
	if err != nil {
		return n, err
	}
	if n > 0 {
		uc.log.Info().Int("updated", n).Msg("cuentas por cobrar vencidas marcadas")
	}
	return n, nil
}

// sweep marca overdue las cuentas con cuotas vencidas, por lotes, cada lote en su transacción.
func (uc *ReceivableUseCase) sweep(ctx context.Context, companyID string, now time.Time) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		changed := 0
		err := uc.tx.Run(ctx, func(tx repository.Repos) error {
			list, err := tx.Receivables.ListOpenDue(ctx, companyID, now, sweepBatch)
			if err != nil {
				return err
			}
			for _, r := range list {
				if !r.CheckOverdue(now) {
					continue
				}
				if err := tx.Receivables.Update(ctx, r); err != nil {
					return err
				}
				changed++
			}
			return nil
		})
		if err != nil {
			return total, err
		}
		total += changed
		if changed < sweepBatch {
			return total, nil
		}
	}
}

// refresh evaluación perezosa del vencimiento de una sola cuenta.
func (uc *ReceivableUseCase) refresh(ctx context.Context, r *entity.Receivable) error {
	if !r.CheckOverdue(uc.now()) {
		return nil
	}
	return uc.repos.Receivables.Update(ctx, r)
}
