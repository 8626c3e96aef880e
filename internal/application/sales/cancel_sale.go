package sales

import (
	"context"
	"strings"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// Cancel cancela una venta y revierte sus efectos en una transacción: stock y totalSold de cada
// producto, totales del cliente, cuentas por cobrar abiertas y totales de la caja si sigue abierta.
// Una segunda cancelación devuelve ErrAlreadyCancelled sin revertir nada.
func (uc *SaleUseCase) Cancel(ctx context.Context, caller entity.Caller, saleID string, in dto.CancelRequest) (*dto.SaleResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "el motivo es obligatorio")
	}
	now := uc.now()
	var sale *entity.Sale

	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		sale, err = tx.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !caller.CanAccess(sale.CompanyID) {
			return domain.ErrForbidden
		}
		if err := sale.Cancel(caller.UserID, reason, now); err != nil {
			return err
		}

		for _, it := range sale.Items {
			if _, err := uc.ledger.Apply(ctx, tx, inventory.Movement{
				CompanyID: sale.CompanyID,
				ProductID: it.ProductID,
				Reason:    entity.ReasonSaleCancel,
				Quantity:  it.Quantity,
				Reference: sale.ID,
				Notes:     reason,
				UserID:    caller.UserID,
			}, now); err != nil {
				return err
			}
		}

		customer, err := tx.Customers.GetForUpdate(ctx, sale.CustomerID)
		if err != nil {
			return err
		}
		if customer != nil {
			customer.RevertPurchase(sale.Total, now)
			if err := tx.Customers.UpdateTotals(ctx, customer); err != nil {
				return err
			}
		}

		receivables, err := tx.Receivables.List(ctx, repository.ReceivableFilter{CompanyID: sale.CompanyID, SaleID: sale.ID})
		if err != nil {
			return err
		}
		for _, r := range receivables {
			if !r.IsOpen() {
				continue
			}
			if err := r.Cancel("venta cancelada: "+reason, now); err != nil {
				return err
			}
			if err := tx.Receivables.Update(ctx, r); err != nil {
				return err
			}
		}

		if sale.CashRegisterID != "" {
			register, err := tx.CashRegisters.GetForUpdate(ctx, sale.CashRegisterID)
			if err != nil {
				return err
			}
			if register != nil && register.IsOpen() {
				register.ApplySale(sale, -1)
				if err := tx.CashRegisters.Update(ctx, register); err != nil {
					return err
				}
			}
		}
		return tx.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleCancelled()
	uc.log.Info().
		Str("company_id", sale.CompanyID).
		Str("sale_id", sale.ID).
		Str("sale_number", sale.SaleNumber).
		Str("cancelled_by", caller.UserID).
		Msg("venta cancelada")
	return dto.NewSaleResponse(sale), nil
}
