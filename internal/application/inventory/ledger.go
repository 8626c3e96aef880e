package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	costing "github.com/jhoicas/pdv-api/internal/domain/inventory"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// Movement una mutación del stock embebido en Product.
type Movement struct {
	CompanyID string
	ProductID string
	Reason    string // entity.Reason*
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal // entradas y su cancelación: recalcula el costo promedio
	Reference string
	Notes     string
	UserID    string
}

// StockLedger único punto de escritura de Product.Quantity.
// Bloquea la fila del producto, aplica la regla de la entidad, persiste y deja el historial.
// Siempre se usa con los repositorios de una transacción abierta por el caller.
type StockLedger struct{}

// NewStockLedger construye el ledger.
func NewStockLedger() *StockLedger { return &StockLedger{} }

// Apply ejecuta el movimiento dentro de tx y devuelve el producto actualizado.
func (l *StockLedger) Apply(ctx context.Context, tx repository.Repos, m Movement, now time.Time) (*entity.Product, error) {
	if !m.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	p, err := tx.Products.GetForUpdate(ctx, m.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", m.ProductID, domain.ErrNotFound)
	}
	if p.CompanyID != m.CompanyID {
		return nil, domain.ErrForbidden
	}
	reverting := m.Reason == entity.ReasonSaleCancel || m.Reason == entity.ReasonEntryCancel
	if p.IsDeleted() && !reverting {
		return nil, fmt.Errorf("producto %s eliminado: %w", m.ProductID, domain.ErrNotFound)
	}
	if !reverting && !entity.ValidQuantity(p.Unit, m.Quantity) {
		return nil, domain.NewValidationError("quantity", "cantidad inválida para la unidad "+p.Unit)
	}

	var typ string
	switch m.Reason {
	case entity.ReasonSale:
		typ, err = entity.MovementTypeOut, p.RecordSale(m.Quantity)
	case entity.ReasonSaleCancel:
		typ, err = entity.MovementTypeIn, p.RevertSale(m.Quantity)
	case entity.ReasonEntry:
		p.CostPrice = costing.AverageCost(p.Quantity, p.CostPrice, m.Quantity, m.UnitCost)
		typ, err = entity.MovementTypeIn, p.AddStock(m.Quantity)
	case entity.ReasonEntryCancel:
		cost := costing.ReverseAverageCost(p.Quantity, p.CostPrice, m.Quantity, m.UnitCost)
		if typ, err = entity.MovementTypeOut, p.RevertEntry(m.Quantity); err == nil {
			p.CostPrice = cost
		}
	case entity.ReasonManualAdd:
		typ, err = entity.MovementTypeIn, p.AddStock(m.Quantity)
	case entity.ReasonManualRemove:
		typ, err = entity.MovementTypeOut, p.RemoveStock(m.Quantity)
	default:
		return nil, domain.NewValidationError("reason", "motivo de movimiento desconocido")
	}
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = now
	if err := tx.Products.UpdateStock(ctx, p); err != nil {
		return nil, err
	}

	unitCost := m.UnitCost
	if m.Reason != entity.ReasonEntry && m.Reason != entity.ReasonEntryCancel {
		unitCost = p.CostPrice
	}
	mov := &entity.StockMovement{
		ID:           uuid.New().String(),
		CompanyID:    p.CompanyID,
		ProductID:    p.ID,
		Type:         typ,
		Reason:       m.Reason,
		Quantity:     m.Quantity,
		BalanceAfter: p.Quantity,
		UnitCost:     unitCost,
		Reference:    m.Reference,
		Notes:        m.Notes,
		CreatedBy:    m.UserID,
		CreatedAt:    now,
	}
	if err := tx.StockMovements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return p, nil
}
