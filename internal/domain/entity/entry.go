package entity

import (
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/shopspring/decimal"
)

// EntryStatus estado de una entrada de mercadería.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryCompleted EntryStatus = "completed"
	EntryCancelled EntryStatus = "cancelled"
)

var entryTransitions = transitions[EntryStatus]{
	EntryPending:   {EntryCompleted, EntryCancelled},
	EntryCompleted: {EntryCancelled},
}

// Supplier datos del proveedor informados en la nota fiscal.
type Supplier struct {
	Name     string
	Document string
	Phone    string
}

// EntryItem línea de la entrada.
type EntryItem struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Total       decimal.Decimal
}

// Entry entrada de stock (compra a proveedor). El stock se aplica una sola vez, en Complete.
type Entry struct {
	ID             string
	CompanyID      string
	UserID         string
	EntryNumber    string
	FiscalDocument string
	Supplier       Supplier
	InvoiceValue   decimal.Decimal
	Items          []EntryItem
	TotalCost      decimal.Decimal
	Status         EntryStatus
	Notes          string
	CompletedAt    *time.Time
	CompletedBy    string
	CancelledAt    *time.Time
	CancelledBy    string
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Totalize recalcula los totales por línea y el costo total.
func (e *Entry) Totalize() {
	total := decimal.Zero
	for i := range e.Items {
		it := &e.Items[i]
		it.Total = it.UnitCost.Mul(it.Quantity).Round(2)
		total = total.Add(it.Total)
	}
	e.TotalCost = total
}

// StockApplied indica si los ítems ya sumaron stock.
func (e *Entry) StockApplied() bool { return e.Status == EntryCompleted }

// IsEditable solo las entradas pendientes admiten cambios.
func (e *Entry) IsEditable() bool { return e.Status == EntryPending }

// Complete marca la entrada como completada. El caller aplica el stock en la misma transacción.
func (e *Entry) Complete(userID string, now time.Time) error {
	if e.Status == EntryCancelled {
		return domain.ErrAlreadyCancelled
	}
	if err := entryTransitions.check("entry", e.Status, EntryCompleted); err != nil {
		return err
	}
	e.Status = EntryCompleted
	e.CompletedAt = &now
	e.CompletedBy = userID
	e.UpdatedAt = now
	return nil
}

// Cancel marca la entrada como cancelada. Si estaba completada el caller revierte el stock.
func (e *Entry) Cancel(userID, reason string, now time.Time) error {
	if e.Status == EntryCancelled {
		return domain.ErrAlreadyCancelled
	}
	if err := entryTransitions.check("entry", e.Status, EntryCancelled); err != nil {
		return err
	}
	e.Status = EntryCancelled
	e.CancelledAt = &now
	e.CancelledBy = userID
	e.CancelReason = reason
	e.UpdatedAt = now
	return nil
}
