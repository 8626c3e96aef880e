package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"
	MovementTypeOut = "out"
)

// Motivos de movimiento de stock.
const (
	ReasonSale         = "sale"
	ReasonSaleCancel   = "sale_cancel"
	ReasonEntry        = "entry"
	ReasonEntryCancel  = "entry_cancel"
	ReasonManualAdd    = "manual_add"
	ReasonManualRemove = "manual_remove"
)

// StockMovement historial del libro de stock: una fila por cada mutación de Product.Quantity.
type StockMovement struct {
	ID           string
	CompanyID    string
	ProductID    string
	Type         string          // in, out
	Reason       string          // sale, entry, manual_add, ...
	Quantity     decimal.Decimal // siempre positivo; el signo lo da Type
	BalanceAfter decimal.Decimal
	UnitCost     decimal.Decimal
	Reference    string // ID de venta/entrada cuando aplica
	Notes        string
	CreatedBy    string // UserID
	CreatedAt    time.Time
}
