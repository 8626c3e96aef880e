package entity

import (
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Unidades de medida soportadas.
const (
	UnitUND = "UND"
	UnitKG  = "KG"
	UnitPCT = "PCT"
)

// ValidUnit indica si la unidad es conocida.
func ValidUnit(u string) bool {
	return u == UnitUND || u == UnitKG || u == UnitPCT
}

// ValidQuantity KG admite fracciones positivas; el resto exige enteros ≥ 1.
func ValidQuantity(unit string, q decimal.Decimal) bool {
	if !q.IsPositive() {
		return false
	}
	return unit == UnitKG || q.IsInteger()
}

// Product representa un producto de la empresa con su stock embebido.
// Quantity solo cambia vía AddStock / RemoveStock / RecordSale / RevertSale / RevertEntry;
// nunca queda negativo.
type Product struct {
	ID           string
	CompanyID    string
	Barcode      string // opcional, único por empresa cuando existe
	Description  string
	SearchKey    string // descripción normalizada (sin acentos, minúsculas)
	Brand        string
	Group        string
	Subgroup     string
	Unit         string
	Quantity     decimal.Decimal
	MinQuantity  decimal.Decimal
	CostPrice    decimal.Decimal // costo promedio ponderado
	SalePrice    decimal.Decimal
	Active       bool
	DeletedAt    *time.Time
	TotalSold    decimal.Decimal
	TotalEntries decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsDeleted indica soft delete.
func (p *Product) IsDeleted() bool { return p.DeletedAt != nil }

// SoftDelete marca el producto como eliminado.
func (p *Product) SoftDelete(now time.Time) {
	p.Active = false
	p.DeletedAt = &now
	p.UpdatedAt = now
}

// LowStock indica si el stock está en o bajo el punto de reposición.
func (p *Product) LowStock() bool {
	return p.Quantity.LessThanOrEqual(p.MinQuantity)
}

// CanSupply indica si hay stock para la cantidad pedida.
func (p *Product) CanSupply(qty decimal.Decimal) bool {
	return qty.LessThanOrEqual(p.Quantity)
}

// AddStock incrementa quantity y totalEntries.
func (p *Product) AddStock(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	p.Quantity = p.Quantity.Add(qty)
	p.TotalEntries = p.TotalEntries.Add(qty)
	return nil
}

// RemoveStock decrementa quantity; falla con StockError si no alcanza.
func (p *Product) RemoveStock(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if !p.CanSupply(qty) {
		return &domain.StockError{ProductID: p.ID, Description: p.Description, Requested: qty, Available: p.Quantity}
	}
	p.Quantity = p.Quantity.Sub(qty)
	return nil
}

// RecordSale descuenta stock e incrementa totalSold.
func (p *Product) RecordSale(qty decimal.Decimal) error {
	if err := p.RemoveStock(qty); err != nil {
		return err
	}
	p.TotalSold = p.TotalSold.Add(qty)
	return nil
}

// RevertSale devuelve al stock lo vendido y descuenta totalSold.
func (p *Product) RevertSale(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	p.Quantity = p.Quantity.Add(qty)
	p.TotalSold = p.TotalSold.Sub(qty)
	if p.TotalSold.IsNegative() {
		p.TotalSold = decimal.Zero
	}
	return nil
}

// RevertEntry retira del stock lo ingresado por una entrada cancelada.
func (p *Product) RevertEntry(qty decimal.Decimal) error {
	if err := p.RemoveStock(qty); err != nil {
		return err
	}
	p.TotalEntries = p.TotalEntries.Sub(qty)
	if p.TotalEntries.IsNegative() {
		p.TotalEntries = decimal.Zero
	}
	return nil
}
