package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address dirección postal brasileña.
type Address struct {
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string // UF
	ZipCode    string // CEP
}

// Customer representa un cliente de la empresa. Document es CPF (11) o CNPJ (14), único por empresa.
// TotalPurchases/TotalSpent se mueven con cada venta completada o cancelada.
type Customer struct {
	ID             string
	CompanyID      string
	Name           string
	Document       string
	Email          string
	Phone          string
	Address        Address
	Active         bool
	DeletedAt      *time.Time
	TotalPurchases int
	TotalSpent     decimal.Decimal
	LastPurchaseAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDeleted indica soft delete.
func (c *Customer) IsDeleted() bool { return c.DeletedAt != nil }

// SoftDelete marca el cliente como eliminado.
func (c *Customer) SoftDelete(now time.Time) {
	c.Active = false
	c.DeletedAt = &now
	c.UpdatedAt = now
}

// RecordPurchase suma una venta a los totales.
func (c *Customer) RecordPurchase(total decimal.Decimal, now time.Time) {
	c.TotalPurchases++
	c.TotalSpent = c.TotalSpent.Add(total)
	c.LastPurchaseAt = &now
	c.UpdatedAt = now
}

// RevertPurchase deshace RecordPurchase (cancelación de venta). Nunca deja totales negativos.
func (c *Customer) RevertPurchase(total decimal.Decimal, now time.Time) {
	if c.TotalPurchases > 0 {
		c.TotalPurchases--
	}
	c.TotalSpent = c.TotalSpent.Sub(total)
	if c.TotalSpent.IsNegative() {
		c.TotalSpent = decimal.Zero
	}
	c.UpdatedAt = now
}
