package entity

import (
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CashRegisterStatus estado de la sesión de caja.
type CashRegisterStatus string

const (
	RegisterOpen   CashRegisterStatus = "open"
	RegisterClosed CashRegisterStatus = "closed"
)

var registerTransitions = transitions[CashRegisterStatus]{
	RegisterOpen: {RegisterClosed},
}

// CashRegister sesión de caja de un usuario. Solo una abierta por (empresa, usuario).
// Al cerrar: ExpectedBalance = OpeningBalance + TotalCash − TotalChange; Difference = Closing − Expected.
type CashRegister struct {
	ID              string
	CompanyID       string
	UserID          string
	OpeningBalance  decimal.Decimal
	ClosingBalance  decimal.Decimal
	ExpectedBalance decimal.Decimal
	Difference      decimal.Decimal
	TotalSales      decimal.Decimal
	TotalCash       decimal.Decimal
	TotalCard       decimal.Decimal
	TotalOther      decimal.Decimal
	TotalChange     decimal.Decimal
	SalesCount      int
	Status          CashRegisterStatus
	Notes           string
	OpenedAt        time.Time
	ClosedAt        *time.Time
}

// IsOpen indica si la sesión sigue abierta.
func (c *CashRegister) IsOpen() bool { return c.Status == RegisterOpen }

// ApplySale suma (sign=1) o resta (sign=-1) una venta a los totales de la sesión.
func (c *CashRegister) ApplySale(s *Sale, sign int64) {
	k := decimal.NewFromInt(sign)
	c.TotalSales = c.TotalSales.Add(s.Total.Mul(k))
	c.TotalChange = c.TotalChange.Add(s.Change.Mul(k))
	for _, p := range s.Payments {
		amt := p.Amount.Mul(k)
		switch p.Method {
		case PaymentCash:
			c.TotalCash = c.TotalCash.Add(amt)
		case PaymentDebit, PaymentCredit:
			c.TotalCard = c.TotalCard.Add(amt)
		default:
			c.TotalOther = c.TotalOther.Add(amt)
		}
	}
	c.SalesCount += int(sign)
	if c.SalesCount < 0 {
		c.SalesCount = 0
	}
}

// Close cierra la sesión con el saldo declarado.
func (c *CashRegister) Close(declared decimal.Decimal, notes string, now time.Time) error {
	if c.Status == RegisterClosed {
		return domain.ErrNoOpenRegister
	}
	if err := registerTransitions.check("cash_register", c.Status, RegisterClosed); err != nil {
		return err
	}
	if declared.IsNegative() {
		return domain.NewValidationError("closing_balance", "no puede ser negativo")
	}
	c.ExpectedBalance = c.OpeningBalance.Add(c.TotalCash).Sub(c.TotalChange)
	c.ClosingBalance = declared
	c.Difference = declared.Sub(c.ExpectedBalance)
	c.Status = RegisterClosed
	c.Notes = notes
	c.ClosedAt = &now
	return nil
}
