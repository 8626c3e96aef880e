package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
	SaleCancelled SaleStatus = "cancelled"
)

var saleTransitions = transitions[SaleStatus]{
	SalePending:   {SaleCompleted, SaleCancelled},
	SaleCompleted: {SaleCancelled},
}

// Formas de pago. Las inmediatas quedan pagas en el acto; las diferidas generan una cuenta por cobrar.
const (
	PaymentCash       = "dinheiro"
	PaymentDebit      = "debito"
	PaymentCredit     = "credito"
	PaymentPix        = "pix"
	PaymentBoleto     = "boleto"
	PaymentPromissory = "promissoria"
	PaymentCrediario  = "crediario"
)

// Estados de un pago de venta.
const (
	PaymentPaid      = "paid"
	PaymentPending   = "pending"
	PaymentCancelled = "cancelled"
)

// IsImmediateMethod indica si la forma de pago se liquida en el acto.
func IsImmediateMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentPix:
		return true
	}
	return false
}

// IsDeferredMethod indica si la forma de pago genera cuenta por cobrar.
func IsDeferredMethod(m string) bool {
	switch m {
	case PaymentBoleto, PaymentPromissory, PaymentCrediario:
		return true
	}
	return false
}

// SaleItem línea de venta con snapshot del producto.
type SaleItem struct {
	ProductID   string
	Description string
	Unit        string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	Total       decimal.Decimal
}

// SalePayment pago registrado en la venta.
type SalePayment struct {
	ID           string
	Method       string
	Amount       decimal.Decimal
	Status       string
	Installments int
	DueDate      *time.Time
	PaidAt       *time.Time
}

// Sale venta (cabecera + líneas + pagos).
// Invariantes: Σ items.Total = Subtotal; Subtotal − Discount = Total; Σ payments ≥ Total; Change = Σ − Total.
type Sale struct {
	ID             string
	CompanyID      string
	CustomerID     string
	UserID         string
	CashRegisterID string
	SaleNumber     string
	Items          []SaleItem
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	Payments       []SalePayment
	AmountPaid     decimal.Decimal
	Change         decimal.Decimal
	Status         SaleStatus
	Notes          string
	CancelledAt    *time.Time
	CancelledBy    string
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Totalize calcula subtotal, total, monto pagado y vuelto. Valida descuento y suficiencia de pagos.
func (s *Sale) Totalize() error {
	subtotal := decimal.Zero
	for i := range s.Items {
		it := &s.Items[i]
		it.Total = it.UnitPrice.Mul(it.Quantity).Round(2)
		subtotal = subtotal.Add(it.Total)
	}
	s.Subtotal = subtotal
	if s.Discount.IsNegative() || s.Discount.GreaterThan(subtotal) {
		return domain.NewValidationError("discount", "el descuento debe estar entre 0 y el subtotal")
	}
	s.Total = subtotal.Sub(s.Discount)

	paid, deferred := decimal.Zero, decimal.Zero
	for _, p := range s.Payments {
		paid = paid.Add(p.Amount)
		if IsDeferredMethod(p.Method) {
			deferred = deferred.Add(p.Amount)
		}
	}
	s.AmountPaid = paid
	if paid.LessThan(s.Total) {
		return fmt.Errorf("total %s, pagado %s: %w", s.Total.StringFixed(2), paid.StringFixed(2), domain.ErrInsufficientPayment)
	}
	// El vuelto sale del dinero recibido en el acto: lo diferido cubre a lo sumo el saldo restante.
	if deferred.IsPositive() && paid.GreaterThan(s.Total) {
		remaining := decimal.Max(decimal.Zero, s.Total.Sub(paid.Sub(deferred)))
		return domain.NewValidationError("payments", "los pagos a plazo no pueden superar el saldo pendiente de "+remaining.StringFixed(2))
	}
	s.Change = paid.Sub(s.Total)
	return nil
}

// HasPendingPayments indica si queda algún pago diferido sin liquidar.
func (s *Sale) HasPendingPayments() bool {
	for _, p := range s.Payments {
		if p.Status == PaymentPending {
			return true
		}
	}
	return false
}

// Payment busca un pago por ID.
func (s *Sale) Payment(id string) *SalePayment {
	for i := range s.Payments {
		if s.Payments[i].ID == id {
			return &s.Payments[i]
		}
	}
	return nil
}

// MarkPaymentPaid marca un pago diferido como liquidado.
func (s *Sale) MarkPaymentPaid(paymentID string, now time.Time) error {
	p := s.Payment(paymentID)
	if p == nil {
		return domain.ErrNotFound
	}
	if s.Status == SaleCancelled {
		return domain.ErrAlreadyCancelled
	}
	p.Status = PaymentPaid
	p.PaidAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel cancela la venta (terminal). Cancelar dos veces devuelve ErrAlreadyCancelled.
func (s *Sale) Cancel(userID, reason string, now time.Time) error {
	if s.Status == SaleCancelled {
		return domain.ErrAlreadyCancelled
	}
	if err := saleTransitions.check("sale", s.Status, SaleCancelled); err != nil {
		return err
	}
	s.Status = SaleCancelled
	s.CancelledAt = &now
	s.CancelledBy = userID
	s.CancelReason = reason
	for i := range s.Payments {
		if s.Payments[i].Status == PaymentPending {
			s.Payments[i].Status = PaymentCancelled
		}
	}
	s.UpdatedAt = now
	return nil
}
