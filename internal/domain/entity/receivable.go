package entity

import (
	"time"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ReceivableStatus estado de una cuenta por cobrar.
type ReceivableStatus string

const (
	ReceivablePending   ReceivableStatus = "pending"
	ReceivablePaid      ReceivableStatus = "paid"
	ReceivableOverdue   ReceivableStatus = "overdue"
	ReceivableCancelled ReceivableStatus = "cancelled"
)

var receivableTransitions = transitions[ReceivableStatus]{
	ReceivablePending: {ReceivablePaid, ReceivableOverdue, ReceivableCancelled},
	ReceivableOverdue: {ReceivablePaid, ReceivablePending, ReceivableCancelled},
}

// Estados de una cuota.
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
	InstallmentOverdue = "overdue"
)

// Installment cuota del cronograma. PaidAmount acumula pagos parciales asignados a la cuota.
type Installment struct {
	Number     int
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	DueDate    time.Time
	Status     string
	PaidAt     *time.Time
}

// Open saldo pendiente de la cuota.
func (i *Installment) Open() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// ReceivablePayment pago recibido (historial).
type ReceivablePayment struct {
	ID                string
	Amount            decimal.Decimal
	Method            string
	PaidAt            time.Time
	UserID            string
	Notes             string
	InstallmentNumber int // 0 = asignado a las cuotas más antiguas
}

// Receivable cuenta por cobrar generada por un pago diferido de una venta (una por SaleID+PaymentID).
// CurrentAmount = max(0, OriginalAmount − Σ payments). Toda cuenta tiene al menos una cuota.
type Receivable struct {
	ID             string
	CompanyID      string
	SaleID         string
	PaymentID      string
	CustomerID     string
	SaleNumber     string
	Method         string
	OriginalAmount decimal.Decimal
	CurrentAmount  decimal.Decimal
	DueDate        time.Time // vencimiento final (última cuota)
	Status         ReceivableStatus
	Installments   []Installment
	Payments       []ReceivablePayment
	PaidAt         *time.Time
	CancelledAt    *time.Time
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BuildInstallments divide amount en n cuotas mensuales desde firstDue.
// Cada cuota se trunca a centavos; la diferencia de redondeo va a la última.
func BuildInstallments(amount decimal.Decimal, n int, firstDue time.Time) []Installment {
	if n < 1 {
		n = 1
	}
	base := amount.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	out := make([]Installment, n)
	acc := decimal.Zero
	for i := 0; i < n; i++ {
		amt := base
		if i == n-1 {
			amt = amount.Sub(acc)
		}
		acc = acc.Add(amt)
		out[i] = Installment{
			Number:     i + 1,
			Amount:     amt,
			PaidAmount: decimal.Zero,
			DueDate:    firstDue.AddDate(0, i, 0),
			Status:     InstallmentPending,
		}
	}
	return out
}

// NewReceivable construye la cuenta por cobrar de un pago diferido.
func NewReceivable(id string, sale *Sale, payment *SalePayment, now time.Time) *Receivable {
	due := now.AddDate(0, 1, 0)
	if payment.DueDate != nil {
		due = *payment.DueDate
	}
	inst := BuildInstallments(payment.Amount, payment.Installments, due)
	return &Receivable{
		ID:             id,
		CompanyID:      sale.CompanyID,
		SaleID:         sale.ID,
		PaymentID:      payment.ID,
		CustomerID:     sale.CustomerID,
		SaleNumber:     sale.SaleNumber,
		Method:         payment.Method,
		OriginalAmount: payment.Amount,
		CurrentAmount:  payment.Amount,
		DueDate:        inst[len(inst)-1].DueDate,
		Status:         ReceivablePending,
		Installments:   inst,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsOpen indica si todavía admite pagos.
func (r *Receivable) IsOpen() bool {
	return r.Status == ReceivablePending || r.Status == ReceivableOverdue
}

// Installment devuelve la cuota por número.
func (r *Receivable) Installment(number int) *Installment {
	for i := range r.Installments {
		if r.Installments[i].Number == number {
			return &r.Installments[i]
		}
	}
	return nil
}

// AddPayment registra un pago: CurrentAmount = max(0, actual − amount) y pasa a paid al llegar a 0.
// El monto se asigna primero a installmentNumber (si > 0) y luego a las cuotas abiertas más antiguas.
func (r *Receivable) AddPayment(p ReceivablePayment, now time.Time) error {
	if !p.Amount.IsPositive() {
		return domain.NewValidationError("amount", "debe ser mayor que cero")
	}
	switch r.Status {
	case ReceivableCancelled:
		return domain.ErrAlreadyCancelled
	case ReceivablePaid:
		return domain.ErrReceivablePaid
	}
	if p.InstallmentNumber > 0 {
		inst := r.Installment(p.InstallmentNumber)
		if inst == nil {
			return domain.NewValidationError("installment", "cuota inexistente")
		}
		if inst.Status == InstallmentPaid {
			return domain.ErrReceivablePaid
		}
	}
	p.PaidAt = now
	r.Payments = append(r.Payments, p)

	r.CurrentAmount = r.CurrentAmount.Sub(p.Amount)
	if r.CurrentAmount.IsNegative() {
		r.CurrentAmount = decimal.Zero
	}
	r.allocate(p.Amount, p.InstallmentNumber, now)
	r.UpdatedAt = now

	if r.CurrentAmount.IsZero() {
		for i := range r.Installments {
			r.settle(&r.Installments[i], now)
		}
		r.PaidAt = &now
		return r.setStatus(ReceivablePaid)
	}
	return r.setStatus(r.derivedStatus(now))
}

func (r *Receivable) allocate(amount decimal.Decimal, first int, now time.Time) {
	remaining := amount
	apply := func(inst *Installment) {
		if !remaining.IsPositive() || inst.Status == InstallmentPaid {
			return
		}
		take := decimal.Min(remaining, inst.Open())
		inst.PaidAmount = inst.PaidAmount.Add(take)
		remaining = remaining.Sub(take)
		if !inst.Open().IsPositive() {
			r.settle(inst, now)
		}
	}
	if first > 0 {
		if inst := r.Installment(first); inst != nil {
			apply(inst)
		}
	}
	for i := range r.Installments {
		apply(&r.Installments[i])
	}
}

func (r *Receivable) settle(inst *Installment, now time.Time) {
	if inst.Status == InstallmentPaid {
		return
	}
	inst.PaidAmount = inst.Amount
	inst.Status = InstallmentPaid
	inst.PaidAt = &now
}

// CheckOverdue evaluación perezosa de vencimiento. Devuelve true si cambió algún estado.
// La cuenta está overdue si alguna cuota abierta venció; vuelve a pending si ya no queda ninguna vencida.
func (r *Receivable) CheckOverdue(now time.Time) bool {
	if !r.IsOpen() {
		return false
	}
	before := r.Status
	changed := false
	for i := range r.Installments {
		inst := &r.Installments[i]
		if inst.Status == InstallmentPending && now.After(inst.DueDate) {
			inst.Status = InstallmentOverdue
			changed = true
		}
	}
	next := r.derivedStatus(now)
	if next != before {
		_ = r.setStatus(next)
		changed = true
	}
	if changed {
		r.UpdatedAt = now
	}
	return changed
}

func (r *Receivable) derivedStatus(now time.Time) ReceivableStatus {
	for _, inst := range r.Installments {
		if inst.Status != InstallmentPaid && now.After(inst.DueDate) {
			return ReceivableOverdue
		}
	}
	if len(r.Installments) == 0 && now.After(r.DueDate) {
		return ReceivableOverdue
	}
	return ReceivablePending
}

func (r *Receivable) setStatus(to ReceivableStatus) error {
	if r.Status == to {
		return nil
	}
	if err := receivableTransitions.check("receivable", r.Status, to); err != nil {
		return err
	}
	r.Status = to
	return nil
}

// Cancel cancela la cuenta. No se permite sobre una cuenta pagada.
func (r *Receivable) Cancel(reason string, now time.Time) error {
	switch r.Status {
	case ReceivablePaid:
		return domain.ErrReceivablePaid
	case ReceivableCancelled:
		return domain.ErrAlreadyCancelled
	}
	if err := r.setStatus(ReceivableCancelled); err != nil {
		return err
	}
	r.CancelledAt = &now
	r.CancelReason = reason
	r.UpdatedAt = now
	return nil
}
