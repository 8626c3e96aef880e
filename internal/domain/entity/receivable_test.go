package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newReceivable(amount string, installments int) *entity.Receivable {
	sale := &entity.Sale{ID: "s1", CompanyID: "c1", CustomerID: "cu1", SaleNumber: "VND-000001"}
	pay := &entity.SalePayment{ID: "pay1", Method: entity.PaymentCrediario, Amount: d(amount), Installments: installments}
	return entity.NewReceivable("r1", sale, pay, t0)
}

func TestBuildInstallments_RemainderGoesToLast(t *testing.T) {
	inst := entity.BuildInstallments(d("100"), 3, t0)
	require.Len(t, inst, 3)
	assert.Equal(t, "33.33", inst[0].Amount.StringFixed(2))
	assert.Equal(t, "33.33", inst[1].Amount.StringFixed(2))
	assert.Equal(t, "33.34", inst[2].Amount.StringFixed(2))
	assert.Equal(t, t0.AddDate(0, 2, 0), inst[2].DueDate)
	assert.Equal(t, 1, inst[0].Number)
}

func TestNewReceivable_DefaultsDueDateToOneMonth(t *testing.T) {
	r := newReceivable("100", 0)
	assert.Equal(t, entity.ReceivablePending, r.Status)
	assert.True(t, r.OriginalAmount.Equal(d("100")))
	assert.True(t, r.CurrentAmount.Equal(d("100")))
	require.Len(t, r.Installments, 1)
	assert.Equal(t, t0.AddDate(0, 1, 0), r.DueDate)
}

func TestReceivable_AddPayment_ClampsAndFlipsToPaid(t *testing.T) {
	r := newReceivable("100", 1)

	require.NoError(t, r.AddPayment(entity.ReceivablePayment{ID: "a", Amount: d("40"), Method: entity.PaymentCash}, t0))
	assert.True(t, r.CurrentAmount.Equal(d("60")))
	assert.Equal(t, entity.ReceivablePending, r.Status)

	require.NoError(t, r.AddPayment(entity.ReceivablePayment{ID: "b", Amount: d("75"), Method: entity.PaymentPix}, t0))
	assert.True(t, r.CurrentAmount.IsZero())
	assert.Equal(t, entity.ReceivablePaid, r.Status)
	assert.NotNil(t, r.PaidAt)
	assert.Len(t, r.Payments, 2)
	assert.Equal(t, entity.InstallmentPaid, r.Installments[0].Status)

	assert.ErrorIs(t, r.AddPayment(entity.ReceivablePayment{Amount: d("1")}, t0), domain.ErrReceivablePaid)
}

func TestReceivable_AddPayment_RejectsNonPositive(t *testing.T) {
	r := newReceivable("100", 1)
	assert.ErrorIs(t, r.AddPayment(entity.ReceivablePayment{Amount: d("0")}, t0), domain.ErrInvalidInput)
}

func TestReceivable_InstallmentsDriveAggregateStatus(t *testing.T) {
	r := newReceivable("300", 3)
	late := t0.AddDate(0, 1, 2)

	assert.True(t, r.CheckOverdue(late))
	assert.Equal(t, entity.ReceivableOverdue, r.Status)
	assert.Equal(t, entity.InstallmentOverdue, r.Installments[0].Status)
	assert.Equal(t, entity.InstallmentPending, r.Installments[1].Status)

	// Pagar la cuota vencida devuelve la cuenta a pending.
	require.NoError(t, r.AddPayment(entity.ReceivablePayment{Amount: d("100"), InstallmentNumber: 1}, late))
	assert.Equal(t, entity.ReceivablePending, r.Status)
	assert.Equal(t, entity.InstallmentPaid, r.Installments[0].Status)

	require.NoError(t, r.AddPayment(entity.ReceivablePayment{Amount: d("200")}, late))
	assert.Equal(t, entity.ReceivablePaid, r.Status)
	for _, inst := range r.Installments {
		assert.Equal(t, entity.InstallmentPaid, inst.Status)
	}
}

func TestReceivable_CheckOverdue_NoChangeBeforeDue(t *testing.T) {
	r := newReceivable("100", 1)
	assert.False(t, r.CheckOverdue(t0.AddDate(0, 0, 10)))
	assert.Equal(t, entity.ReceivablePending, r.Status)
}

func TestReceivable_Cancel_Guarded(t *testing.T) {
	paid := newReceivable("10", 1)
	require.NoError(t, paid.AddPayment(entity.ReceivablePayment{Amount: d("10")}, t0))
	assert.ErrorIs(t, paid.Cancel("erro", t0), domain.ErrReceivablePaid)

	open := newReceivable("10", 1)
	require.NoError(t, open.Cancel("venda cancelada", t0))
	assert.Equal(t, entity.ReceivableCancelled, open.Status)
	assert.ErrorIs(t, open.Cancel("de novo", t0), domain.ErrAlreadyCancelled)
	assert.ErrorIs(t, open.AddPayment(entity.ReceivablePayment{Amount: d("1")}, t0), domain.ErrAlreadyCancelled)
}
