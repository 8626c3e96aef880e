package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

func TestCompany_StatusTransitions(t *testing.T) {
	now := time.Now()
	c := &entity.Company{Status: entity.CompanyPending}

	require.NoError(t, c.ChangeStatus(entity.CompanyApproved, "admin", "", now))
	assert.True(t, c.IsApproved())
	assert.Equal(t, "admin", c.ApprovedBy)

	assert.ErrorIs(t, c.ChangeStatus(entity.CompanyRejected, "admin", "", now), domain.ErrInvalidTransition)
	require.NoError(t, c.ChangeStatus(entity.CompanyInactive, "admin", "falta de pago", now))
	assert.Equal(t, "falta de pago", c.StatusReason)
	require.NoError(t, c.ChangeStatus(entity.CompanyApproved, "admin", "", now))
}

func TestEntry_CompleteThenCancel(t *testing.T) {
	now := time.Now()
	e := &entity.Entry{Status: entity.EntryPending}
	assert.True(t, e.IsEditable())
	require.NoError(t, e.Complete("u1", now))
	assert.True(t, e.StockApplied())
	assert.False(t, e.IsEditable())
	assert.ErrorIs(t, e.Complete("u1", now), domain.ErrInvalidTransition)

	require.NoError(t, e.Cancel("u1", "nota errada", now))
	assert.ErrorIs(t, e.Cancel("u1", "x", now), domain.ErrAlreadyCancelled)
	assert.ErrorIs(t, e.Complete("u1", now), domain.ErrAlreadyCancelled)
}

func TestCashRegister_CloseComputesDifference(t *testing.T) {
	now := time.Now()
	cr := &entity.CashRegister{Status: entity.RegisterOpen, OpeningBalance: d("100")}
	s := &entity.Sale{
		Total:  d("100"),
		Change: d("10"),
		Payments: []entity.SalePayment{
			{Method: entity.PaymentCash, Amount: d("60")},
			{Method: entity.PaymentPix, Amount: d("50")},
		},
	}
	cr.ApplySale(s, 1)
	assert.Equal(t, 1, cr.SalesCount)
	assert.True(t, cr.TotalCash.Equal(d("60")))
	assert.True(t, cr.TotalOther.Equal(d("50")))

	require.NoError(t, cr.Close(d("148"), "", now))
	assert.True(t, cr.ExpectedBalance.Equal(d("150")))
	assert.True(t, cr.Difference.Equal(d("-2")))
	assert.ErrorIs(t, cr.Close(d("1"), "", now), domain.ErrNoOpenRegister)
}

func TestPermissions_DerivedFromRole(t *testing.T) {
	u := &entity.User{Role: entity.RoleEmployee}
	assert.True(t, u.Can(entity.PermSell))
	assert.False(t, u.Can(entity.PermCancelSales))

	u.Role = entity.RoleOwner
	assert.True(t, u.Can(entity.PermCancelSales))
	assert.False(t, u.Can(entity.PermManageCompanies))

	assert.ElementsMatch(t, entity.PermissionsFor(entity.RoleAdmin), (&entity.User{Role: entity.RoleAdmin}).Permissions())
	assert.Empty(t, entity.PermissionsFor("intruso"))
}

func TestCaller_CanAccess(t *testing.T) {
	c := entity.Caller{CompanyID: "A", Role: entity.RoleOwner}
	assert.True(t, c.CanAccess("A"))
	assert.False(t, c.CanAccess("B"))

	admin := entity.Caller{CompanyID: "platform", Role: entity.RoleAdmin}
	assert.True(t, admin.CanAccess("B"))
}
