package cashier_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	store  *memory.Store
	uc     *cashier.CashRegisterUseCase
	sales  *sales.SaleUseCase
	tenant *tu.Tenant
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	tx := memory.NewTxRunner(s)
	return &env{
		store:  s,
		uc:     cashier.NewCashRegisterUseCase(tx, s.Repos(), zerolog.Nop()).WithClock(tu.Clock),
		sales:  sales.NewSaleUseCase(tx, s.Repos(), inventory.NewStockLedger(), nil, zerolog.Nop()).WithClock(tu.Clock),
		tenant: tu.NewTenant(t, s),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura y cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_OnlyOnePerUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reg, err := e.uc.Open(ctx, e.tenant.Employee, dto.OpenCashRegisterRequest{OpeningBalance: tu.D("100")})
	require.NoError(t, err)
	assert.Equal(t, "open", reg.Status)

	_, err = e.uc.Open(ctx, e.tenant.Employee, dto.OpenCashRegisterRequest{})
	assert.ErrorIs(t, err, domain.ErrRegisterAlreadyOpen)

	// otro usuario de la misma empresa puede abrir la suya
	_, err = e.uc.Open(ctx, e.tenant.Owner, dto.OpenCashRegisterRequest{})
	assert.NoError(t, err)
}

func TestOpen_NegativeBalance(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Open(context.Background(), e.tenant.Employee, dto.OpenCashRegisterRequest{OpeningBalance: tu.D("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClose_ReconcilesCash(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cust := e.tenant.Customer(t, e.store, "Ana")
	prod := e.tenant.Product(t, e.store, "Feijão 1kg", "50", "0", "8.00")

	_, err := e.uc.Open(ctx, e.tenant.Employee, dto.OpenCashRegisterRequest{OpeningBalance: tu.D("100")})
	require.NoError(t, err)

	// 3 x 8 = 24, paga 30 en efectivo: cambio 6
	_, err = e.sales.Create(ctx, e.tenant.Employee, dto.CreateSaleRequest{
		CustomerID: cust.ID,
		Items:      []dto.SaleItemRequest{{ProductID: prod.ID, Quantity: tu.D("3")}},
		Payments:   []dto.SalePaymentRequest{{Method: entity.PaymentCash, Amount: tu.D("30")}},
	})
	require.NoError(t, err)
	_, err = e.sales.Create(ctx, e.tenant.Employee, dto.CreateSaleRequest{
		CustomerID: cust.ID,
		Items:      []dto.SaleItemRequest{{ProductID: prod.ID, Quantity: tu.D("2")}},
		Payments:   []dto.SalePaymentRequest{{Method: entity.PaymentDebit, Amount: tu.D("16")}},
	})
	require.NoError(t, err)

	cur, err := e.uc.Current(ctx, e.tenant.Employee)
	require.NoError(t, err)
	assert.Equal(t, 2, cur.SalesCount)
	assert.Equal(t, "40.00", cur.TotalSales.StringFixed(2))
	assert.Equal(t, "16.00", cur.TotalCard.StringFixed(2))

	closed, err := e.uc.Close(ctx, e.tenant.Employee, dto.CloseCashRegisterRequest{ClosingBalance: tu.D("120"), Notes: "faltou troco"})
	require.NoError(t, err)
	assert.Equal(t, "closed", closed.Status)
	assert.Equal(t, "124.00", closed.ExpectedBalance.StringFixed(2))
	assert.Equal(t, "-4.00", closed.Difference.StringFixed(2))
	require.NotNil(t, closed.ClosedAt)

	_, err = e.uc.Current(ctx, e.tenant.Employee)
	assert.ErrorIs(t, err, domain.ErrNoOpenRegister)
	_, err = e.uc.Close(ctx, e.tenant.Employee, dto.CloseCashRegisterRequest{})
	assert.ErrorIs(t, err, domain.ErrNoOpenRegister)

	// tras cerrar se puede volver a abrir
	_, err = e.uc.WithClock(func() time.Time { return tu.Now.Add(time.Hour) }).
		Open(ctx, e.tenant.Employee, dto.OpenCashRegisterRequest{})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestList_EmployeeSeesOnlyOwnSessions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.uc.Open(ctx, e.tenant.Employee, dto.OpenCashRegisterRequest{})
	require.NoError(t, err)
	_, err = e.uc.Open(ctx, e.tenant.Owner, dto.OpenCashRegisterRequest{})
	require.NoError(t, err)

	mine, err := e.uc.List(ctx, e.tenant.Employee, e.tenant.Company.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, e.tenant.Employee.UserID, mine.Items[0].UserID)

	all, err := e.uc.List(ctx, e.tenant.Owner, e.tenant.Company.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 20, all.Page.Limit)

	other := tu.NewTenant(t, e.store)
	_, err = e.uc.List(ctx, other.Owner, e.tenant.Company.ID, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
