package purchasing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/purchasing"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
)

func setup(t *testing.T) (*memory.Store, *purchasing.EntryUseCase, *tu.Tenant, *entity.Product) {
	t.Helper()
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	p := tn.Product(t, s, "Óleo de soja 900ml", "10", "5", "8.99")
	uc := purchasing.NewEntryUseCase(memory.NewTxRunner(s), s.Repos(), inventory.NewStockLedger(), zerolog.Nop()).
		WithClock(tu.Clock)
	return s, uc, tn, p
}

func request(productID, qty, cost string) dto.EntryRequest {
	return dto.EntryRequest{
		FiscalDocument: "NF-12345",
		Supplier:       dto.SupplierDTO{Name: "Distribuidora Sul"},
		InvoiceValue:   tu.D("100"),
		Items:          []dto.EntryItemRequest{{ProductID: productID, Quantity: tu.D(qty), UnitCost: tu.D(cost)}},
	}
}

func TestCreate_DoesNotTouchStock(t *testing.T) {
	s, uc, tn, p := setup(t)
	out, err := uc.Create(context.Background(), tn.Owner, request(p.ID, "20", "5"))
	require.NoError(t, err)

	assert.Equal(t, "ENT-000001", out.EntryNumber)
	assert.Equal(t, string(entity.EntryPending), out.Status)
	assert.Equal(t, "100.00", out.TotalCost.StringFixed(2))
	assert.Equal(t, "10", tu.ProductByID(t, s, p.ID).Quantity.String())
}

func TestComplete_AppliesStockOnceWithAverageCost(t *testing.T) {
	s, uc, tn, p := setup(t)
	out, err := uc.Create(context.Background(), tn.Owner, request(p.ID, "10", "6"))
	require.NoError(t, err)

	done, err := uc.Complete(context.Background(), tn.Owner, out.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.EntryCompleted), done.Status)

	got := tu.ProductByID(t, s, p.ID)
	assert.Equal(t, "20", got.Quantity.String())
	assert.Equal(t, "10", got.TotalEntries.String())
	// stock previo 10 a costo 0 + 10 a costo 6
	assert.Equal(t, "3.00", got.CostPrice.StringFixed(2))

	_, err = uc.Complete(context.Background(), tn.Owner, out.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, "20", tu.ProductByID(t, s, p.ID).Quantity.String(), "completar dos veces no duplica stock")
}

func TestCancel_CompletedRevertsStock(t *testing.T) {
	s, uc, tn, p := setup(t)
	out, err := uc.Create(context.Background(), tn.Owner, request(p.ID, "5", "6"))
	require.NoError(t, err)
	_, err = uc.Complete(context.Background(), tn.Owner, out.ID)
	require.NoError(t, err)

	cancelled, err := uc.Cancel(context.Background(), tn.Owner, out.ID, "nota devolvida")
	require.NoError(t, err)
	assert.Equal(t, string(entity.EntryCancelled), cancelled.Status)
	got := tu.ProductByID(t, s, p.ID)
	assert.Equal(t, "10", got.Quantity.String())
	assert.True(t, got.TotalEntries.IsZero())
	assert.True(t, got.CostPrice.IsZero(), "el costo promedio vuelve al previo, got %s", got.CostPrice)

	_, err = uc.Cancel(context.Background(), tn.Owner, out.ID, "outra vez")
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, "10", tu.ProductByID(t, s, p.ID).Quantity.String())
}

func TestCancel_CompletedFailsWhenGoodsWereSold(t *testing.T) {
	s, uc, tn, p := setup(t)
	out, err := uc.Create(context.Background(), tn.Owner, request(p.ID, "5", "6"))
	require.NoError(t, err)
	_, err = uc.Complete(context.Background(), tn.Owner, out.ID)
	require.NoError(t, err)

	// vender casi todo el stock fuera del flujo de entradas
	_, err = inventory.NewStockUseCase(memory.NewTxRunner(s), s.Repos(), inventory.NewStockLedger(), zerolog.Nop()).
		RemoveStock(context.Background(), tn.Owner, p.ID, dto.StockAdjustRequest{Quantity: tu.D("12")})
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), tn.Owner, out.ID, "estorno")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	e, err := uc.Get(context.Background(), tn.Owner, out.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.EntryCompleted), e.Status, "la cancelación fallida no cambia el estado")
	assert.Equal(t, "3", tu.ProductByID(t, s, p.ID).Quantity.String())
}

func TestCancel_PendingOnlyChangesStatus(t *testing.T) {
	s, uc, tn, p := setup(t)
	out, err := uc.Create(context.Background(), tn.Owner, request(p.ID, "5", "6"))
	require.NoError(t, err)
	_, err = uc.Cancel(context.Background(), tn.Owner, out.ID, "pedido errado")
	require.NoError(t, err)
	assert.Equal(t, "10", tu.ProductByID(t, s, p.ID).Quantity.String())

	_, err = uc.Complete(context.Background(), tn.Owner, out.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestUpdate_OnlyWhilePending(t *testing.T) {
	_, uc, tn, p := setup(t)
	out, err := uc.Create(context.Background(), tn.Owner, request(p.ID, "5", "6"))
	require.NoError(t, err)

	upd, err := uc.Update(context.Background(), tn.Owner, out.ID, request(p.ID, "8", "6"))
	require.NoError(t, err)
	assert.Equal(t, "48.00", upd.TotalCost.StringFixed(2))
	assert.Equal(t, out.EntryNumber, upd.EntryNumber)

	_, err = uc.Complete(context.Background(), tn.Owner, out.ID)
	require.NoError(t, err)
	_, err = uc.Update(context.Background(), tn.Owner, out.ID, request(p.ID, "1", "6"))
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreate_Validation(t *testing.T) {
	_, uc, tn, p := setup(t)

	in := request(p.ID, "1.5", "-1")
	in.FiscalDocument = ""
	_, err := uc.Create(context.Background(), tn.Owner, in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "fiscal_document", ve.Fields[0].Field)

	_, err = uc.Create(context.Background(), tn.Owner, request(p.ID, "1.5", "-1"))
	require.ErrorAs(t, err, &ve)
	fields := []string{}
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"items[0].quantity", "items[0].unit_cost"}, fields)

	_, err = uc.Create(context.Background(), tn.Owner, request("no-existe", "1", "1"))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "items[0].product_id", ve.Fields[0].Field)
}

func TestCrossTenant(t *testing.T) {
	s, uc, tn, p := setup(t)
	out, err := uc.Create(context.Background(), tn.Owner, request(p.ID, "5", "6"))
	require.NoError(t, err)

	other := tu.NewTenant(t, s)
	_, err = uc.Complete(context.Background(), other.Owner, out.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Get(context.Background(), other.Owner, out.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(context.Background(), other.Owner, request(p.ID, "5", "6"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
