package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
)

func newStockUC(s *memory.Store) *inventory.StockUseCase {
	return inventory.NewStockUseCase(memory.NewTxRunner(s), s.Repos(), inventory.NewStockLedger(), zerolog.Nop()).
		WithClock(tu.Clock)
}

// ─────────────────────────────────────────────────────────────
// Ajustes manuales
// ─────────────────────────────────────────────────────────────

func TestAddStock_RecordsMovement(t *testing.T) {
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	p := tn.Product(t, s, "Arroz 5kg", "10", "2", "25.90")
	uc := newStockUC(s)

	out, err := uc.AddStock(context.Background(), tn.Employee, p.ID, dto.StockAdjustRequest{Quantity: tu.D("5"), Reason: "inventario"})
	require.NoError(t, err)
	assert.Equal(t, "15", out.Quantity.String())

	movs, err := uc.Movements(context.Background(), tn.Owner, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, entity.ReasonManualAdd, movs[0].Reason)
	assert.Equal(t, "15", movs[0].BalanceAfter.String())
	assert.Equal(t, "inventario", movs[0].Notes)
	assert.Equal(t, tn.Employee.UserID, movs[0].CreatedBy)
}

func TestRemoveStock_InsufficientLeavesNoTrace(t *testing.T) {
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	p := tn.Product(t, s, "Feijão 1kg", "3", "1", "8.50")
	uc := newStockUC(s)

	_, err := uc.RemoveStock(context.Background(), tn.Owner, p.ID, dto.StockAdjustRequest{Quantity: tu.D("4")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, p.ID, se.ProductID)
	assert.Equal(t, "3", se.Available.String())

	assert.Equal(t, "3", tu.ProductByID(t, s, p.ID).Quantity.String())
	movs, err := uc.Movements(context.Background(), tn.Owner, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestAdjust_Validation(t *testing.T) {
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	p := tn.Product(t, s, "Sal 1kg", "3", "1", "2.50")
	uc := newStockUC(s)

	_, err := uc.AddStock(context.Background(), tn.Owner, p.ID, dto.StockAdjustRequest{Quantity: tu.D("0")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Fields[0].Field)

	_, err = uc.AddStock(context.Background(), tn.Owner, "no-existe", dto.StockAdjustRequest{Quantity: tu.D("1")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_CrossTenantForbidden(t *testing.T) {
	s := memory.NewStore()
	a := tu.NewTenant(t, s)
	b := tu.NewTenant(t, s)
	p := a.Product(t, s, "Café 500g", "10", "2", "17.00")
	uc := newStockUC(s)

	_, err := uc.RemoveStock(context.Background(), b.Owner, p.ID, dto.StockAdjustRequest{Quantity: tu.D("1")})
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Movements(context.Background(), b.Owner, p.ID, dto.PageRequest{})
	require.ErrorIs(t, err, domain.ErrForbidden)

	// el admin de plataforma accede a cualquier empresa
	_, err = uc.AddStock(context.Background(), tu.Admin(t, s), p.ID, dto.StockAdjustRequest{Quantity: tu.D("1")})
	require.NoError(t, err)
	assert.Equal(t, "11", tu.ProductByID(t, s, p.ID).Quantity.String())
}

// ─────────────────────────────────────────────────────────────
// Concurrencia: nunca se vende más de lo que hay
// ─────────────────────────────────────────────────────────────

func TestRemoveStock_ConcurrentNeverOversells(t *testing.T) {
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	p := tn.Product(t, s, "Leite 1L", "5", "0", "4.99")
	uc := newStockUC(s)

	const workers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, bad int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RemoveStock(context.Background(), tn.Employee, p.ID, dto.StockAdjustRequest{Quantity: tu.D("1")})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
				bad++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, workers-5, bad)
	assert.True(t, tu.ProductByID(t, s, p.ID).Quantity.IsZero())
}

// ─────────────────────────────────────────────────────────────
// Reposición
// ─────────────────────────────────────────────────────────────

func TestLowStock_OrderedByDeficit(t *testing.T) {
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	tn.Product(t, s, "Açúcar", "20", "5", "4.00")
	small := tn.Product(t, s, "Farinha", "4", "5", "6.00")
	big := tn.Product(t, s, "Macarrão", "0", "10", "3.50")
	uc := newStockUC(s)

	list, err := uc.LowStock(context.Background(), tn.Owner, tn.Company.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, big.ID, list[0].ProductID)
	assert.Equal(t, "10", list[0].Deficit.String())
	assert.Equal(t, small.ID, list[1].ProductID)
	assert.Equal(t, "1", list[1].Deficit.String())

	other := tu.NewTenant(t, s)
	_, err = uc.LowStock(context.Background(), other.Owner, tn.Company.ID, 10)
	require.ErrorIs(t, err, domain.ErrForbidden)
}
