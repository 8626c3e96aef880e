package analytics_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/analytics"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func TestGetSummary(t *testing.T) {
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	cust := tn.Customer(t, s, "Cliente")
	arroz := tn.Product(t, s, "Arroz", "10", "2", "20.00")
	tn.Product(t, s, "Sal", "1", "3", "2.00") // stock bajo
	ctx := context.Background()

	su := sales.NewSaleUseCase(memory.NewTxRunner(s), s.Repos(), inventory.NewStockLedger(), nil, zerolog.Nop()).WithClock(tu.Clock)
	sell := func(qty string, p dto.SalePaymentRequest) {
		_, err := su.Create(ctx, tn.Employee, dto.CreateSaleRequest{
			CustomerID: cust.ID,
			Items:      []dto.SaleItemRequest{{ProductID: arroz.ID, Quantity: tu.D(qty)}},
			Payments:   []dto.SalePaymentRequest{p},
		})
		require.NoError(t, err)
	}
	sell("1", dto.SalePaymentRequest{Method: entity.PaymentCash, Amount: tu.D("20")})
	sell("2", dto.SalePaymentRequest{Method: entity.PaymentPromissory, Amount: tu.D("40")})

	cache := &mapCache{data: map[string][]byte{}}
	uc := analytics.NewDashboardUseCase(s.Repos(), cache, time.Minute, zerolog.Nop()).WithClock(tu.Clock)

	out, err := uc.GetSummary(ctx, tn.Owner, tn.Company.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.TodayCount)
	assert.Equal(t, "60.00", out.TodaySales.StringFixed(2))
	assert.Equal(t, "30.00", out.AverageTicket.StringFixed(2))
	require.Len(t, out.TopProducts, 1)
	assert.Equal(t, "3", out.TopProducts[0].QuantitySold.String())
	assert.Equal(t, 1, out.LowStockCount)
	assert.Equal(t, "40.00", out.ReceivablesPending.StringFixed(2))
	assert.Equal(t, "março 2026", out.DateLabel)
	assert.Equal(t, 1, cache.sets)

	// la segunda lectura sale de la caché
	again, err := uc.GetSummary(ctx, tn.Owner, tn.Company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, out.TodayCount, again.TodayCount)
}

func TestGetSummary_CrossTenant(t *testing.T) {
	s := memory.NewStore()
	a, b := tu.NewTenant(t, s), tu.NewTenant(t, s)
	uc := analytics.NewDashboardUseCase(s.Repos(), nil, 0, zerolog.Nop())
	_, err := uc.GetSummary(context.Background(), a.Owner, b.Company.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
