package entity_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProduct(qty string) *entity.Product {
	return &entity.Product{
		ID:           "p1",
		Description:  "Arroz 5kg",
		Unit:         entity.UnitUND,
		Quantity:     d(qty),
		MinQuantity:  d("2"),
		TotalSold:    decimal.Zero,
		TotalEntries: decimal.Zero,
	}
}

// ─────────────────────────────────────────────────────────────
// Libro de stock
// ─────────────────────────────────────────────────────────────

func TestProduct_AddStock_IncrementsQuantityAndEntries(t *testing.T) {
	p := newProduct("10")
	require.NoError(t, p.AddStock(d("5")))
	assert.True(t, p.Quantity.Equal(d("15")))
	assert.True(t, p.TotalEntries.Equal(d("5")))
}

func TestProduct_RemoveStock_FailsWhenShort(t *testing.T) {
	p := newProduct("3")
	err := p.RemoveStock(d("4"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "p1", se.ProductID)
	assert.True(t, se.Available.Equal(d("3")))
	assert.True(t, p.Quantity.Equal(d("3")), "stock no debe cambiar ante el error")
}

func TestProduct_RemoveStock_ExactQuantityLeavesZero(t *testing.T) {
	p := newProduct("3")
	require.NoError(t, p.RemoveStock(d("3")))
	assert.True(t, p.Quantity.IsZero())
}

func TestProduct_RejectsNonPositiveQuantities(t *testing.T) {
	p := newProduct("3")
	assert.ErrorIs(t, p.AddStock(decimal.Zero), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.RemoveStock(d("-1")), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.RevertSale(decimal.Zero), domain.ErrInvalidInput)
}

func TestProduct_SaleAndRevertRestoreCounters(t *testing.T) {
	p := newProduct("10")
	require.NoError(t, p.RecordSale(d("4")))
	assert.True(t, p.Quantity.Equal(d("6")))
	assert.True(t, p.TotalSold.Equal(d("4")))

	require.NoError(t, p.RevertSale(d("4")))
	assert.True(t, p.Quantity.Equal(d("10")))
	assert.True(t, p.TotalSold.IsZero())
}

func TestProduct_RevertEntry_GuardedByStock(t *testing.T) {
	p := newProduct("0")
	require.NoError(t, p.AddStock(d("5")))
	require.NoError(t, p.RecordSale(d("4")))

	assert.ErrorIs(t, p.RevertEntry(d("5")), domain.ErrInsufficientStock)
	require.NoError(t, p.RevertEntry(d("1")))
	assert.True(t, p.Quantity.IsZero())
	assert.True(t, p.TotalEntries.Equal(d("4")))
}

func TestProduct_LowStock(t *testing.T) {
	p := newProduct("2")
	assert.True(t, p.LowStock())
	require.NoError(t, p.AddStock(d("1")))
	assert.False(t, p.LowStock())
}
