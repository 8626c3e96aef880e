package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
)

func newProductUC(s *memory.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(memory.NewTxRunner(s), s.Repos(), inventory.NewStockLedger(), zerolog.Nop()).WithClock(tu.Clock)
}

func TestProduct_CreateWithInitialStock(t *testing.T) {
	s := memory.NewStore()
	uc := newProductUC(s)
	tn := tu.NewTenant(t, s)
	ctx := context.Background()

	p, err := uc.Create(ctx, tn.Owner, tn.Company.ID, dto.CreateProductRequest{
		Barcode:     "7891000100103",
		Description: "Açúcar Cristal 1kg",
		Unit:        entity.UnitUND,
		Quantity:    tu.D("12"),
		MinQuantity: tu.D("5"),
		SalePrice:   tu.D("4.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12", p.Quantity.String())
	assert.False(t, p.LowStock)

	movs, err := s.Repos().StockMovements.ListByProduct(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.ReasonManualAdd, movs[0].Reason)

	_, err = uc.Create(ctx, tn.Owner, tn.Company.ID, dto.CreateProductRequest{
		Barcode: "7891000100103", Description: "Outro", Unit: entity.UnitUND,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "código de barras único por empresa")

	// otra empresa puede usar el mismo código
	other := tu.NewTenant(t, s)
	_, err = uc.Create(ctx, other.Owner, other.Company.ID, dto.CreateProductRequest{
		Barcode: "7891000100103", Description: "Açúcar", Unit: entity.UnitUND,
	})
	assert.NoError(t, err)
}

func TestProduct_SearchIsAccentInsensitive(t *testing.T) {
	s := memory.NewStore()
	uc := newProductUC(s)
	tn := tu.NewTenant(t, s)
	tn.Product(t, s, "Feijão Preto 1kg", "5", "1", "8.50")
	tn.Product(t, s, "Arroz Branco 5kg", "5", "1", "25.00")
	ctx := context.Background()

	list, err := uc.List(ctx, tn.Employee, tn.Company.ID, usecase.ProductQuery{Search: "FEIJAO"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Feijão Preto 1kg", list.Items[0].Description)
}

func TestProduct_UpdateDoesNotTouchStock(t *testing.T) {
	s := memory.NewStore()
	uc := newProductUC(s)
	tn := tu.NewTenant(t, s)
	p := tn.Product(t, s, "Leite 1L", "20", "4", "5.00")
	ctx := context.Background()

	out, err := uc.Update(ctx, tn.Owner, p.ID, dto.UpdateProductRequest{
		Description: ptr("Leite Integral 1L"),
		SalePrice:   ptr(tu.D("5.49")),
		Barcode:     ptr("789100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "5.49", out.SalePrice.StringFixed(2))
	assert.Equal(t, "20", tu.ProductByID(t, s, p.ID).Quantity.String())

	byCode, err := uc.GetByBarcode(ctx, tn.Employee, tn.Company.ID, "789100")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byCode.ID)

	list, err := uc.List(ctx, tn.Employee, tn.Company.ID, usecase.ProductQuery{Search: "integral"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "la clave de búsqueda se recalcula")
}

func TestProduct_DeleteAndTenancy(t *testing.T) {
	s := memory.NewStore()
	uc := newProductUC(s)
	tn := tu.NewTenant(t, s)
	p := tn.Product(t, s, "Sabão em pó", "3", "1", "12.00")
	ctx := context.Background()

	other := tu.NewTenant(t, s)
	_, err := uc.GetByID(ctx, other.Owner, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, other.Owner, p.ID), domain.ErrForbidden)

	require.NoError(t, uc.Delete(ctx, tn.Owner, p.ID))
	_, err = uc.GetByID(ctx, tn.Owner, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := uc.List(ctx, tn.Owner, tn.Company.ID, usecase.ProductQuery{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
}
