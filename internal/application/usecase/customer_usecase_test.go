package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
)

func TestCustomer_CRUD(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewCustomerUseCase(s.Repos(), zerolog.Nop()).WithClock(tu.Clock)
	tn := tu.NewTenant(t, s)
	ctx := context.Background()

	c, err := uc.Create(ctx, tn.Employee, tn.Company.ID, dto.CreateCustomerRequest{
		Name:     "José Araújo",
		Document: "529.982.247-25",
		Address:  dto.AddressDTO{City: "Recife", State: "PE"},
	})
	require.NoError(t, err)
	assert.Equal(t, "52998224725", c.Document)
	assert.Equal(t, "Recife", c.Address.City)

	_, err = uc.Create(ctx, tn.Employee, tn.Company.ID, dto.CreateCustomerRequest{Name: "Outro", Document: "52998224725"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "documento único por empresa")

	_, err = uc.Create(ctx, tn.Employee, tn.Company.ID, dto.CreateCustomerRequest{Name: "X", Document: "123.456.789-00"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	found, err := uc.List(ctx, tn.Employee, tn.Company.ID, usecase.CustomerQuery{Search: "jose araujo"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	up, err := uc.Update(ctx, tn.Employee, c.ID, dto.UpdateCustomerRequest{Phone: ptr("81 99999-0000")})
	require.NoError(t, err)
	assert.Equal(t, "81 99999-0000", up.Phone)

	require.NoError(t, uc.Delete(ctx, tn.Owner, c.ID))
	found, err = uc.List(ctx, tn.Employee, tn.Company.ID, usecase.CustomerQuery{})
	require.NoError(t, err)
	assert.Empty(t, found.Items)
	assert.ErrorIs(t, uc.Delete(ctx, tn.Owner, c.ID), domain.ErrNotFound)

	other := tu.NewTenant(t, s)
	_, err = uc.GetByID(ctx, other.Owner, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCustomer_SalesHistory(t *testing.T) {
	s := memory.NewStore()
	tn := tu.NewTenant(t, s)
	cust := tn.Customer(t, s, "Maria")
	prod := tn.Product(t, s, "Café 500g", "10", "1", "15.00")
	ctx := context.Background()

	su := sales.NewSaleUseCase(memory.NewTxRunner(s), s.Repos(), inventory.NewStockLedger(), nil, zerolog.Nop()).WithClock(tu.Clock)
	_, err := su.Create(ctx, tn.Employee, dto.CreateSaleRequest{
		CustomerID: cust.ID,
		Items:      []dto.SaleItemRequest{{ProductID: prod.ID, Quantity: tu.D("1")}},
		Payments:   []dto.SalePaymentRequest{{Method: entity.PaymentPix, Amount: tu.D("15")}},
	})
	require.NoError(t, err)

	uc := usecase.NewCustomerUseCase(s.Repos(), zerolog.Nop())
	hist, err := uc.Sales(ctx, tn.Owner, cust.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hist.Items, 1)
	assert.Equal(t, "15.00", hist.Items[0].Total.StringFixed(2))

	got, err := uc.GetByID(ctx, tn.Owner, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalPurchases)
}
