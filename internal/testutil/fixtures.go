// Package testutil arma tenants de prueba sobre el store en memoria.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	"github.com/jhoicas/pdv-api/pkg/textnorm"
)

var seq atomic.Int64

// Now instante fijo usado por los tests de casos de uso.
var Now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// Clock devuelve siempre Now.
func Clock() time.Time { return Now }

// D atajo para decimales literales.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Tenant empresa aprobada con un owner y un employee.
type Tenant struct {
	Company  *entity.Company
	Owner    entity.Caller
	Employee entity.Caller
}

// NewTenant crea la empresa (approved) y sus usuarios en el store.
func NewTenant(t *testing.T, s *memory.Store) *Tenant {
	t.Helper()
	ctx := context.Background()
	n := seq.Add(1)
	c := &entity.Company{
		ID:        uuid.New().String(),
		CNPJ:      fmt.Sprintf("%014d", n),
		LegalName: fmt.Sprintf("Mercado %d LTDA", n),
		OwnerName: "Dona Maria",
		Email:     fmt.Sprintf("empresa%d@example.com", n),
		Status:    entity.CompanyApproved,
		Plan:      entity.PlanBasic,
		CreatedAt: Now,
		UpdatedAt: Now,
	}
	require.NoError(t, s.Repos().Companies.Create(ctx, c))
	tn := &Tenant{Company: c}
	tn.Owner = newUser(t, s, c.ID, entity.RoleOwner)
	tn.Employee = newUser(t, s, c.ID, entity.RoleEmployee)
	return tn
}

// Admin usuario administrador de la plataforma (en su propia empresa).
func Admin(t *testing.T, s *memory.Store) entity.Caller {
	t.Helper()
	tn := NewTenant(t, s)
	return newUser(t, s, tn.Company.ID, entity.RoleAdmin)
}

func newUser(t *testing.T, s *memory.Store, companyID string, role entity.Role) entity.Caller {
	t.Helper()
	n := seq.Add(1)
	u := &entity.User{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      fmt.Sprintf("%s %d", role, n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Role:      role,
		Active:    true,
		CreatedAt: Now,
		UpdatedAt: Now,
	}
	require.NoError(t, s.Repos().Users.Create(context.Background(), u))
	return entity.Caller{UserID: u.ID, CompanyID: companyID, Role: role}
}

// Customer crea un cliente de la empresa.
func (tn *Tenant) Customer(t *testing.T, s *memory.Store, name string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		CompanyID:  tn.Company.ID,
		Name:       name,
		Document:   fmt.Sprintf("%011d", seq.Add(1)),
		Active:     true,
		TotalSpent: decimal.Zero,
		CreatedAt:  Now,
		UpdatedAt:  Now,
	}
	require.NoError(t, s.Repos().Customers.Create(context.Background(), c))
	return c
}

// Product crea un producto con stock, mínimo y precio de venta.
func (tn *Tenant) Product(t *testing.T, s *memory.Store, desc, qty, minQty, price string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    tn.Company.ID,
		Description:  desc,
		SearchKey:    textnorm.Fold(desc),
		Unit:         entity.UnitUND,
		Quantity:     D(qty),
		MinQuantity:  D(minQty),
		CostPrice:    decimal.Zero,
		SalePrice:    D(price),
		Active:       true,
		TotalSold:    decimal.Zero,
		TotalEntries: decimal.Zero,
		CreatedAt:    Now,
		UpdatedAt:    Now,
	}
	require.NoError(t, s.Repos().Products.Create(context.Background(), p))
	return p
}

// ProductByID relee el producto desde el store.
func ProductByID(t *testing.T, s *memory.Store, id string) *entity.Product {
	t.Helper()
	p, err := s.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// CustomerByID relee el cliente desde el store.
func CustomerByID(t *testing.T, s *memory.Store, id string) *entity.Customer {
	t.Helper()
	c, err := s.Repos().Customers.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}
