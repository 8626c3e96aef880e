package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// CustomerFilter criterios de listado de clientes.
type CustomerFilter struct {
	CompanyID      string
	Search         string // nombre o documento
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// CustomerRepository define el puerto de persistencia para Customer (DIP).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	GetByDocument(ctx context.Context, companyID, document string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// UpdateTotals persiste solo los acumulados de compras.
	UpdateTotals(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, f CustomerFilter) ([]*entity.Customer, error)
}
