package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// EntryFilter criterios de listado de entradas.
type EntryFilter struct {
	CompanyID string
	Status    entity.EntryStatus
	Limit     int
	Offset    int
}

// EntryRepository define el puerto de persistencia para Entry (cabecera e ítems).
type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id string) (*entity.Entry, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Entry, error)
	// Update reemplaza cabecera e ítems.
	Update(ctx context.Context, entry *entity.Entry) error
	List(ctx context.Context, f EntryFilter) ([]*entity.Entry, error)
	LastNumber(ctx context.Context, companyID string) (string, error)
}
