package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// StockMovementRepository historial del libro de stock (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
