package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// CashRegisterRepository define el puerto de persistencia para sesiones de caja.
type CashRegisterRepository interface {
	Create(ctx context.Context, c *entity.CashRegister) error
	GetByID(ctx context.Context, id string) (*entity.CashRegister, error)
	// GetOpenForUpdate sesión abierta del usuario (bloqueada), nil si no hay.
	GetOpenForUpdate(ctx context.Context, companyID, userID string) (*entity.CashRegister, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error)
	Update(ctx context.Context, c *entity.CashRegister) error
	List(ctx context.Context, companyID, userID string, limit, offset int) ([]*entity.CashRegister, error)
}
