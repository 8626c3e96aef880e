package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// StockUseCase ajustes manuales de stock, historial y reporte de reposición.
type StockUseCase struct {
	tx     repository.TxRunner
	repos  repository.Repos
	ledger *StockLedger
	log    zerolog.Logger
	now    func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx repository.TxRunner, repos repository.Repos, ledger *StockLedger, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{tx: tx, repos: repos, ledger: ledger, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *StockUseCase) WithClock(now func() time.Time) *StockUseCase {
	uc.now = now
	return uc
}

// AddStock suma stock manualmente (POST /products/:id/add-stock).
func (uc *StockUseCase) AddStock(ctx context.Context, caller entity.Caller, productID string, in dto.StockAdjustRequest) (*dto.ProductResponse, error) {
	return uc.adjust(ctx, caller, productID, entity.ReasonManualAdd, in)
}

// RemoveStock retira stock manualmente (PUT /products/:id/remove-stock). Falla con StockError si no alcanza.
func (uc *StockUseCase) RemoveStock(ctx context.Context, caller entity.Caller, productID string, in dto.StockAdjustRequest) (*dto.ProductResponse, error) {
	return uc.adjust(ctx, caller, productID, entity.ReasonManualRemove, in)
}

func (uc *StockUseCase) adjust(ctx context.Context, caller entity.Caller, productID, reason string, in dto.StockAdjustRequest) (*dto.ProductResponse, error) {
	companyID, err := uc.ownerOf(ctx, caller, productID)
	if err != nil {
		return nil, err
	}
	var out *entity.Product
	err = uc.tx.Run(ctx, func(tx repository.Repos) error {
		p, err := uc.ledger.Apply(ctx, tx, Movement{
			CompanyID: companyID,
			ProductID: productID,
			Reason:    reason,
			Quantity:  in.Quantity,
			Notes:     in.Reason,
			UserID:    caller.UserID,
		}, uc.now())
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", productID).Str("reason", reason).
		Str("quantity", in.Quantity.String()).Str("balance", out.Quantity.String()).Msg("ajuste de stock")
	return dto.NewProductResponse(out), nil
}

// ownerOf resuelve la empresa del producto y aplica la regla de tenant.
func (uc *StockUseCase) ownerOf(ctx context.Context, caller entity.Caller, productID string) (string, error) {
	p, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if p == nil || p.IsDeleted() {
		return "", domain.ErrNotFound
	}
	if !caller.CanAccess(p.CompanyID) {
		return "", domain.ErrForbidden
	}
	return p.CompanyID, nil
}

// Movements historial del libro de stock de un producto, más reciente primero.
func (uc *StockUseCase) Movements(ctx context.Context, caller entity.Caller, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.CanAccess(p.CompanyID) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.repos.StockMovements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.NewStockMovementResponse(m))
	}
	return out, nil
}

// LowStock productos activos en o bajo el punto de reposición, mayor déficit primero.
func (uc *StockUseCase) LowStock(ctx context.Context, caller entity.Caller, companyID string, limit int) ([]dto.LowStockItem, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	list, err := uc.repos.Products.ListLowStock(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItem, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewLowStockItem(p))
	}
	return out, nil
}
