package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/textnorm"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía el ledger.
type ProductUseCase struct {
	tx     repository.TxRunner
	repos  repository.Repos
	ledger *inventory.StockLedger
	log    zerolog.Logger
	now    func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, repos repository.Repos, ledger *inventory.StockLedger, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{tx: tx, repos: repos, ledger: ledger, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	uc.now = now
	return uc
}

// ProductQuery filtros de listado.
type ProductQuery struct {
	dto.PageRequest
	Search         string `query:"search"`
	Group          string `query:"group"`
	IncludeDeleted bool   `query:"include_deleted"`
}

// Create crea un producto. Un stock inicial se registra como movimiento manual_add.
func (uc *ProductUseCase) Create(ctx context.Context, caller entity.Caller, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidUnit(in.Unit) {
		return nil, domain.NewValidationError("unit", "unidad no soportada")
	}
	if in.Quantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "no puede ser negativo")
	}
	now := uc.now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Barcode:      strings.TrimSpace(in.Barcode),
		Description:  in.Description,
		SearchKey:    textnorm.Fold(in.Description),
		Brand:        in.Brand,
		Group:        in.Group,
		Subgroup:     in.Subgroup,
		Unit:         in.Unit,
		Quantity:     decimal.Zero,
		MinQuantity:  in.MinQuantity,
		CostPrice:    in.CostPrice,
		SalePrice:    in.SalePrice,
		Active:       true,
		TotalSold:    decimal.Zero,
		TotalEntries: decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Products.Create(ctx, p); err != nil {
			return err
		}
		if !in.Quantity.IsPositive() {
			return nil
		}
		updated, err := uc.ledger.Apply(ctx, tx, inventory.Movement{
			CompanyID: companyID,
			ProductID: p.ID,
			Reason:    entity.ReasonManualAdd,
			Quantity:  in.Quantity,
			Notes:     "estoque inicial",
			UserID:    caller.UserID,
		}, now)
		if err != nil {
			return err
		}
		p = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("product_id", p.ID).Msg("producto creado")
	return dto.NewProductResponse(p), nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, caller entity.Caller, id string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(p), nil
}

// GetByBarcode búsqueda exacta por código de barras (lector del PDV).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, caller entity.Caller, companyID, barcode string) (*dto.ProductResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	p, err := uc.repos.Products.GetByBarcode(ctx, companyID, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return dto.NewProductResponse(p), nil
}

// List lista productos. Search compara sin acentos contra la descripción y exacto contra el código de barras.
func (uc *ProductUseCase) List(ctx context.Context, caller entity.Caller, companyID string, q ProductQuery) (*dto.ProductListResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	q.DefaultPage()
	list, err := uc.repos.Products.List(ctx, repository.ProductFilter{
		CompanyID:      companyID,
		Search:         q.Search,
		Group:          q.Group,
		IncludeDeleted: q.IncludeDeleted,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.NewProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Update actualiza datos del producto. Quantity y CostPrice no se editan aquí: los mueve el ledger.
func (uc *ProductUseCase) Update(ctx context.Context, caller entity.Caller, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Barcode != nil {
		p.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Description != nil {
		p.Description = *in.Description
		p.SearchKey = textnorm.Fold(*in.Description)
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Group != nil {
		p.Group = *in.Group
	}
	if in.Subgroup != nil {
		p.Subgroup = *in.Subgroup
	}
	if in.Unit != nil {
		if !entity.ValidUnit(*in.Unit) {
			return nil, domain.NewValidationError("unit", "unidad no soportada")
		}
		p.Unit = *in.Unit
	}
	if in.MinQuantity != nil {
		p.MinQuantity = *in.MinQuantity
	}
	if in.SalePrice != nil {
		p.SalePrice = *in.SalePrice
	}
	p.UpdatedAt = uc.now()
	if err := uc.repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(p), nil
}

// Delete soft delete. El historial y las ventas pasadas siguen referenciándolo.
func (uc *ProductUseCase) Delete(ctx context.Context, caller entity.Caller, id string) error {
	p, err := uc.load(ctx, caller, id)
	if err != nil {
		return err
	}
	p.SoftDelete(uc.now())
	if err := uc.repos.Products.Update(ctx, p); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Str("by", caller.UserID).Msg("producto eliminado")
	return nil
}

// load devuelve el producto vivo y del tenant del caller.
func (uc *ProductUseCase) load(ctx context.Context, caller entity.Caller, id string) (*entity.Product, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	if !caller.CanAccess(p.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
