package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/brdoc"
)

// CustomerUseCase CRUD de clientes. Los acumulados de compras solo los mueven ventas y cancelaciones.
type CustomerUseCase struct {
	repos repository.Repos
	log   zerolog.Logger
	now   func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repos repository.Repos, log zerolog.Logger) *CustomerUseCase {
	return &CustomerUseCase{repos: repos, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *CustomerUseCase) WithClock(now func() time.Time) *CustomerUseCase {
	uc.now = now
	return uc
}

// CustomerQuery filtros de listado.
type CustomerQuery struct {
	dto.PageRequest
	Search         string `query:"search"`
	IncludeDeleted bool   `query:"include_deleted"`
}

// Create crea un cliente. El documento se guarda solo con dígitos y es único por empresa.
func (uc *CustomerUseCase) Create(ctx context.Context, caller entity.Caller, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	doc, err := normalizeDocument(in.Document)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       in.Name,
		Document:   doc,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    entity.Address(in.Address),
		Active:     true,
		TotalSpent: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repos.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("customer_id", c.ID).Msg("cliente creado")
	return dto.NewCustomerResponse(c), nil
}

// GetByID obtiene un cliente (incluye eliminados, para el historial de ventas).
func (uc *CustomerUseCase) GetByID(ctx context.Context, caller entity.Caller, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(c), nil
}

// List lista clientes; Search busca por nombre o documento.
func (uc *CustomerUseCase) List(ctx context.Context, caller entity.Caller, companyID string, q CustomerQuery) (*dto.CustomerListResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	q.DefaultPage()
	list, err := uc.repos.Customers.List(ctx, repository.CustomerFilter{
		CompanyID:      companyID,
		Search:         q.Search,
		IncludeDeleted: q.IncludeDeleted,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.NewCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Update cambios parciales.
func (uc *CustomerUseCase) Update(ctx context.Context, caller entity.Caller, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Document != nil {
		doc, err := normalizeDocument(*in.Document)
		if err != nil {
			return nil, err
		}
		c.Document = doc
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = entity.Address(*in.Address)
	}
	c.UpdatedAt = uc.now()
	if err := uc.repos.Customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(c), nil
}

// Delete soft delete: el cliente deja de aparecer en listados y no admite ventas nuevas.
func (uc *CustomerUseCase) Delete(ctx context.Context, caller entity.Caller, id string) error {
	c, err := uc.load(ctx, caller, id)
	if err != nil {
		return err
	}
	if c.IsDeleted() {
		return domain.ErrNotFound
	}
	c.SoftDelete(uc.now())
	if err := uc.repos.Customers.Update(ctx, c); err != nil {
		return err
	}
	uc.log.Info().Str("customer_id", id).Str("by", caller.UserID).Msg("cliente eliminado")
	return nil
}

// Sales historial de ventas del cliente.
func (uc *CustomerUseCase) Sales(ctx context.Context, caller entity.Caller, id string, page dto.PageRequest) (*dto.SaleListResponse, error) {
	c, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repos.Sales.List(ctx, repository.SaleFilter{
		CompanyID:  c.CompanyID,
		CustomerID: c.ID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *dto.NewSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func (uc *CustomerUseCase) load(ctx context.Context, caller entity.Caller, id string) (*entity.Customer, error) {
	c, err := uc.repos.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.CanAccess(c.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func normalizeDocument(s string) (string, error) {
	if err := brdoc.ValidateDocument(s); err != nil {
		return "", domain.NewValidationError("document", err.Error())
	}
	return brdoc.Digits(s), nil
}
