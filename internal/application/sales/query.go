package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// Get devuelve una venta con los IDs de sus cuentas por cobrar.
func (uc *SaleUseCase) Get(ctx context.Context, caller entity.Caller, id string) (*dto.SaleResponse, error) {
	sale, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewSaleResponse(sale)
	rs, err := uc.repos.Receivables.List(ctx, repository.ReceivableFilter{CompanyID: sale.CompanyID, SaleID: sale.ID})
	if err != nil {
		return nil, err
	}
	for _, r := range rs {
		out.ReceivableIDs = append(out.ReceivableIDs, r.ID)
	}
	return out, nil
}

// List lista ventas de la empresa, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, caller entity.Caller, companyID string, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	q.DefaultPage()
	list, err := uc.repos.Sales.List(ctx, repository.SaleFilter{
		CompanyID:  companyID,
		CustomerID: q.CustomerID,
		Status:     entity.SaleStatus(q.Status),
		From:       q.From,
		To:         q.To,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *dto.NewSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Receipt genera el comprobante PDF de la venta.
func (uc *SaleUseCase) Receipt(ctx context.Context, caller entity.Caller, id string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("comprobantes deshabilitados: %w", domain.ErrNotFound)
	}
	sale, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.repos.Companies.GetByID(ctx, sale.CompanyID)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.repos.Customers.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.Render(ctx, ReceiptData{Company: company, Customer: customer, Sale: sale})
	if err != nil {
		return nil, "", err
	}
	return pdf, sale.SaleNumber + ".pdf", nil
}

func (uc *SaleUseCase) load(ctx context.Context, caller entity.Caller, id string) (*entity.Sale, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.CanAccess(sale.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}
