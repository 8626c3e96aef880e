package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// CompanyUseCase administración de tenants (solo admin de plataforma).
type CompanyUseCase struct {
	repo repository.CompanyRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, log zerolog.Logger) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *CompanyUseCase) WithClock(now func() time.Time) *CompanyUseCase {
	uc.now = now
	return uc
}

// GetByID obtiene una empresa. Un no-admin solo puede ver la propia.
func (uc *CompanyUseCase) GetByID(ctx context.Context, caller entity.Caller, id string) (*dto.CompanyResponse, error) {
	if !caller.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewCompanyResponse(company), nil
}

// List lista empresas filtradas por estado ("" = todas).
func (uc *CompanyUseCase) List(ctx context.Context, caller entity.Caller, status string, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, entity.CompanyStatus(status), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.NewCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Approve pending|rejected -> approved.
func (uc *CompanyUseCase) Approve(ctx context.Context, caller entity.Caller, id string, in dto.CompanyStatusRequest) (*dto.CompanyResponse, error) {
	return uc.changeStatus(ctx, caller, id, entity.CompanyApproved, in.Reason)
}

// Reject pending -> rejected.
func (uc *CompanyUseCase) Reject(ctx context.Context, caller entity.Caller, id string, in dto.CompanyStatusRequest) (*dto.CompanyResponse, error) {
	return uc.changeStatus(ctx, caller, id, entity.CompanyRejected, in.Reason)
}

// Deactivate approved -> inactive. Los usuarios de la empresa dejan de poder loguearse.
func (uc *CompanyUseCase) Deactivate(ctx context.Context, caller entity.Caller, id string, in dto.CompanyStatusRequest) (*dto.CompanyResponse, error) {
	return uc.changeStatus(ctx, caller, id, entity.CompanyInactive, in.Reason)
}

// Reactivate inactive -> approved.
func (uc *CompanyUseCase) Reactivate(ctx context.Context, caller entity.Caller, id string, in dto.CompanyStatusRequest) (*dto.CompanyResponse, error) {
	return uc.changeStatus(ctx, caller, id, entity.CompanyApproved, in.Reason)
}

func (uc *CompanyUseCase) changeStatus(ctx context.Context, caller entity.Caller, id string, to entity.CompanyStatus, reason string) (*dto.CompanyResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	from := company.Status
	if err := company.ChangeStatus(to, caller.UserID, reason, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", id).Str("from", string(from)).Str("to", string(to)).
		Str("by", caller.UserID).Msg("estado de empresa actualizado")
	return dto.NewCompanyResponse(company), nil
}
