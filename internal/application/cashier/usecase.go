// Package cashier sesiones de caja por usuario: apertura, cierre y conciliación del efectivo.
package cashier

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
)

// CashRegisterUseCase casos de uso de caja.
type CashRegisterUseCase struct {
	tx    repository.TxRunner
	repos repository.Repos
	log   zerolog.Logger
	now   func() time.Time
}

// NewCashRegisterUseCase construye el caso de uso.
func NewCashRegisterUseCase(tx repository.TxRunner, repos repository.Repos, log zerolog.Logger) *CashRegisterUseCase {
	return &CashRegisterUseCase{tx: tx, repos: repos, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *CashRegisterUseCase) WithClock(now func() time.Time) *CashRegisterUseCase {
	uc.now = now
	return uc
}

// Open abre una sesión para el caller. Solo una abierta por (empresa, usuario).
func (uc *CashRegisterUseCase) Open(ctx context.Context, caller entity.Caller, in dto.OpenCashRegisterRequest) (*dto.CashRegisterResponse, error) {
	if in.OpeningBalance.IsNegative() {
		return nil, domain.NewValidationError("opening_balance", "no puede ser negativo")
	}
	reg := &entity.CashRegister{
		ID:             uuid.New().String(),
		CompanyID:      caller.CompanyID,
		UserID:         caller.UserID,
		OpeningBalance: in.OpeningBalance,
		TotalSales:     decimal.Zero,
		TotalCash:      decimal.Zero,
		TotalCard:      decimal.Zero,
		TotalOther:     decimal.Zero,
		TotalChange:    decimal.Zero,
		Status:         entity.RegisterOpen,
		OpenedAt:       uc.now(),
	}
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		cur, err := tx.CashRegisters.GetOpenForUpdate(ctx, caller.CompanyID, caller.UserID)
		if err != nil {
			return err
		}
		if cur != nil {
			return domain.ErrRegisterAlreadyOpen
		}
		return tx.CashRegisters.Create(ctx, reg)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", reg.CompanyID).Str("user_id", reg.UserID).Str("register_id", reg.ID).Msg("caja abierta")
	return dto.NewCashRegisterResponse(reg), nil
}

// Close cierra la sesión abierta del caller con el efectivo contado.
func (uc *CashRegisterUseCase) Close(ctx context.Context, caller entity.Caller, in dto.CloseCashRegisterRequest) (*dto.CashRegisterResponse, error) {
	var reg *entity.CashRegister
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		if reg, err = tx.CashRegisters.GetOpenForUpdate(ctx, caller.CompanyID, caller.UserID); err != nil {
			return err
		}
		if reg == nil {
			return domain.ErrNoOpenRegister
		}
		if err := reg.Close(in.ClosingBalance, in.Notes, uc.now()); err != nil {
			return err
		}
		return tx.CashRegisters.Update(ctx, reg)
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info()
	if !reg.Difference.IsZero() {
		ev = uc.log.Warn()
	}
	ev.Str("company_id", reg.CompanyID).Str("register_id", reg.ID).
		Str("expected", reg.ExpectedBalance.StringFixed(2)).
		Str("difference", reg.Difference.StringFixed(2)).
		Msg("caja cerrada")
	return dto.NewCashRegisterResponse(reg), nil
}

// Current sesión abierta del caller.
func (uc *CashRegisterUseCase) Current(ctx context.Context, caller entity.Caller) (*dto.CashRegisterResponse, error) {
	reg, err := uc.repos.CashRegisters.GetOpenForUpdate(ctx, caller.CompanyID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNoOpenRegister
	}
	return dto.NewCashRegisterResponse(reg), nil
}

// List historial de sesiones. Los empleados solo ven las propias.
func (uc *CashRegisterUseCase) List(ctx context.Context, caller entity.Caller, companyID string, page dto.PageRequest) (*dto.CashRegisterListResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	userID := ""
	if !caller.Can(entity.PermViewReports) {
		userID = caller.UserID
	}
	page.DefaultPage()
	list, err := uc.repos.CashRegisters.List(ctx, companyID, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashRegisterResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *dto.NewCashRegisterResponse(r))
	}
	return &dto.CashRegisterListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}
