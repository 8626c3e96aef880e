// Package purchasing flujo de entradas de mercadería (compras a proveedor).
// El stock se aplica una sola vez, al completar la entrada; crearla o editarla no mueve stock.
package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/numbering"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// EntryUseCase casos de uso de entradas.
type EntryUseCase struct {
	tx     repository.TxRunner
	repos  repository.Repos
	ledger *inventory.StockLedger
	log    zerolog.Logger
	now    func() time.Time
}

// NewEntryUseCase construye el caso de uso.
func NewEntryUseCase(tx repository.TxRunner, repos repository.Repos, ledger *inventory.StockLedger, log zerolog.Logger) *EntryUseCase {
	return &EntryUseCase{tx: tx, repos: repos, ledger: ledger, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *EntryUseCase) WithClock(now func() time.Time) *EntryUseCase {
	uc.now = now
	return uc
}

// Create registra una entrada pending con el siguiente número ENT-xxxxxx.
func (uc *EntryUseCase) Create(ctx context.Context, caller entity.Caller, in dto.EntryRequest) (*dto.EntryResponse, error) {
	if err := validateHeader(in); err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.Entry{
		ID:        uuid.New().String(),
		CompanyID: caller.CompanyID,
		UserID:    caller.UserID,
		Status:    entity.EntryPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		if err := fill(ctx, tx, e, in); err != nil {
			return err
		}
		n, err := tx.Counters.Next(ctx, caller.CompanyID, numbering.KindEntry)
		if err != nil {
			return err
		}
		e.EntryNumber = numbering.Format(numbering.KindEntry, n)
		return tx.Entries.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", e.CompanyID).Str("entry_id", e.ID).Str("entry_number", e.EntryNumber).
		Str("total_cost", e.TotalCost.StringFixed(2)).Msg("entrada registrada")
	return dto.NewEntryResponse(e), nil
}

// Update reemplaza proveedor, documento e ítems de una entrada pending.
func (uc *EntryUseCase) Update(ctx context.Context, caller entity.Caller, id string, in dto.EntryRequest) (*dto.EntryResponse, error) {
	if err := validateHeader(in); err != nil {
		return nil, err
	}
	var e *entity.Entry
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		if e, err = lockEntry(ctx, tx, caller, id); err != nil {
			return err
		}
		if !e.IsEditable() {
			return fmt.Errorf("entrada %s en estado %s: %w", e.EntryNumber, e.Status, domain.ErrInvalidTransition)
		}
		if err := fill(ctx, tx, e, in); err != nil {
			return err
		}
		e.UpdatedAt = uc.now()
		return tx.Entries.Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewEntryResponse(e), nil
}

// Complete aplica el stock de cada ítem (con costo promedio ponderado) y marca la entrada completed.
func (uc *EntryUseCase) Complete(ctx context.Context, caller entity.Caller, id string) (*dto.EntryResponse, error) {
	now := uc.now()
	var e *entity.Entry
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		if e, err = lockEntry(ctx, tx, caller, id); err != nil {
			return err
		}
		if err := e.Complete(caller.UserID, now); err != nil {
			return err
		}
		for _, it := range e.Items {
			if _, err := uc.ledger.Apply(ctx, tx, inventory.Movement{
				CompanyID: e.CompanyID,
				ProductID: it.ProductID,
				Reason:    entity.ReasonEntry,
				Quantity:  it.Quantity,
				UnitCost:  it.UnitCost,
				Reference: e.ID,
				Notes:     e.FiscalDocument,
				UserID:    caller.UserID,
			}, now); err != nil {
				return err
			}
		}
		return tx.Entries.Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", e.CompanyID).Str("entry_id", e.ID).Str("entry_number", e.EntryNumber).Msg("entrada completada")
	return dto.NewEntryResponse(e), nil
}

// Cancel cancela la entrada. Si ya estaba completada revierte su stock; falla con StockError
// cuando la mercadería ya fue vendida.
func (uc *EntryUseCase) Cancel(ctx context.Context, caller entity.Caller, id, reason string) (*dto.EntryResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "el motivo es obligatorio")
	}
	now := uc.now()
	var e *entity.Entry
	err := uc.tx.Run(ctx, func(tx repository.Repos) error {
		var err error
		if e, err = lockEntry(ctx, tx, caller, id); err != nil {
			return err
		}
		applied := e.StockApplied()
		if err := e.Cancel(caller.UserID, reason, now); err != nil {
			return err
		}
		if applied {
			for _, it := range e.Items {
				if _, err := uc.ledger.Apply(ctx, tx, inventory.Movement{
					CompanyID: e.CompanyID,
					ProductID: it.ProductID,
					Reason:    entity.ReasonEntryCancel,
					Quantity:  it.Quantity,
					UnitCost:  it.UnitCost,
					Reference: e.ID,
					Notes:     reason,
					UserID:    caller.UserID,
				}, now); err != nil {
					return err
				}
			}
		}
		return tx.Entries.Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", e.CompanyID).Str("entry_id", e.ID).Str("entry_number", e.EntryNumber).
		Str("cancelled_by", caller.UserID).Msg("entrada cancelada")
	return dto.NewEntryResponse(e), nil
}

// Get devuelve una entrada.
func (uc *EntryUseCase) Get(ctx context.Context, caller entity.Caller, id string) (*dto.EntryResponse, error) {
	e, err := uc.repos.Entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.CanAccess(e.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return dto.NewEntryResponse(e), nil
}

// List lista entradas de la empresa, más recientes primero.
func (uc *EntryUseCase) List(ctx context.Context, caller entity.Caller, companyID, status string, page dto.PageRequest) (*dto.EntryListResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.repos.Entries.List(ctx, repository.EntryFilter{
		CompanyID: companyID,
		Status:    entity.EntryStatus(status),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.EntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *dto.NewEntryResponse(e))
	}
	return &dto.EntryListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func lockEntry(ctx context.Context, tx repository.Repos, caller entity.Caller, id string) (*entity.Entry, error) {
	e, err := tx.Entries.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if !caller.CanAccess(e.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return e, nil
}

func validateHeader(in dto.EntryRequest) error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(in.FiscalDocument) == "" {
		ve.Add("fiscal_document", "obligatorio")
	}
	if strings.TrimSpace(in.Supplier.Name) == "" {
		ve.Add("supplier.name", "obligatorio")
	}
	if in.InvoiceValue.IsNegative() {
		ve.Add("invoice_value", "no puede ser negativo")
	}
	if len(in.Items) == 0 {
		ve.Add("items", "la entrada necesita al menos un ítem")
	}
	return ve.OrNil()
}

// fill valida los ítems contra los productos de la empresa y copia los datos a la entrada.
func fill(ctx context.Context, tx repository.Repos, e *entity.Entry, in dto.EntryRequest) error {
	ve := &domain.ValidationError{}
	items := make([]entity.EntryItem, 0, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		p, err := tx.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if p == nil || p.IsDeleted() {
			ve.Add(field+".product_id", "producto inexistente")
			continue
		}
		if p.CompanyID != e.CompanyID {
			return domain.ErrForbidden
		}
		if !entity.ValidQuantity(p.Unit, it.Quantity) {
			ve.Add(field+".quantity", "cantidad inválida para la unidad "+p.Unit)
		}
		if it.UnitCost.IsNegative() {
			ve.Add(field+".unit_cost", "no puede ser negativo")
		}
		items = append(items, entity.EntryItem{
			ProductID:   p.ID,
			Description: p.Description,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
		})
	}
	if err := ve.OrNil(); err != nil {
		return err
	}
	e.FiscalDocument = strings.TrimSpace(in.FiscalDocument)
	e.Supplier = entity.Supplier(in.Supplier)
	e.InvoiceValue = in.InvoiceValue
	e.Notes = in.Notes
	e.Items = items
	e.Totalize()
	return nil
}
