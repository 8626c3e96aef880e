// Package analytics contiene el resumen del dashboard: KPIs de ventas, ranking de productos,
// stock bajo y saldos por cobrar.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// Cache caché de resúmenes ya calculados (Redis en producción).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DashboardUseCase genera el resumen del día y del mes en curso.
// Solo lee: todas las consultas van a los repositorios fuera de transacción.
type DashboardUseCase struct {
	repos repository.Repos
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(repos repository.Repos, cache Cache, ttl time.Duration, log zerolog.Logger) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, cache: cache, ttl: ttl, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO para la empresa.
//
// Cinco consultas en paralelo:
//  1. Totals(hoy)          → TodaySales, TodayCount
//  2. Totals(mes)          → MonthlySales, MonthlyCount, AverageTicket
//  3. TopProducts(mes, 5)  → TopProducts
//  4. CountLowStock        → LowStockCount
//  5. Receivables.Summary  → ReceivablesPending, ReceivablesOverdue
func (uc *DashboardUseCase) GetSummary(ctx context.Context, caller entity.Caller, companyID string) (*dto.DashboardSummaryDTO, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	now := uc.now()
	key := cacheKey(companyID, now)
	if out, ok := uc.cached(ctx, key); ok {
		return out, nil
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		today, month repository.SalesTotals
		top          []repository.ProductSales
		lowStock     int
		recv         repository.ReceivableSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if today, err = uc.repos.Sales.Totals(gctx, companyID, todayStart, todayEnd); err != nil {
			return fmt.Errorf("dashboard: ventas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if month, err = uc.repos.Sales.Totals(gctx, companyID, monthStart, todayEnd); err != nil {
			return fmt.Errorf("dashboard: ventas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if top, err = uc.repos.Sales.TopProducts(gctx, companyID, monthStart, todayEnd, dashboardTopProducts); err != nil {
			return fmt.Errorf("dashboard: top productos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if lowStock, err = uc.repos.Products.CountLowStock(gctx, companyID); err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if recv, err = uc.repos.Receivables.Summary(gctx, companyID); err != nil {
			return fmt.Errorf("dashboard: cuentas por cobrar: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if month.Count > 0 {
		avg = month.Total.Div(decimal.NewFromInt(int64(month.Count))).Round(2)
	}
	products := make([]dto.TopProductDTO, 0, len(top))
	for _, p := range top {
		products = append(products, dto.TopProductDTO{
			ProductID:    p.ProductID,
			Description:  p.Description,
			QuantitySold: p.Quantity,
			TotalRevenue: p.Total.Round(2),
		})
	}
	out := &dto.DashboardSummaryDTO{
		TodaySales:         today.Total.Round(2),
		TodayCount:         today.Count,
		MonthlySales:       month.Total.Round(2),
		MonthlyCount:       month.Count,
		AverageTicket:      avg,
		TopProducts:        products,
		LowStockCount:      lowStock,
		ReceivablesPending: recv.PendingTotal.Round(2),
		ReceivablesOverdue: recv.OverdueTotal.Round(2),
		OverdueCount:       recv.OverdueCount,
		DateLabel:          monthLabel(now),
	}
	uc.store(ctx, key, out)
	return out, nil
}

func (uc *DashboardUseCase) cached(ctx context.Context, key string) (*dto.DashboardSummaryDTO, bool) {
	if uc.cache == nil || uc.ttl <= 0 {
		return nil, false
	}
	raw, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("dashboard: caché no disponible")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return &out, true
}

// store es best-effort: un fallo de caché no rompe la respuesta.
func (uc *DashboardUseCase) store(ctx context.Context, key string, out *dto.DashboardSummaryDTO) {
	if uc.cache == nil || uc.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("dashboard: no se pudo cachear")
	}
}

// cacheKey cambia con el día para que el resumen no cruce la medianoche.
func cacheKey(companyID string, now time.Time) string {
	return fmt.Sprintf("dashboard:%s:%s", companyID, now.Format("2006-01-02"))
}

// monthLabel etiqueta legible del mes, ej: "março 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
