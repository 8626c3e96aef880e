// @title                       PDV API
// @version                     1.0
// @description                 API multi-empresa de punto de venta: ventas, stock, entradas, cuentas por cobrar y caja.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pdv-api/docs"
	"github.com/jhoicas/pdv-api/internal/application/analytics"
	"github.com/jhoicas/pdv-api/internal/application/auth"
	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/purchasing"
	"github.com/jhoicas/pdv-api/internal/application/receivables"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pdv-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/pdv-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/pdv-api/internal/interfaces/http"
	"github.com/jhoicas/pdv-api/internal/jobs"
	"github.com/jhoicas/pdv-api/internal/observability"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

// devJWTSecret solo se usa en development cuando JWT_SECRET no está definido.
const devJWTSecret = "pdv-dev-secret"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx := context.Background()

	var (
		tx    repository.TxRunner
		repos repository.Repos
	)
	switch cfg.App.Store {
	case "memory":
		store := memory.NewStore()
		tx, repos = memory.NewTxRunner(store), store.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Redis es opcional: sin él no hay idempotencia, caché del dashboard ni cola de jobs.
	var (
		redisClient *goredis.Client
		idempotency httpRouter.IdempotencyStore
		dashCache   analytics.Cache
		jobQueue    httpRouter.OverdueEnqueuer
	)
	if cfg.Redis.Enabled() {
		redisClient, err = infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer func() { _ = redisClient.Close() }()

		idempotency = infraredis.NewIdempotencyStore(redisClient, "pdv:idem:")
		dashCache = infraredis.NewCache(redisClient, "pdv:cache:")

		jobClient := jobs.NewClient(jobs.RedisOpt(cfg.Redis))
		defer func() { _ = jobClient.Close() }()
		jobQueue = jobClient
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: idempotencia y cola de jobs desactivadas")
	}

	metrics := observability.NewMetrics()
	ledger := inventory.NewStockLedger()
	zl := log.Zerolog()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	receipts := infrapdf.NewReceiptRenderer(loc)

	authUC := auth.NewAuthUseCase(tx, repos, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, zl)
	companyUC := usecase.NewCompanyUseCase(repos.Companies, zl)
	userUC := usecase.NewUserUseCase(repos.Users, zl)
	customerUC := usecase.NewCustomerUseCase(repos, zl)
	productUC := usecase.NewProductUseCase(tx, repos, ledger, zl)
	stockUC := inventory.NewStockUseCase(tx, repos, ledger, zl)
	saleUC := sales.NewSaleUseCase(tx, repos, ledger, receipts, zl).WithRecorder(metrics)
	entryUC := purchasing.NewEntryUseCase(tx, repos, ledger, zl)
	receivableUC := receivables.NewReceivableUseCase(tx, repos, zl)
	cashRegisterUC := cashier.NewCashRegisterUseCase(tx, repos, zl)
	dashboardUC := analytics.NewDashboardUseCase(repos, dashCache, cfg.Redis.DashboardCacheTTL, zl)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:    cfg.App.Name,
		Log:     zl,
		Metrics: metrics,
	})

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs desactivado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CompanyUC:      companyUC,
		UserUC:         userUC,
		CustomerUC:     customerUC,
		ProductUC:      productUC,
		StockUC:        stockUC,
		SaleUC:         saleUC,
		EntryUC:        entryUC,
		ReceivableUC:   receivableUC,
		CashRegisterUC: cashRegisterUC,
		DashboardUC:    dashboardUC,
		JWTSecret:      cfg.JWT.Secret,
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Jobs:           jobQueue,
		MetricsHandler: metrics.Handler(),
		LoginRateLimit: 10,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
