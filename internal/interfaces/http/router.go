package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/analytics"
	"github.com/jhoicas/pdv-api/internal/application/auth"
	"github.com/jhoicas/pdv-api/internal/application/cashier"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/purchasing"
	"github.com/jhoicas/pdv-api/internal/application/receivables"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// AppConfig parámetros del servidor Fiber.
type AppConfig struct {
	Name    string
	Log     zerolog.Logger
	Metrics HTTPObserver // nil desactiva las métricas HTTP
}

// NewApp crea la app Fiber con el manejador de errores y los middlewares globales.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(cfg.Log))
	app.Use(recover.New())
	if cfg.Metrics != nil {
		app.Use(Metrics(cfg.Metrics))
	}
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	UserUC         *usecase.UserUseCase
	CustomerUC     *usecase.CustomerUseCase
	ProductUC      *usecase.ProductUseCase
	StockUC        *inventory.StockUseCase
	SaleUC         *sales.SaleUseCase
	EntryUC        *purchasing.EntryUseCase
	ReceivableUC   *receivables.ReceivableUseCase
	CashRegisterUC *cashier.CashRegisterUseCase
	DashboardUC    *analytics.DashboardUseCase

	JWTSecret      string
	Idempotency    IdempotencyStore // nil: Idempotency-Key se ignora
	IdempotencyTTL time.Duration
	Jobs           OverdueEnqueuer // nil: el barrido manual corre en línea
	MetricsHandler http.Handler    // nil: sin /metrics
	LoginRateLimit int             // intentos por minuto e IP; 0 desactiva
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	v := NewValidator()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, v)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if deps.LoginRateLimit > 0 {
		authGroup.Post("/login", limiter.New(limiter.Config{Max: deps.LoginRateLimit, Expiration: time.Minute}), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	var resolver CallerResolver
	if deps.AuthUC != nil {
		resolver = deps.AuthUC
	}
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, resolver))
	protected.Get("/auth/me", authHandler.Me)

	// Administración de la plataforma
	companyHandler := NewCompanyHandler(deps.CompanyUC, v)
	jobHandler := NewJobHandler(deps.Jobs, deps.ReceivableUC)
	admin := protected.Group("/admin", RequireRole(string(entity.RoleAdmin)))
	admin.Get("/companies", companyHandler.List)
	admin.Get("/companies/:id", companyHandler.GetByID)
	admin.Put("/companies/:id/approve", companyHandler.Approve)
	admin.Put("/companies/:id/reject", companyHandler.Reject)
	admin.Put("/companies/:id/deactivate", companyHandler.Deactivate)
	admin.Put("/companies/:id/reactivate", companyHandler.Reactivate)
	admin.Post("/jobs/mark-overdue", jobHandler.MarkOverdue)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC, v)
	users := protected.Group("/users", RequirePermission(entity.PermManageUsers))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Clientes
	customerHandler := NewCustomerHandler(deps.CustomerUC, v)
	manageCustomers := RequirePermission(entity.PermManageCustomers)
	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.List)
	customers.Post("/", manageCustomers, customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/sales", customerHandler.Sales)
	customers.Put("/:id", manageCustomers, customerHandler.Update)
	customers.Delete("/:id", manageCustomers, customerHandler.Delete)

	// Productos y stock
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC, v)
	manageProducts := RequirePermission(entity.PermManageProducts)
	adjustStock := RequirePermission(entity.PermAdjustStock)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", manageProducts, productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", manageProducts, productHandler.Update)
	products.Delete("/:id", manageProducts, productHandler.Delete)
	products.Post("/:id/add-stock", adjustStock, productHandler.AddStock)
	products.Put("/:id/remove-stock", adjustStock, productHandler.RemoveStock)
	products.Get("/:id/movements", productHandler.Movements)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC, v)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", RequirePermission(entity.PermSell), Idempotency(deps.Idempotency, deps.IdempotencyTTL), saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Put("/:id/cancel", RequirePermission(entity.PermCancelSales), saleHandler.Cancel)

	// Entradas de mercadería
	entryHandler := NewEntryHandler(deps.EntryUC, v)
	entries := protected.Group("/entries", RequirePermission(entity.PermManageEntries))
	entries.Get("/", entryHandler.List)
	entries.Post("/", entryHandler.Create)
	entries.Get("/:id", entryHandler.GetByID)
	entries.Put("/:id", entryHandler.Update)
	entries.Post("/:id/complete", entryHandler.Complete)
	entries.Put("/:id/cancel", entryHandler.Cancel)
	entries.Delete("/:id", entryHandler.Cancel)

	// Cuentas por cobrar
	receivableHandler := NewReceivableHandler(deps.ReceivableUC, v)
	receivePayments := RequirePermission(entity.PermReceivePayments)
	recv := protected.Group("/receivables")
	recv.Get("/", receivableHandler.List)
	recv.Get("/overdue", receivableHandler.Overdue)
	recv.Get("/summary", receivableHandler.Summary)
	recv.Get("/:id", receivableHandler.GetByID)
	recv.Post("/:id/payments", receivePayments, receivableHandler.AddPayment)
	recv.Post("/:saleId/payment/:paymentId", receivePayments, receivableHandler.PayBySalePayment)
	recv.Put("/:id/cancel", RequirePermission(entity.PermManageReceivables), receivableHandler.Cancel)

	// Caja
	cashHandler := NewCashRegisterHandler(deps.CashRegisterUC, v)
	cash := protected.Group("/cash-registers", RequirePermission(entity.PermManageCashRegister))
	cash.Get("/", cashHandler.List)
	cash.Get("/current", cashHandler.Current)
	cash.Post("/open", cashHandler.Open)
	cash.Post("/close", cashHandler.Close)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", RequirePermission(entity.PermViewReports), dashboardHandler.GetSummary)
}
