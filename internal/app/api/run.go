package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	"github.com/openmall/order-api-server/internal/app/api/server"
	paymentclient "github.com/openmall/order-api-server/internal/clients/http/payment"
	catalogmemory "github.com/openmall/order-api-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/openmall/order-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/openmall/order-api-server/internal/domains/catalog/application"
	catalogports "github.com/openmall/order-api-server/internal/domains/catalog/ports"
	checkoutmemory "github.com/openmall/order-api-server/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/openmall/order-api-server/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/openmall/order-api-server/internal/domains/checkout/adapters/persistence/postgres"
	checkoutapp "github.com/openmall/order-api-server/internal/domains/checkout/application"
	checkoutports "github.com/openmall/order-api-server/internal/domains/checkout/ports"
	ordersmemory "github.com/openmall/order-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/openmall/order-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/openmall/order-api-server/internal/domains/orders/adapters/persistence/postgres"
	orderssearch "github.com/openmall/order-api-server/internal/domains/orders/adapters/search"
	ordersworkflows "github.com/openmall/order-api-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/openmall/order-api-server/internal/domains/orders/application"
	ordersports "github.com/openmall/order-api-server/internal/domains/orders/ports"
	suppliersmemory "github.com/openmall/order-api-server/internal/domains/suppliers/adapters/memory"
	suppliersobs "github.com/openmall/order-api-server/internal/domains/suppliers/adapters/observability"
	supplierspostgres "github.com/openmall/order-api-server/internal/domains/suppliers/adapters/persistence/postgres"
	suppliersapp "github.com/openmall/order-api-server/internal/domains/suppliers/application"
	suppliersports "github.com/openmall/order-api-server/internal/domains/suppliers/ports"
	platformmigrations "github.com/openmall/order-api-server/internal/platform/migrations"
	platformobservability "github.com/openmall/order-api-server/internal/platform/observability"
	platformpostgres "github.com/openmall/order-api-server/internal/platform/postgres"
)

// Run boots the order HTTP API with observability, repositories, and the
// payment-intent orchestration wired.
func Run(ctx context.Context) error {
	const serviceName = "order-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()
	repos := buildRepositories(db)

	gateway := buildPaymentGateway(cfg, logger)
	var orchestrator ordersports.IntentOrchestrator = ordersworkflows.NewInlinePaymentWorkflows(gateway)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, requesting payment intents inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = ordersworkflows.NewTemporalPaymentWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders, repos.catalog, orderssearch.NewIndexer(),
			ordersapp.WithIntentOrchestrator(orchestrator)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	checkoutService := checkoutobs.New(
		checkoutapp.NewService(repos.checkouts, repos.catalog, repos.suppliers, repos.orderFactory),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)
	supplierService := suppliersobs.New(
		suppliersapp.NewService(repos.supplierRepo),
		suppliersobs.WithLogger(logger),
		suppliersobs.WithTracer(instruments.Tracer("internal.suppliers.application")),
	)
	catalogService := catalogapp.NewService(repos.catalogRepo)

	handlers := server.Handlers{
		Orders:    server.NewOrdersAPI(orderService),
		Checkout:  server.NewCheckoutAPI(checkoutService),
		Suppliers: server.NewSuppliersAPI(supplierService),
		Catalog:   server.NewCatalogAPI(catalogService),
	}

	router := server.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("order API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// repositories groups the persistence ports each context consumes. The orders
// repository doubles as the checkout order factory so drafts and finalization
// share one store.
type repositories struct {
	orders       ordersports.Repository
	orderFactory checkoutports.OrderFactory
	checkouts    checkoutports.Repository
	catalog      catalogports.Source
	catalogRepo  catalogports.Repository
	suppliers    suppliersports.Registry
	supplierRepo suppliersports.Repository
}

func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("repositories configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildRepositories(db *gorm.DB) repositories {
	if db == nil {
		ordersRepo := ordersmemory.NewRepository()
		catalogRepo := catalogmemory.NewRepository()
		suppliersRepo := suppliersmemory.NewRepository()
		return repositories{
			orders:       ordersRepo,
			orderFactory: ordersRepo,
			checkouts:    checkoutmemory.NewRepository(),
			catalog:      catalogRepo,
			catalogRepo:  catalogRepo,
			suppliers:    suppliersRepo,
			supplierRepo: suppliersRepo,
		}
	}
	ordersRepo := orderspostgres.NewRepository(db)
	catalogRepo := catalogpostgres.NewRepository(db)
	suppliersRepo := supplierspostgres.NewRepository(db)
	return repositories{
		orders:       ordersRepo,
		orderFactory: ordersRepo,
		checkouts:    checkoutpostgres.NewRepository(db),
		catalog:      catalogRepo,
		catalogRepo:  catalogRepo,
		suppliers:    suppliersRepo,
		supplierRepo: suppliersRepo,
	}
}

func buildPaymentGateway(cfg Config, logger *slog.Logger) ordersports.PaymentGateway {
	if cfg.PaymentGatewayURL == "" {
		logger.Warn("PAYMENT_GATEWAY_BASE_URL not set, inline payment intents will be reported as failed")
		return nil
	}
	gateway, err := paymentclient.NewClient(cfg.PaymentGatewayURL, cfg.PaymentAppID, cfg.PaymentMerchantID)
	if err != nil {
		logger.Warn("failed to build payment gateway client", slog.String("error", err.Error()))
		return nil
	}
	return gateway
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
