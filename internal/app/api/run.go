package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"golang.org/x/sync/errgroup"

	commercehttp "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/http/handlers"
	commercememory "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/memory"
	commerceobs "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/observability"
	commercepostgres "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/persistence/postgres"
	commerceworkflows "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/workflows"
	commerceapp "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
	"github.com/Apurer/go-gin-commerce-api/internal/platform/httpmetrics"
	"github.com/Apurer/go-gin-commerce-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-commerce-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-commerce-api/internal/platform/postgres"
)

const serviceName = "commerce-api"

// Services bundles the instrumented commerce services served over HTTP.
type Services struct {
	Products  ports.ProductService
	Inventory ports.InventoryService
	Orders    ports.OrderService
	Workflows ports.WorkflowOrchestrator
}

// Run boots the commerce HTTP API with observability, storage, and workflows
// wired, and shuts the server down gracefully once ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
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

	store, err := OpenUnitOfWork(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	services := BuildServices(store.UnitOfWork, instruments)

	closeTemporal := UseTemporalWorkflows(&services, store, func() (client.Client, error) {
		return DialTemporal(cfg, instruments)
	}, logger)
	defer closeTemporal()
	if _, ok := services.Workflows.(*commerceworkflows.TemporalOrderWorkflows); ok {
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewRouter(services, httpmetrics.New(), cfg.ProblemBaseURI)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("commerce API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("commerce API shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("commerce API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// NewRouter assembles the gin engine: tracing, request ids and HTTP metrics
// first, then health, metrics and the commerce routes.
func NewRouter(services Services, metrics *httpmetrics.Metrics, problemBaseURI string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), commercehttp.RequestID(), metrics.Middleware())
	router.GET("/healthz", commercehttp.Healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := commercehttp.NewAPI(
		services.Products,
		services.Inventory,
		services.Orders,
		commercehttp.WithProblemBaseURI(problemBaseURI),
		commercehttp.WithWorkflows(services.Workflows),
	)
	api.Register(router)
	return router
}

// BuildServices decorates the application services with logging, tracing and
// metrics. Order placement runs inline until a Temporal client replaces it.
func BuildServices(uow ports.UnitOfWork, instruments *platformobservability.Instruments) Services {
	logger := effectiveLogger(instruments)
	tracer := instruments.Tracer("internal.commerce.application")
	meter := instruments.Meter("internal.commerce.application")
	opts := []commerceobs.Option{
		commerceobs.WithLogger(logger),
		commerceobs.WithTracer(tracer),
		commerceobs.WithMeter(meter),
	}
	orders := commerceobs.NewOrderService(commerceapp.NewOrderAggregator(uow), opts...)
	return Services{
		Products:  commerceobs.NewProductService(commerceapp.NewProductService(uow), opts...),
		Inventory: commerceobs.NewInventoryService(commerceapp.NewInventoryCoordinator(uow), opts...),
		Orders:    orders,
		Workflows: commerceworkflows.NewInlineOrderWorkflows(orders),
	}
}

// Store is the unit of work backing the commerce services. Shared reports
// whether other processes, such as the Temporal worker, see the same data.
type Store struct {
	UnitOfWork ports.UnitOfWork
	Shared     bool
	Close      func()
}

// OpenUnitOfWork returns a PostgreSQL unit of work with its schema migrated,
// or the process-local in-memory store when no database is reachable.
func OpenUnitOfWork(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return Store{UnitOfWork: commercememory.NewStore(), Close: cleanup}, nil
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return Store{Close: func() {}}, fmt.Errorf("failed to migrate commerce schema: %w", err)
	}
	logger.Info("commerce store configured with postgres")
	return Store{UnitOfWork: commercepostgres.NewUnitOfWork(db), Shared: true, Close: cleanup}, nil
}

// UseTemporalWorkflows routes order placement through Temporal when the store
// is shared with the worker and a client can be dialed. Otherwise orders stay
// inline. The returned func closes the client, if any.
func UseTemporalWorkflows(services *Services, store Store, dial func() (client.Client, error), logger *slog.Logger) func() {
	if !store.Shared {
		logger.Warn("in-memory store is process-local, placing orders inline")
		return func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
		return func() {}
	}
	services.Workflows = commerceworkflows.NewTemporalOrderWorkflows(temporalClient)
	return temporalClient.Close
}

// DialTemporal connects a traced Temporal client unless Temporal is disabled.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
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
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
