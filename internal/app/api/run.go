package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	smsclient "github.com/Apurer/restaurant-backoffice/internal/clients/http/sms"
	billingmemory "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/memory"
	billingobs "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/observability"
	billingpostgres "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/persistence/postgres"
	billingsources "github.com/Apurer/restaurant-backoffice/internal/domains/billing/adapters/sources"
	billingapp "github.com/Apurer/restaurant-backoffice/internal/domains/billing/application"
	billingports "github.com/Apurer/restaurant-backoffice/internal/domains/billing/ports"
	catalogmemory "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/application"
	catalogports "github.com/Apurer/restaurant-backoffice/internal/domains/catalog/ports"
	driversmemory "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/adapters/memory"
	driverspostgres "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/adapters/persistence/postgres"
	driversapp "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/application"
	driversports "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/ports"
	ordersfeed "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/changefeed"
	ordersdirectory "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/directory"
	orderssms "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/external/sms"
	ordersmemory "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/persistence/postgres"
	ordersrealtime "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/realtime"
	ordersworkflows "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/restaurant-backoffice/internal/domains/orders/application"
	ordersports "github.com/Apurer/restaurant-backoffice/internal/domains/orders/ports"
	restaurantsmemory "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/adapters/memory"
	restaurantspostgres "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/adapters/persistence/postgres"
	restaurantsapp "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/application"
	restaurantsports "github.com/Apurer/restaurant-backoffice/internal/domains/restaurants/ports"
	platformmetrics "github.com/Apurer/restaurant-backoffice/internal/platform/metrics"
	"github.com/Apurer/restaurant-backoffice/internal/platform/migrations"
	platformobservability "github.com/Apurer/restaurant-backoffice/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-backoffice/internal/platform/postgres"
	platformtemporal "github.com/Apurer/restaurant-backoffice/internal/platform/temporal"
	"github.com/Apurer/restaurant-backoffice/internal/server"
)

const serviceName = "restaurant-backoffice-api"

// Run boots the backoffice HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	obsCfg := platformobservability.ConfigFromEnv(serviceName)
	obsCfg.Environment = cfg.Environment
	obsCfg.LogLevel = cfg.LogLevel
	obsCfg.LogFormat = cfg.LogFormat
	instruments, shutdown, err := platformobservability.Init(ctx, obsCfg)
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

	db, closeDB, err := platformpostgres.Open(ctx, platformpostgres.Config{DSN: cfg.PostgresDSN}, logger)
	if err != nil {
		return err
	}
	defer closeDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	repos := buildRepositories(db)

	orderRepo, feed, closeFeed, err := buildChangeFeed(cfg, repos.orders, logger)
	if err != nil {
		return err
	}
	defer closeFeed()

	driverService := driversapp.NewService(repos.drivers)
	catalogService := catalogapp.NewService(repos.items)
	restaurantService := restaurantsapp.NewService(repos.restaurants)

	hub := ordersrealtime.NewHub(logger, originAllowed(cfg.CORSAllowedOrigins))
	defer hub.Close()
	notifier, err := NewNotifier(cfg, logger)
	if err != nil {
		return err
	}
	coreOrders := ordersapp.NewService(
		orderRepo,
		ordersapp.WithDriverDirectory(ordersdirectory.NewDrivers(driverService)),
		ordersapp.WithNotifier(notifier),
		ordersapp.WithEventPublisher(hub),
		ordersapp.WithChangeFeed(feed),
		ordersapp.WithAlertTTL(cfg.AlertTTL),
		ordersapp.WithDispatchMessage(cfg.DispatchMessage),
		ordersapp.WithNotifyConcurrency(cfg.NotifyConcurrency),
		ordersapp.WithLogger(logger),
	)
	if err := coreOrders.Start(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s change feed: %w", cfg.ChangeFeed, err)
	}
	defer func() { _ = coreOrders.Close() }()
	logger.Info("inventory request change feed subscribed", slog.String("feed", cfg.ChangeFeed))

	orderService := ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var dispatch ordersports.DispatchOrchestrator = ordersworkflows.NewInlineDispatchWorkflows(orderService)
	if cfg.TemporalDisabled {
		logger.Warn("Temporal disabled via TEMPORAL_DISABLED, dispatching inline")
	} else if temporalClient, err := platformtemporal.Dial(
		platformtemporal.ClientConfig{Address: cfg.TemporalAddress, Namespace: cfg.TemporalNamespace},
		instruments.Tracer("temporal-client"),
		logger,
	); err != nil {
		logger.Warn("Temporal workflows unavailable, dispatching inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		dispatch = ordersworkflows.NewTemporalDispatchWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	billingService := billingobs.New(
		billingapp.NewService(
			billingsources.NewOrders(orderRepo, cfg.BillingRequireConfirmation),
			billingsources.NewCatalog(catalogService),
			repos.billingSettings,
			repos.invoices,
		),
		billingobs.WithLogger(logger),
		billingobs.WithTracer(instruments.Tracer("internal.billing.application")),
		billingobs.WithMeter(instruments.Meter("internal.billing.application")),
	)

	serverMetrics := platformmetrics.NewServerMetrics("api")
	serverMetrics.RegisterGauge("active_alerts", "New-order alerts currently visible.", func() float64 {
		return float64(len(coreOrders.ActiveAlerts()))
	})
	serverMetrics.RegisterGauge("alert_stream_clients", "Connected alert stream websockets.", func() float64 {
		return float64(hub.Clients())
	})

	handlers := server.ApiHandleFunctions{
		RequestsAPI:    server.NewRequestsAPI(orderService, dispatch),
		AlertsAPI:      server.NewAlertsAPI(orderService, hub),
		BillingAPI:     server.NewBillingAPI(billingService),
		CatalogAPI:     server.NewCatalogAPI(catalogService),
		DriversAPI:     server.NewDriversAPI(driverService),
		RestaurantsAPI: server.NewRestaurantsAPI(restaurantService),
		HealthAPI:      server.NewHealthAPI(healthChecks(db)),
	}
	router := server.NewRouter(handlers, server.Options{
		ServiceName:    serviceName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        serverMetrics,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("backoffice API listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("backoffice API server exited", slog.String("addr", httpServer.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down backoffice API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

type repositories struct {
	orders          ordersports.Repository
	items           catalogports.Repository
	drivers         driversports.Repository
	restaurants     restaurantsports.Repository
	billingSettings billingports.SettingsRepository
	invoices        billingports.InvoiceRepository
}

func buildRepositories(db *gorm.DB) repositories {
	if db == nil {
		return repositories{
			orders:          ordersmemory.NewRepository(),
			items:           catalogmemory.NewRepository(),
			drivers:         driversmemory.NewRepository(),
			restaurants:     restaurantsmemory.NewRepository(),
			billingSettings: billingmemory.NewSettingsRepository(),
			invoices:        billingmemory.NewInvoiceRepository(),
		}
	}
	return repositories{
		orders:          orderspostgres.NewRepository(db),
		items:           catalogpostgres.NewRepository(db),
		drivers:         driverspostgres.NewRepository(db),
		restaurants:     restaurantspostgres.NewRepository(db),
		billingSettings: billingpostgres.NewSettingsRepository(db),
		invoices:        billingpostgres.NewInvoiceRepository(db),
	}
}

// buildChangeFeed returns the repository the application should write through together with
// the feed that reports inserts. NATS mode wraps the repository so local writes are published.
func buildChangeFeed(cfg Config, repo ordersports.Repository, logger *slog.Logger) (ordersports.Repository, ordersports.ChangeFeed, func(), error) {
	switch cfg.ChangeFeed {
	case ChangeFeedPostgres:
		feed := ordersfeed.NewPostgresFeed(
			cfg.PostgresDSN,
			repo,
			ordersfeed.WithChannel(migrations.InsertNotifyChannel),
			ordersfeed.WithPostgresLogger(logger),
		)
		return repo, feed, func() {}, nil
	case ChangeFeedNATS:
		feed, err := ordersfeed.NewNATSFeed(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			return nil, nil, func() {}, err
		}
		closeFeed := func() { _ = feed.Close() }
		return ordersfeed.NewPublishingRepository(repo, feed, logger), feed, closeFeed, nil
	default:
		memRepo, ok := repo.(*ordersmemory.Repository)
		if !ok {
			return nil, nil, func() {}, errors.New("memory change feed requires the in-memory request store")
		}
		return memRepo, memRepo, func() {}, nil
	}
}

// NewNotifier returns the SMS gateway notifier when credentials are configured, and a
// logging notifier otherwise.
func NewNotifier(cfg Config, logger *slog.Logger) (ordersports.Notifier, error) {
	if !cfg.SMSEnabled() {
		logger.Warn("SMS gateway credentials not set, driver notifications will only be logged")
		return orderssms.LogNotifier{Logger: logger}, nil
	}
	client, err := smsclient.NewClient(cfg.SMS, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to configure SMS gateway: %w", err)
	}
	return orderssms.NewNotifier(client), nil
}

func healthChecks(db *gorm.DB) map[string]server.HealthCheck {
	checks := map[string]server.HealthCheck{}
	if db != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return checks
}

// originAllowed mirrors the CORS configuration for websocket upgrades.
func originAllowed(origins []string) func(string) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			return nil
		}
		allowed[origin] = struct{}{}
	}
	return func(origin string) bool {
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
