package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/restaurant-backoffice/internal/app/api"
	driverspostgres "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/adapters/persistence/postgres"
	driversapp "github.com/Apurer/restaurant-backoffice/internal/domains/drivers/application"
	ordersdirectory "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/directory"
	ordersobs "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/restaurant-backoffice/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/restaurant-backoffice/internal/domains/orders/application"
	platformobservability "github.com/Apurer/restaurant-backoffice/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-backoffice/internal/platform/postgres"
	platformtemporal "github.com/Apurer/restaurant-backoffice/internal/platform/temporal"
	orderactivities "github.com/Apurer/restaurant-backoffice/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/restaurant-backoffice/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "restaurant-backoffice-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	obsCfg := platformobservability.ConfigFromEnv(serviceName)
	obsCfg.LogLevel = cfg.LogLevel
	obsCfg.LogFormat = cfg.LogFormat
	instruments, shutdown, err := platformobservability.Init(ctx, obsCfg)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// Activities must see the same requests as the API, so an in-memory store is not an option here.
	db, closeDB, err := platformpostgres.Open(ctx, platformpostgres.Config{DSN: cfg.PostgresDSN}, logger)
	if err != nil {
		logger.Error("worker failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeDB()
	if db == nil {
		logger.Error("POSTGRES_DSN is required to run the dispatch worker")
		os.Exit(1)
	}

	notifier, err := api.NewNotifier(cfg, logger)
	if err != nil {
		logger.Error("failed to configure driver notifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	drivers := driversapp.NewService(driverspostgres.NewRepository(db))
	orderService := ordersobs.New(
		ordersapp.NewService(
			orderspostgres.NewRepository(db),
			ordersapp.WithDriverDirectory(ordersdirectory.NewDrivers(drivers)),
			ordersapp.WithNotifier(notifier),
			ordersapp.WithDispatchMessage(cfg.DispatchMessage),
			ordersapp.WithNotifyConcurrency(cfg.NotifyConcurrency),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService)

	temporalClient, err := platformtemporal.Dial(
		platformtemporal.ClientConfig{Address: cfg.TemporalAddress, Namespace: cfg.TemporalNamespace},
		instruments.Tracer("temporal-worker"),
		logger,
	)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.DispatchTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.DispatchWorkflow, workflow.RegisterOptions{Name: orderworkflows.DispatchWorkflowName})
	w.RegisterActivityWithOptions(activities.MarkDispatched, activity.RegisterOptions{Name: orderactivities.MarkDispatchedActivityName})
	w.RegisterActivityWithOptions(activities.NotifyDrivers, activity.RegisterOptions{Name: orderactivities.NotifyDriversActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.DispatchTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
