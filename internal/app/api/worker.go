package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	platformobservability "github.com/Apurer/go-gin-commerce-api/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-commerce-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-commerce-api/internal/platform/temporal/workflows/orders"
)

// RunWorker polls the order placement task queue until ctx is cancelled.
func RunWorker(ctx context.Context) error {
	const workerServiceName = "commerce-worker"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, workerServiceName)
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
	if err := requireSharedStore(store); err != nil {
		return err
	}
	services := BuildServices(store.UnitOfWork, instruments)

	temporalClient, err := DialTemporal(cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	RegisterOrderPlacement(w, orderactivities.NewActivities(services.Orders))

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	stop := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	if err := w.Run(stop); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}

var errWorkerNeedsSharedStore = errors.New("worker requires POSTGRES_DSN: the in-memory store is not shared with the API")

func requireSharedStore(store Store) error {
	if !store.Shared {
		return errWorkerNeedsSharedStore
	}
	return nil
}

// RegisterOrderPlacement registers the order placement workflow and its activities under their public names.
func RegisterOrderPlacement(r worker.Registry, activities *orderactivities.Activities) {
	r.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	r.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
}
