package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/overwatch-coder/souppp-ecom/internal/dal/mailer"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/postgres"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/rabbitmq"
	outboxrepo "github.com/overwatch-coder/souppp-ecom/internal/dal/repositories/outbox/postgres"
	"github.com/overwatch-coder/souppp-ecom/internal/otel"
	"github.com/overwatch-coder/souppp-ecom/internal/service/services/ordersvc"
	httptransport "github.com/overwatch-coder/souppp-ecom/internal/transport/http"
	outboxworker "github.com/overwatch-coder/souppp-ecom/internal/worker/outbox"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outboxworker.Worker
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient(viper.GetString("rabbitmq.orders.exchange"))

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithNotifier(mailer.MustNewMailer()),
	)

	transport := httptransport.NewHTTPTransport(orderSvc)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.Pool()),
		rabbitClient,
	)

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		outboxWorker:   worker,
		otelController: otelController,
	}
}

// Run starts the HTTP server and the outbox worker, then shuts both
// down gracefully on an interrupt signal.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		a.outboxWorker.Start(groupCtx)

		return nil
	})

	<-groupCtx.Done()
	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := group.Wait(); err != nil {
		slog.Error("Application error", "error", err)
	}

	// Let queued notifications finish before tearing down.
	a.orderSvc.Close()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracing shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
