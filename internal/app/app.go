package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amrelsaid4/Restaurant/internal/config"
	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	"github.com/amrelsaid4/Restaurant/internal/dal/rabbitmq"
	outboxrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/outbox/postgres"
	"github.com/amrelsaid4/Restaurant/internal/otel"
	"github.com/amrelsaid4/Restaurant/internal/payments/stripeclient"
	"github.com/amrelsaid4/Restaurant/internal/service/services/authsvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/checkoutsvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/menusvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ordersvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ratingsvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/statssvc"
	httptransport "github.com/amrelsaid4/Restaurant/internal/transport/http"
	"github.com/amrelsaid4/Restaurant/internal/worker/outbox"
)

// orderCreatedQueue must exist before the outbox worker publishes to it.
const orderCreatedQueue = "restaurant.order.created"

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	outboxWorker   *outbox.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    orderCreatedQueue,
		Durable: true,
	}); err != nil {
		panic("Failed to declare order queue: " + err.Error())
	}

	stripeClient := stripeclient.New(config.MustStripe())

	authSvc := authsvc.MustNewAuthService(
		authsvc.WithPostgresClient(postgresClient),
	)
	menuSvc := menusvc.MustNewMenuService(
		menusvc.WithPostgresClient(postgresClient),
	)
	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)
	ratingSvc := ratingsvc.MustNewRatingService(
		ratingsvc.WithPostgresClient(postgresClient),
	)
	statsSvc := statssvc.MustNewStatsService(
		statssvc.WithPostgresClient(postgresClient),
	)
	checkoutSvc := checkoutsvc.MustNewCheckoutService(
		checkoutsvc.WithPostgresClient(postgresClient),
		checkoutsvc.WithPaymentProcessor(stripeClient),
		checkoutsvc.WithGuestProvider(authSvc),
	)

	transport := httptransport.NewHTTPTransport(httptransport.Services{
		Auth:     authSvc,
		Menu:     menuSvc,
		Orders:   orderSvc,
		Ratings:  ratingSvc,
		Checkout: checkoutSvc,
		Stats:    statsSvc,
		Keys:     stripeClient,
	})
	transport.RegisterRoutes()

	outboxWorker := outbox.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.DB()),
		rabbitClient,
	)

	return &App{
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	cancelWorker()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.postgresClient.Close(); err != nil {
		slog.Error("Database connection close error", "error", err)
	} else {
		slog.Info("Database connection closed gracefully")
	}

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracing shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
