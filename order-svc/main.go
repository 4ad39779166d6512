package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"restaurant-orders/config"
	httpapi "restaurant-orders/order-svc/internal/api/http"
	"restaurant-orders/order-svc/internal/eventbus"
	"restaurant-orders/order-svc/internal/logging"
	"restaurant-orders/order-svc/internal/metrics"
	"restaurant-orders/order-svc/internal/pricing"
	"restaurant-orders/order-svc/internal/service"
	"restaurant-orders/order-svc/internal/storage"
)

const serviceName = "order-svc"

type app struct {
	bus       *eventbus.Bus
	metrics   *metrics.Metrics
	handler   http.Handler
	forwarder *service.EventForwarder
	firehose  *eventbus.Subscription
}

// newApp wires the services around one event bus. rdb and writer are optional:
// without them idempotency keys are ignored and events are not exported.
func newApp(cfg *config.Config, repo *storage.PostgresRepository, rdb *redis.Client, writer storage.MessageWriter) (*app, error) {
	rate, err := cfg.Pricing.Rate()
	if err != nil {
		return nil, err
	}

	bus := eventbus.New(cfg.Events.BufferSize)
	m := metrics.New(serviceName)
	m.WatchEventBus(bus)

	orders := service.NewOrderService(repo, repo, repo, repo, pricing.NewEngine(rate), bus).WithMetrics(m)
	if rdb != nil {
		orders.WithIdempotency(storage.NewRedisCache(rdb, cfg.Redis.IdempotencyTTL))
	}
	qr := service.DefaultQRGenerator{BaseURL: cfg.QRCode.BaseURL, Size: cfg.QRCode.Size}
	billing := service.NewBillingService(repo, repo, repo, bus, qr).WithMetrics(m)

	handler := httpapi.NewHandler(orders, billing, bus)
	handler.ServiceName = serviceName
	handler.AllowedOrigins = cfg.HTTP.CORSOrigins
	if cfg.Auth.JWTSecret != "" {
		auth, err := httpapi.NewAuthenticator(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		handler.Auth = auth
	} else {
		logging.Warn().Msg("auth.jwt_secret is empty, staff routes are unauthenticated")
	}

	a := &app{
		bus:     bus,
		metrics: m,
		handler: httpapi.NewRouter(handler, m),
	}
	if writer != nil {
		a.forwarder = service.NewEventForwarder(storage.NewKafkaPublisher(writer))
		a.firehose = bus.SubscribeAll()
	}
	return a, nil
}

// run serves until ctx is cancelled, then drains. Closing the bus on shutdown
// ends open order streams so Shutdown does not wait on them.
func (a *app) run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	srv.RegisterOnShutdown(a.bus.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Msg("order service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if a.forwarder != nil {
		g.Go(func() error {
			return a.forwarder.Run(gctx, a.firehose.Events())
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("order service shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: serviceName})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg.DB)
	defer db.Close()
	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to ensure schema")
	}

	var rdb *redis.Client
	if cfg.Redis.Address() != "" {
		rdb = config.MustInitRedis(cfg.Redis)
		defer rdb.Close()
	}

	var writer storage.MessageWriter
	if cfg.Kafka.Enabled() {
		kw := config.NewKafkaWriter(cfg.Kafka)
		defer kw.Close()
		writer = kw
	}

	a, err := newApp(cfg, repo, rdb, writer)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build application")
	}

	if err := a.run(ctx, httpapi.NewServer(cfg.HTTP.Addr, a.handler), cfg.HTTP.ShutdownTimeout); err != nil {
		logging.Error().Err(err).Msg("order service stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("order service stopped")
}
