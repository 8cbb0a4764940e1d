package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/weblarek/storefront/internal/application/storefront"
	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/shared"
	"github.com/weblarek/storefront/internal/infrastructure/config"
	"github.com/weblarek/storefront/internal/infrastructure/event"
	"github.com/weblarek/storefront/internal/infrastructure/gateway"
	"github.com/weblarek/storefront/internal/infrastructure/logger"
	"github.com/weblarek/storefront/internal/infrastructure/telemetry"
	"github.com/weblarek/storefront/internal/interfaces/console"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/weblarek/storefront"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, log = logger.WithSessionID(ctx, log, uuid.NewString())

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("api", cfg.API.BaseURL),
		zap.String("catalog_policy", cfg.InFlight.CatalogPolicy),
		zap.String("order_policy", cfg.InFlight.OrderPolicy),
	)

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             cfg.Log.Level,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		_ = lp.Shutdown(context.Background())
	}()
	log = telemetry.BridgeLogger(log, lp)

	metrics, err := telemetry.NewStorefrontMetrics(mp.Meter(instrumentationName))
	if err != nil {
		log.Fatal("Failed to create storefront metrics", zap.Error(err))
	}

	// Event bus accepting the registered event set only
	registry := event.NewEventRegistry()
	event.RegisterAllEvents(registry)
	storefront.RegisterIntents(registry)
	bus := event.NewInMemoryEventBus(log,
		event.WithEventRegistry(registry),
		event.WithFailureHook(func(ctx context.Context, name shared.EventName, _ error) {
			metrics.RecordHandlerFailure(ctx, string(name))
		}),
	)

	api, err := gateway.NewClient(gateway.Config{
		BaseURL:          cfg.API.BaseURL,
		Timeout:          cfg.API.Timeout,
		MaxResponseBytes: cfg.API.MaxResponseBytes,
		UserAgent:        cfg.API.UserAgent,
	}, log)
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}

	// Views
	renderer, err := console.NewRenderer(os.Stdout, console.RendererConfig{
		ContentURL:  cfg.API.ContentURL,
		TemplateDir: cfg.Console.TemplateDir,
	}, log)
	if err != nil {
		log.Fatal("Failed to load console templates", zap.Error(err))
	}

	catalogPolicy, err := storefront.ParsePolicy(cfg.InFlight.CatalogPolicy)
	if err != nil {
		log.Fatal("Invalid catalog policy", zap.Error(err))
	}
	orderPolicy, err := storefront.ParsePolicy(cfg.InFlight.OrderPolicy)
	if err != nil {
		log.Fatal("Invalid order policy", zap.Error(err))
	}

	loop := storefront.NewLoop(0, log)
	coord, err := storefront.NewCoordinator(storefront.Deps{
		Bus:      bus,
		Cart:     cart.New(bus),
		Gateway:  api,
		Views:    renderer.Views(),
		Executor: loop,
		Logger:   log,
	},
		storefront.WithMetrics(metrics),
		storefront.WithTracer(tp.Tracer(instrumentationName)),
		storefront.WithPolicies(catalogPolicy, orderPolicy),
	)
	if err != nil {
		log.Fatal("Failed to create coordinator", zap.Error(err))
	}

	session := console.NewSession(os.Stdin, renderer, bus, loop, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		// the session ending ends the program
		defer cancel()
		return session.Run(gctx)
	})
	loop.Post(func() {
		renderer.Help()
		coord.Start(gctx)
	})

	err = g.Wait()
	coord.Stop()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, storefront.ErrLoopStopped) {
		log.Error("Storefront stopped with error", zap.Error(err))
		return
	}
	log.Info("Storefront exited")
}
