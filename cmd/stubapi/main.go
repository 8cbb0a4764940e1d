package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weblarek/storefront/internal/infrastructure/config"
	"github.com/weblarek/storefront/internal/infrastructure/logger"
	"github.com/weblarek/storefront/internal/infrastructure/telemetry"
	"github.com/weblarek/storefront/internal/interfaces/http/handler"
	"github.com/weblarek/storefront/internal/interfaces/http/middleware"
	"github.com/weblarek/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"
)

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

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	serviceName := cfg.App.Name + "-stubapi"
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	products := handler.FixtureProducts()
	if cfg.Stub.FakeProducts > 0 {
		products = append(products, handler.GenerateProducts(uint64(cfg.Stub.Seed), cfg.Stub.FakeProducts)...)
	}
	store := handler.NewStore(products)

	engine, err := router.NewEngine(router.Config{
		Tracing: middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     tp.IsEnabled(),
		},
	}, store, log)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Stub.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Stub API starting",
			zap.String("addr", srv.Addr),
			zap.String("base_path", router.DefaultBasePath),
			zap.Int("products", len(products)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down stub API...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Stub API exited", zap.Int("orders", len(store.Orders())))
}
