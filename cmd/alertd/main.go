package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aegisflood/alert-service/internal/adapter/gateway"
	httpadapter "github.com/aegisflood/alert-service/internal/adapter/http"
	kafkaadapter "github.com/aegisflood/alert-service/internal/adapter/kafka"
	"github.com/aegisflood/alert-service/internal/adapter/postgres"
	"github.com/aegisflood/alert-service/internal/adapter/weather"
	"github.com/aegisflood/alert-service/internal/config"
	"github.com/aegisflood/alert-service/internal/dispatch"
	"github.com/aegisflood/alert-service/internal/observability"
	"github.com/aegisflood/alert-service/internal/predict"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	store, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gw := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayTimeout, logger, metrics)
	if cfg.GatewayAPIKey == "" {
		logger.Warn("notification gateway in stub mode, messages will not be delivered")
	}

	// Audit publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher dispatch.EventPublisher
	var publisherCloser interface{ Close() error }
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		publisher = p
		publisherCloser = p
		logger.Info("kafka audit publishing enabled", "topic", cfg.KafkaAuditTopic)
	} else {
		logger.Info("kafka audit publishing disabled")
	}

	seed := cfg.WeatherSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	weatherSource := weather.NewRandomSource(seed)

	dispatcher := dispatch.New(store, store, gw, store, publisher, logger, metrics, cfg.GatewayTimeout)
	predictor := predict.New(store, store, weatherSource, predict.FirstRegionLocator{Regions: store}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Dispatcher: dispatcher,
		Alerts:     store,
		Predictor:  predictor,
		Dashboard:  store,
		Ready:      store,
		JWTSecret:  cfg.JWTSecret,
		Logger:     logger,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisherCloser != nil {
		if err := publisherCloser.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
