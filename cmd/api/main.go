package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/app"
	"github.com/georgemunganga/storefront/internal/platform/config"
	"github.com/georgemunganga/storefront/internal/platform/logging"
	"github.com/georgemunganga/storefront/internal/platform/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
		if err != nil {
			logger.Fatal("tracing setup failed", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		logger.Error("storefront stopped", zap.Error(err))
		return
	}
	logger.Info("storefront stopped")
}
