package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/smart-insole-relay/internal/api/http"
	"github.com/i474232898/smart-insole-relay/internal/app"
	"github.com/i474232898/smart-insole-relay/internal/config"
	"github.com/i474232898/smart-insole-relay/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.AppEnv, cfg.LogLevel, httpapi.ServiceName)
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"port", cfg.Port,
		"staticDir", cfg.StaticDir,
		"upstreamURL", cfg.UpstreamURL,
		"upstreamTimeout", cfg.UpstreamTimeout.String(),
		"breakerFailures", cfg.BreakerFailures,
		"breakerCooldown", cfg.BreakerCooldown.String(),
		"probeInterval", cfg.ProbeInterval.String(),
	)

	relay := app.Build(cfg, logger, true)
	if err := relay.Scheduler.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer relay.Scheduler.Stop()

	go func() {
		logger.Info("http listening",
			"addr", ":"+cfg.Port,
			"healthData", "http://localhost:"+cfg.Port+"/api/health-data",
			"historicalData", "http://localhost:"+cfg.Port+"/api/historical-data",
		)
		if err := relay.App.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := relay.App.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
