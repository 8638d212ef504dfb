package app

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	httpapi "github.com/i474232898/smart-insole-relay/internal/api/http"
	"github.com/i474232898/smart-insole-relay/internal/config"
	"github.com/i474232898/smart-insole-relay/internal/scheduler"
	"github.com/i474232898/smart-insole-relay/internal/sensor"
	"github.com/i474232898/smart-insole-relay/internal/sensor/upstream"
	"github.com/i474232898/smart-insole-relay/internal/store"
)

// checkRetention bounds how old a recorded upstream check may get.
const checkRetention = 24 * time.Hour

// Relay holds the wired components of the running service.
type Relay struct {
	App       *fiber.App
	Service   *sensor.Service
	Scheduler *scheduler.Scheduler
	Checks    *store.MemoryStore

	// Upstream serves the data endpoints. The scheduler uses a separate
	// client so its failures never open the data breaker.
	Upstream *upstream.Client
	Probe    *upstream.Client
}

// Build wires the relay from configuration. Nothing is started.
func Build(cfg *config.AppConfig, logger *slog.Logger, accessLog bool) *Relay {
	if logger == nil {
		logger = slog.Default()
	}

	client := upstream.NewClient(cfg.Upstream(), logger)
	service := sensor.NewService(client, sensor.NewSynthesizer(nil, nil), logger)

	probe := upstream.NewClient(cfg.ProbeUpstream(), logger.With("component", "probe"))
	checks := store.NewMemoryStore(cfg.ProbeHistory, checkRetention)
	sched := scheduler.New(probe, checks, cfg.ProbeInterval, logger)

	app := httpapi.NewApp(httpapi.AppOptions{
		StaticDir: cfg.StaticDir,
		AccessLog: accessLog,
	})
	httpapi.RegisterHealth(app, checks, client)
	httpapi.RegisterRoutes(app, service)

	return &Relay{
		App:       app,
		Service:   service,
		Scheduler: sched,
		Checks:    checks,
		Upstream:  client,
		Probe:     probe,
	}
}
