package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/smart-insole-relay/internal/sensor"
	"github.com/i474232898/smart-insole-relay/internal/store"
)

// Recorder receives the outcome of each probe.
type Recorder interface {
	Record(c store.Check)
}

// Scheduler periodically probes the upstream and records whether it answered.
// The recorded status is informational; the data endpoints never read it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	upstream  sensor.Upstream
	recorder  Recorder
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(upstream sensor.Upstream, recorder Recorder, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		upstream:  upstream,
		recorder:  recorder,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the probe job and starts the underlying scheduler.
// A non-positive interval disables probing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 || s.upstream == nil {
		s.logger.Info("scheduler: upstream probing disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.Probe)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: upstream probing started", "interval", s.interval.String())
	return nil
}

// Probe runs one upstream check and records its outcome.
func (s *Scheduler) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	started := time.Now()
	res := s.upstream.FetchLatest(ctx)

	check := store.Check{
		CheckedAt: started.UTC(),
		OK:        res.OK(),
		LatencyMs: time.Since(started).Milliseconds(),
	}
	if !res.OK() {
		check.Error = res.Err.Error()
		s.logger.Warn("scheduler: upstream probe failed", "error", res.Err)
	} else {
		s.logger.Debug("scheduler: upstream probe succeeded", "latencyMs", check.LatencyMs)
	}

	s.recorder.Record(check)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
