package sensor

import (
	"context"
	"log/slog"
)

// Service answers the dashboard endpoints. Every call makes its own upstream
// request; upstream failures are absorbed into fabricated data.
type Service struct {
	upstream Upstream
	synth    *Synthesizer
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(upstream Upstream, synth *Synthesizer, logger *slog.Logger) *Service {
	if synth == nil {
		synth = NewSynthesizer(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		upstream: upstream,
		synth:    synth,
		logger:   logger,
	}
}

// Current returns the latest reading, or a fallback reading when the upstream
// cannot be reached.
func (s *Service) Current(ctx context.Context) Reading {
	res := s.fetch(ctx, "health-data")
	if !res.OK() {
		return s.synth.FallbackReading()
	}
	return s.synth.TransformReading(res.Payload)
}

// History returns 24 hourly readings derived from the latest upstream sample,
// or a fully fabricated series when the upstream cannot be reached.
func (s *Service) History(ctx context.Context) HistoricalSeries {
	res := s.fetch(ctx, "historical-data")
	if !res.OK() {
		return s.synth.FallbackSeries()
	}
	return s.synth.DeriveSeries(s.synth.TransformReading(res.Payload))
}

func (s *Service) fetch(ctx context.Context, endpoint string) Result {
	if s.upstream == nil {
		res := Fail(ErrUpstreamUnavailable)
		s.logger.Warn("no upstream configured; serving fallback data", "endpoint", endpoint)
		return res
	}

	res := s.upstream.FetchLatest(ctx)
	if !res.OK() {
		s.logger.Warn("upstream fetch failed; serving fallback data",
			"endpoint", endpoint,
			"error", res.Err,
		)
	}
	return res
}
