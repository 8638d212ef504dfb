package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/smart-insole-relay/internal/sensor"
)

// DefaultURL is the sensor API the relay reads from unless configured otherwise.
const DefaultURL = "https://testit-theta.vercel.app/api/latest"

// DefaultTimeout bounds the single upstream attempt.
const DefaultTimeout = 5 * time.Second

// Config bundles the upstream endpoint and its resilience settings.
type Config struct {
	URL     string
	Timeout time.Duration
	Breaker BreakerConfig
}

// Client fetches the latest sample from the upstream sensor API.
// It makes exactly one attempt per call; there are no retries.
type Client struct {
	url     string
	timeout time.Duration
	http    *resty.Client
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger})

	return &Client{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		http:    httpClient,
		circuit: newBreaker("sensor-upstream", cfg.Breaker, logger),
		logger:  logger,
	}
}

// FetchLatest performs the upstream GET. Every failure is reported as
// sensor.ErrUpstreamUnavailable with the concrete cause attached.
func (c *Client) FetchLatest(ctx context.Context) sensor.Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			Get(c.url)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode())
		}
		return resp.Body(), nil
	})
	if err != nil {
		return sensor.Fail(fmt.Errorf("%w: %w", sensor.ErrUpstreamUnavailable, breakerError(err)))
	}

	body, ok := result.([]byte)
	if !ok {
		return sensor.Fail(fmt.Errorf("%w: unexpected result type from circuit breaker", sensor.ErrUpstreamUnavailable))
	}

	payload, ok := sensor.DecodePayload(body)
	if !ok {
		c.logger.Warn("upstream body is not a JSON object; treating every field as absent",
			"url", c.url,
			"bytes", len(body),
		)
	}
	return sensor.Ok(payload)
}

// BreakerState reports the breaker state as closed, half-open or open.
func (c *Client) BreakerState() string {
	return c.circuit.State().String()
}

// URL returns the configured upstream endpoint.
func (c *Client) URL() string {
	return c.url
}

// restyLogger routes resty's internal messages through slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
