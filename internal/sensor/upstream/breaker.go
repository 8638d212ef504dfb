package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig controls when the upstream breaker trips and how long it stays open.
type BreakerConfig struct {
	// Failures is the number of consecutive failures that opens the breaker.
	// Zero disables tripping.
	Failures uint32
	// Cooldown is how long the breaker stays open before letting a probe through.
	Cooldown time.Duration
}

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errCircuitOpen      = errors.New("circuit breaker open")
)

func newBreaker(name string, cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.Failures == 0 {
				return false
			}
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("upstream breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// isSuccessful keeps caller cancellations (e.g. a client disconnecting
// mid-request) from counting against the upstream. Timeouts still count.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// breakerError normalizes errors returned by the breaker itself.
func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", errCircuitOpen, err)
	}
	return err
}
