package sensor

import (
	"context"
	"errors"
)

// ErrUpstreamUnavailable covers every way the upstream call can fail:
// connection errors, non-2xx responses, timeouts and an open breaker.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Result is the outcome of a single upstream fetch: either a payload or the
// reason the upstream could not be reached.
type Result struct {
	Payload Payload
	Err     error
}

// Ok wraps a successfully fetched payload.
func Ok(p Payload) Result {
	return Result{Payload: p}
}

// Fail wraps an upstream failure.
func Fail(err error) Result {
	return Result{Err: err}
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Upstream abstracts the sensor API the relay reads from.
type Upstream interface {
	FetchLatest(ctx context.Context) Result
}
