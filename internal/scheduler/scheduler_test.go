package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/smart-insole-relay/internal/sensor"
	"github.com/i474232898/smart-insole-relay/internal/store"
)

type scriptedUpstream struct {
	mu      sync.Mutex
	results []sensor.Result
	calls   int
}

func (s *scriptedUpstream) FetchLatest(context.Context) sensor.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[s.calls%len(s.results)]
	s.calls++
	return r
}

func (s *scriptedUpstream) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProbeRecordsOutcome(t *testing.T) {
	up := &scriptedUpstream{results: []sensor.Result{
		sensor.Ok(sensor.Payload{}),
		sensor.Fail(sensor.ErrUpstreamUnavailable),
	}}
	checks := store.NewMemoryStore(10, 0)
	s := New(up, checks, time.Minute, quietLogger())

	s.Probe()
	st, err := checks.Status()
	require.NoError(t, err)
	assert.True(t, st.LastCheck.OK)
	assert.Empty(t, st.LastCheck.Error)

	s.Probe()
	st, err = checks.Status()
	require.NoError(t, err)
	assert.False(t, st.LastCheck.OK)
	assert.Equal(t, sensor.ErrUpstreamUnavailable.Error(), st.LastCheck.Error)
	assert.Equal(t, 1, st.ConsecutiveFailures)
}

func TestStartDisabled(t *testing.T) {
	up := &scriptedUpstream{results: []sensor.Result{sensor.Ok(sensor.Payload{})}}
	s := New(up, store.NewMemoryStore(10, 0), 0, quietLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, up.Calls())
}

func TestStartRunsProbe(t *testing.T) {
	up := &scriptedUpstream{results: []sensor.Result{sensor.Ok(sensor.Payload{})}}
	checks := store.NewMemoryStore(10, 0)
	s := New(up, checks, time.Hour, quietLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := checks.Status()
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}
