package sensor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	result Result
	calls  int
}

func (f *fakeUpstream) FetchLatest(context.Context) Result {
	f.calls++
	return f.result
}

func newTestService(up Upstream, values ...float64) (*Service, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewService(up, newTestSynth(values...), logger), &buf
}

func TestServiceCurrentTransformsPayload(t *testing.T) {
	p, ok := DecodePayload([]byte(`{"fsr1": 80, "fsr2": 120, "fsr3": 95, "timestamp": "2024-01-01T00:00:00Z", "status3": "warn"}`))
	require.True(t, ok)

	up := &fakeUpstream{result: Ok(p)}
	svc, logs := newTestService(up, 0)

	r := svc.Current(context.Background())
	assert.Equal(t, 80.0, r.Heel)
	assert.Equal(t, 120.0, r.Middle)
	assert.Equal(t, 95.0, r.Toe)
	assert.Equal(t, "2024-01-01T00:00:00Z", r.TimestampValue())
	assert.JSONEq(t, `"warn"`, string(r.ToeStatus))
	assert.Nil(t, r.HeelStatus)
	assert.Equal(t, 1, up.calls)
	assert.Empty(t, logs.String())
}

func TestServiceCurrentFallsBack(t *testing.T) {
	up := &fakeUpstream{result: Fail(fmt.Errorf("%w: connection refused", ErrUpstreamUnavailable))}
	svc, logs := newTestService(up, 0)

	r := svc.Current(context.Background())
	assert.Equal(t, 50.0, r.Heel)
	assert.Equal(t, 100.0, r.Middle)
	assert.Equal(t, 75.0, r.Toe)
	assert.Equal(t, FormatTimestamp(fixedNow), r.TimestampValue())
	assert.False(t, r.HasStatus())

	assert.Contains(t, logs.String(), "upstream fetch failed")
	assert.Contains(t, logs.String(), "connection refused")
	assert.Contains(t, logs.String(), "endpoint=health-data")
}

func TestServiceHistoryDerivesFromTransformedReading(t *testing.T) {
	p, ok := DecodePayload([]byte(`{"fsr1": 100, "fsr2": 200, "fsr3": 40, "status1": "ok"}`))
	require.True(t, ok)

	svc, _ := newTestService(&fakeUpstream{result: Ok(p)}, 0)

	series := svc.History(context.Background())
	require.Len(t, series, SeriesLength)
	for _, r := range series {
		assert.Equal(t, 85.0, r.Heel)
		assert.Equal(t, 170.0, r.Middle)
		assert.Equal(t, 34.0, r.Toe)
		assert.False(t, r.HasStatus())
	}
}

func TestServiceHistoryFallsBack(t *testing.T) {
	up := &fakeUpstream{result: Fail(ErrUpstreamUnavailable)}
	svc, logs := newTestService(up, 0.999999)

	series := svc.History(context.Background())
	require.Len(t, series, SeriesLength)
	for _, r := range series {
		assert.Equal(t, 149.0, r.Heel)
		assert.Equal(t, 199.0, r.Middle)
		assert.Equal(t, 174.0, r.Toe)
	}
	assert.Contains(t, logs.String(), "endpoint=historical-data")
}

func TestServiceEachCallFetches(t *testing.T) {
	up := &fakeUpstream{result: Ok(Payload{FSR1: 10})}
	svc, _ := newTestService(up, 0.5)

	svc.Current(context.Background())
	svc.History(context.Background())
	svc.Current(context.Background())
	assert.Equal(t, 3, up.calls)
}

func TestServiceWithoutUpstream(t *testing.T) {
	svc, logs := newTestService(nil, 0)

	r := svc.Current(context.Background())
	assert.Equal(t, 50.0, r.Heel)
	assert.Contains(t, logs.String(), "no upstream configured")
}
