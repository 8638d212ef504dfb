package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/smart-insole-relay/internal/config"
)

const latestPayload = `{"fsr1":80,"fsr2":120,"fsr3":95,"timestamp":"2024-01-01T00:00:00Z","status1":"ok","status2":"ok","status3":"warn"}`

func testConfig(url string) *config.AppConfig {
	return &config.AppConfig{
		AppEnv:          "dev",
		Port:            "5000",
		UpstreamURL:     url,
		UpstreamTimeout: time.Second,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
		ProbeInterval:   0,
		ProbeHistory:    10,
	}
}

func TestFailedChecksDoNotOpenDataBreaker(t *testing.T) {
	var healthy atomic.Bool
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, latestPayload)
	}))
	t.Cleanup(srv.Close)

	relay := Build(testConfig(srv.URL), slog.New(slog.NewTextHandler(io.Discard, nil)), false)

	for i := 0; i < 5; i++ {
		relay.Scheduler.Probe()
	}
	status, err := relay.Checks.Status()
	require.NoError(t, err)
	assert.Equal(t, 5, status.ConsecutiveFailures)
	assert.Equal(t, "closed", relay.Upstream.BreakerState())

	healthy.Store(true)
	before := hits.Load()

	r := relay.Service.Current(context.Background())
	assert.Equal(t, 80.0, r.Heel)
	assert.Equal(t, 120.0, r.Middle)
	assert.Equal(t, 95.0, r.Toe)
	assert.JSONEq(t, `"warn"`, string(r.ToeStatus))
	assert.Equal(t, before+1, hits.Load())

	resp, err := relay.App.Test(httptest.NewRequest(http.MethodGet, "/api/health-data", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fields map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fields))
	assert.Equal(t, 80.0, fields["heel"])
	assert.Equal(t, "ok", fields["heelStatus"])
}

func TestBuildUsesSeparateClients(t *testing.T) {
	relay := Build(testConfig("http://127.0.0.1:1/api/latest"), nil, false)

	require.NotSame(t, relay.Upstream, relay.Probe)
	assert.Equal(t, relay.Upstream.URL(), relay.Probe.URL())
	assert.Equal(t, "closed", relay.Probe.BreakerState())
}
