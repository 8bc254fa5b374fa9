package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func healthy() Pinger { return pingFunc(func(context.Context) error { return nil }) }

func failing(msg string) Pinger {
	return pingFunc(func(context.Context) error { return errors.New(msg) })
}

func serve(t *testing.T, h http.HandlerFunc, path string) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHealth_IgnoresDependencies(t *testing.T) {
	h := NewHealthHandler(discard(), Dependency{Name: "mongo", Pinger: failing("down")})

	code, body := serve(t, h.Health, "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Checks)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		deps       []Dependency
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "store and redis up",
			deps:       []Dependency{{Name: "mongo", Pinger: healthy()}, {Name: "redis", Pinger: healthy()}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"mongo": "ok", "redis": "ok"},
		},
		{
			name:       "redis not configured",
			deps:       []Dependency{{Name: "memory", Pinger: healthy()}, {Name: "redis"}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"memory": "ok", "redis": "not configured"},
		},
		{
			name:       "store down",
			deps:       []Dependency{{Name: "mongo", Pinger: failing("connection refused")}, {Name: "redis", Pinger: healthy()}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"mongo": "error", "redis": "ok"},
		},
		{
			name:       "redis down",
			deps:       []Dependency{{Name: "postgres", Pinger: healthy()}, {Name: "redis", Pinger: failing("dial tcp: refused")}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantChecks: map[string]string{"postgres": "ok", "redis": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, NewHealthHandler(discard(), tt.deps...).Readyz, "/readyz")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestReadyz_PingsCarryDeadline(t *testing.T) {
	var remaining time.Duration
	dep := pingFunc(func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		if !ok {
			return errors.New("no deadline")
		}
		remaining = time.Until(deadline)
		return nil
	})

	code, _ := serve(t, NewHealthHandler(discard(), Dependency{Name: "mongo", Pinger: dep}).Readyz, "/readyz")

	require.Equal(t, http.StatusOK, code)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, readinessTimeout)
}

func TestReadyz_LogsErrorDetailOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	secret := "dial tcp 10.1.2.3:27017: auth failed for user admin"
	h := NewHealthHandler(logger, Dependency{Name: "mongo", Pinger: failing(secret)})

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.1.2.3")
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"mongo":"error"}}`, rec.Body.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "readiness check failed", entry["msg"])
	assert.Equal(t, "mongo", entry["dependency"])
	assert.Equal(t, secret, entry["error"])
}
