// Package testutil holds helpers shared by the integration and contract
// tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// RequireEnv returns the value of key, skipping the test when it is unset.
// Integration tests use it for REDIS_URL and friends.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		t.Skipf("%s not set", key)
	}
	return v
}

// FlushRedis empties the selected Redis database so rate limit buckets
// from earlier runs do not leak into the test.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot is the module root, resolved from this file's location so
// tests find docs/ regardless of their working directory.
func ProjectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot resolve testutil location")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

// OpenAPIPath is the path of the published API contract.
func OpenAPIPath(t testing.TB) string {
	return filepath.Join(ProjectRoot(t), "docs", "api", "openapi.yaml")
}

// HistogramCount returns how many observations the named histogram on g
// has seen. testutil.ToFloat64 from client_golang only reads counters
// and gauges.
func HistogramCount(t testing.TB, g prometheus.Gatherer, name string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var n uint64
		for _, m := range mf.GetMetric() {
			n += m.GetHistogram().GetSampleCount()
		}
		return n
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
