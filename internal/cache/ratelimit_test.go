package cache

import (
	"context"
	"regexp"
	"testing"
	"time"
)

var hashedIP = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestHashIP(t *testing.T) {
	t.Parallel()

	ips := []string{
		"203.0.113.7",
		"203.0.113.8",
		"127.0.0.1",
		"::1",
		"2001:db8::1",
		"",
	}
	seen := make(map[string]string, len(ips))
	for _, ip := range ips {
		h := hashIP(ip)
		if !hashedIP.MatchString(h) {
			t.Errorf("hashIP(%q) = %q, want 16 hex chars", ip, h)
		}
		if h != hashIP(ip) {
			t.Errorf("hashIP(%q) is not stable", ip)
		}
		if prev, dup := seen[h]; dup {
			t.Errorf("hashIP(%q) collides with %q", ip, prev)
		}
		seen[h] = ip
	}
}

func TestKey_RateLimitBucketHidesIP(t *testing.T) {
	t.Parallel()

	k := key("ratelimit", "auth", hashIP("203.0.113.7"))
	if want := "inkpost:ratelimit:auth:" + hashIP("203.0.113.7"); k != want {
		t.Errorf("key = %q, want %q", k, want)
	}
	if regexp.MustCompile(`203\.0\.113`).MatchString(k) {
		t.Errorf("key %q leaks the client IP", k)
	}
}

func TestLocalLimiter_Burst(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	l := NewLocalLimiter(60, 3)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}

	res, _ := l.Allow(ctx, "10.0.0.1")
	if res.Allowed {
		t.Fatal("request beyond burst should be denied")
	}
	if res.RetryAfter != time.Second {
		t.Errorf("expected retry after 1s at 60 rpm, got %s", res.RetryAfter)
	}

	other, _ := l.Allow(ctx, "10.0.0.2")
	if !other.Allowed {
		t.Error("buckets must be per IP")
	}

	now = now.Add(time.Second)
	res, _ = l.Allow(ctx, "10.0.0.1")
	if !res.Allowed {
		t.Error("a token should refill after one second at 60 rpm")
	}
}

func TestLocalLimiter_PrunesIdleBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	l := NewLocalLimiter(60, 1)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "10.0.0.1")
	now = now.Add(2 * localLimiterIdle)
	_, _ = l.Allow(ctx, "10.0.0.2")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.buckets["10.0.0.1"]; ok {
		t.Error("idle bucket should have been pruned")
	}
	if _, ok := l.buckets["10.0.0.2"]; !ok {
		t.Error("active bucket should be kept")
	}
}
