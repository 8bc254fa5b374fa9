package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	inktest "github.com/inkpost/inkpost/internal/testutil"
)

func TestPrometheus_Counters(t *testing.T) {
	m := NewPrometheus()

	m.IncSignup()
	m.IncLogin(true)
	m.IncLogin(false)
	m.IncLogin(false)
	m.IncProfileUpdated()
	m.IncPostCreated()
	m.IncPostUpdated()
	m.IncPostDeleted()
	m.IncRateLimited()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"signups", testutil.ToFloat64(m.Signups), 1},
		{"logins success", testutil.ToFloat64(m.Logins.WithLabelValues("success")), 1},
		{"logins failed", testutil.ToFloat64(m.Logins.WithLabelValues("failed")), 2},
		{"profiles updated", testutil.ToFloat64(m.ProfilesUpdated), 1},
		{"posts created", testutil.ToFloat64(m.PostsCreated), 1},
		{"posts updated", testutil.ToFloat64(m.PostsUpdated), 1},
		{"posts deleted", testutil.ToFloat64(m.PostsDeleted), 1},
		{"rate limited", testutil.ToFloat64(m.RateLimited), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPrometheus_RequestDuration(t *testing.T) {
	m := NewPrometheus()
	m.ObserveRequestDuration(2 * time.Millisecond)
	m.ObserveRequestDuration(3 * time.Millisecond)

	if got := inktest.HistogramCount(t, m.Gatherer(), "inkpost_http_request_duration_seconds"); got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}
}

func TestPrometheus_RegistriesAreIndependent(t *testing.T) {
	a, b := NewPrometheus(), NewPrometheus()
	a.IncSignup()

	if got := testutil.ToFloat64(b.Signups); got != 0 {
		t.Errorf("second registry saw %v signups", got)
	}
	if n, err := testutil.GatherAndCount(a.Gatherer(), "inkpost_signups_total"); err != nil || n != 1 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}

func TestPrometheus_Concurrent(t *testing.T) {
	m := NewPrometheus()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncPostCreated()
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(m.PostsCreated); got != 50 {
		t.Errorf("posts created = %v, want 50", got)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	r.IncSignup()
	r.IncLogin(true)
	r.ObserveRequestDuration(time.Second)
}
