package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "inkpost"

// Prometheus is the production Recorder. Its collectors live on a private
// registry so tests and multiple routers never collide on registration.
type Prometheus struct {
	registry *prometheus.Registry

	Signups         prometheus.Counter
	Logins          *prometheus.CounterVec // status: success, failed
	ProfilesUpdated prometheus.Counter
	PostsCreated    prometheus.Counter
	PostsUpdated    prometheus.Counter
	PostsDeleted    prometheus.Counter
	RateLimited     prometheus.Counter
	RequestDuration prometheus.Histogram
}

var _ Recorder = (*Prometheus)(nil)

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}

// NewPrometheus registers the blog collectors plus the Go runtime and
// process collectors on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry:        prometheus.NewRegistry(),
		Signups:         counter("signups_total", "Accounts created."),
		ProfilesUpdated: counter("profiles_updated_total", "Profile updates applied."),
		PostsCreated:    counter("posts_created_total", "Posts published."),
		PostsUpdated:    counter("posts_updated_total", "Post edits applied."),
		PostsDeleted:    counter("posts_deleted_total", "Posts deleted."),
		RateLimited:     counter("auth_rate_limited_total", "Login and signup requests rejected by the rate limiter."),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"status"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	p.registry.MustRegister(
		p.Signups, p.Logins, p.ProfilesUpdated,
		p.PostsCreated, p.PostsUpdated, p.PostsDeleted,
		p.RateLimited, p.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	// Both outcomes are exported from the start, at zero.
	p.Logins.WithLabelValues("success")
	p.Logins.WithLabelValues("failed")
	return p
}

// Gatherer exposes the registry to the /metrics handler.
func (p *Prometheus) Gatherer() prometheus.Gatherer { return p.registry }

func (p *Prometheus) IncSignup() { p.Signups.Inc() }

func (p *Prometheus) IncLogin(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	p.Logins.WithLabelValues(status).Inc()
}

func (p *Prometheus) IncProfileUpdated() { p.ProfilesUpdated.Inc() }
func (p *Prometheus) IncPostCreated()    { p.PostsCreated.Inc() }
func (p *Prometheus) IncPostUpdated()    { p.PostsUpdated.Inc() }
func (p *Prometheus) IncPostDeleted()    { p.PostsDeleted.Inc() }
func (p *Prometheus) IncRateLimited()    { p.RateLimited.Inc() }

func (p *Prometheus) ObserveRequestDuration(d time.Duration) {
	p.RequestDuration.Observe(d.Seconds())
}
