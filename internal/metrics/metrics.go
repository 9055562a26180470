// Package metrics exposes Prometheus instrumentation for the HTTP server
// and the registration flow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sportsteam"

// Registration outcomes.
const (
	OutcomeRegistered        = "registered"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeFull              = "full"
	OutcomeNotFound          = "not_found"
	OutcomeError             = "error"
)

// Recorder receives domain measurements from the service layer.
type Recorder interface {
	RegistrationAttempt(outcome string)
	EventCreated()
	EventDeleted()
	SessionsSwept(n int64)
}

// Prometheus is a Recorder backed by its own registry.
type Prometheus struct {
	registry      *prometheus.Registry
	registrations *prometheus.CounterVec
	eventChanges  *prometheus.CounterVec
	sessionsSwept prometheus.Counter
	httpDuration  *prometheus.HistogramVec
}

// NewPrometheus registers all collectors on a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_registrations_total",
			Help:      "Event registration attempts by outcome.",
		}, []string{"outcome"}),
		eventChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_changes_total",
			Help:      "Events created or deleted.",
		}, []string{"action"}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Expired sessions removed by the sweeper.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.registrations,
		p.eventChanges,
		p.sessionsSwept,
		p.httpDuration,
	)
	return p
}

// RegistrationAttempt counts a registration by outcome.
func (p *Prometheus) RegistrationAttempt(outcome string) {
	p.registrations.WithLabelValues(outcome).Inc()
}

// EventCreated counts a created event.
func (p *Prometheus) EventCreated() { p.eventChanges.WithLabelValues("created").Inc() }

// EventDeleted counts a deleted event.
func (p *Prometheus) EventDeleted() { p.eventChanges.WithLabelValues("deleted").Inc() }

// SessionsSwept adds n to the swept sessions counter.
func (p *Prometheus) SessionsSwept(n int64) { p.sessionsSwept.Add(float64(n)) }

// ObserveRequest records one served HTTP request.
func (p *Prometheus) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	p.httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

type noop struct{}

// NewNoop returns a Recorder that discards everything.
func NewNoop() Recorder { return noop{} }

func (noop) RegistrationAttempt(string) {}
func (noop) EventCreated()              {}
func (noop) EventDeleted()              {}
func (noop) SessionsSwept(int64)        {}
