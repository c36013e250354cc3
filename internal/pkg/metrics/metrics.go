package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

// Registry registers collectors and gathers them for exposition. *prometheus.Registry satisfies it.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

type defaultRegistry struct {
	prometheus.Registerer
	prometheus.Gatherer
}

// Metrics collects the counters exported on /metrics.
type Metrics struct {
	gatherer  prometheus.Gatherer
	allocated *prometheus.CounterVec
	retried   *prometheus.CounterVec
	failed    *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

// New registers the collectors on registry, reusing any that are already registered.
// A nil registry means the Prometheus default registry.
func New(registry Registry) (*Metrics, error) {
	if registry == nil {
		registry = defaultRegistry{prometheus.DefaultRegisterer, prometheus.DefaultGatherer}
	}

	allocated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placementcrm_identifiers_allocated_total",
		Help: "Identifiers stored on new records, by kind.",
	}, []string{"kind"})
	retried := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placementcrm_identifiers_retried_total",
		Help: "Identifier allocations regenerated after a uniqueness collision, by kind.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placementcrm_identifiers_failed_total",
		Help: "Identifier allocations that failed, by kind and reason.",
	}, []string{"kind", "reason"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placementcrm_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	m := &Metrics{gatherer: registry}
	for _, c := range []struct {
		dst  **prometheus.CounterVec
		vec  *prometheus.CounterVec
		name string
	}{
		{&m.allocated, allocated, "allocated"},
		{&m.retried, retried, "retried"},
		{&m.failed, failed, "failed"},
		{&m.requests, requests, "requests"},
	} {
		registered, err := registerCounterVec(registry, c.vec)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s counter: %w", c.name, err)
		}
		*c.dst = registered
	}
	return m, nil
}

// Handler serves the registry the collectors were registered on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Allocated implements idgen.Recorder.
func (m *Metrics) Allocated(kind idgen.Kind) {
	if m == nil || m.allocated == nil {
		return
	}
	m.allocated.WithLabelValues(string(kind)).Inc()
}

// Retried implements idgen.Recorder.
func (m *Metrics) Retried(kind idgen.Kind) {
	if m == nil || m.retried == nil {
		return
	}
	m.retried.WithLabelValues(string(kind)).Inc()
}

// Failed implements idgen.Recorder.
func (m *Metrics) Failed(kind idgen.Kind, reason string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(string(kind), reason).Inc()
}

// ObserveRequest counts a finished HTTP request. route is the matched route template.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func registerCounterVec(registerer prometheus.Registerer, counter *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := registerer.Register(counter)
	if err == nil {
		return counter, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}
