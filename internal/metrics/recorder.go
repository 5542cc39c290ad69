package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-vitaltrend/events"
	"github.com/goliatone/go-vitaltrend/vitalset"
)

const namespace = "vitaltrend"

// Recorder exports service, cache and publisher observations to a private
// Prometheus registry.
type Recorder struct {
	registry   *prometheus.Registry
	lookups    *prometheus.CounterVec
	operations *prometheus.HistogramVec
	published  *prometheus.CounterVec
}

var (
	_ vitalset.Metrics = (*Recorder)(nil)
	_ events.Recorder  = (*Recorder)(nil)
)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		operations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of record service operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"operation", "outcome"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Payloads handed to the messaging backend by result.",
		}, []string{"backend", "result"}),
	}

	r.registry.MustRegister(
		r.lookups,
		r.operations,
		r.published,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.lookups.WithLabelValues(cache, result).Inc()
}

func (r *Recorder) ObserveOperation(op string, elapsed time.Duration, err error) {
	r.operations.WithLabelValues(op, outcome(err)).Observe(elapsed.Seconds())
}

func (r *Recorder) EventPublished(backend string, err error) {
	r.published.WithLabelValues(backend, outcome(err)).Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
