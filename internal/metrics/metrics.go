// Package metrics exports resolver activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

const namespace = "synthtags"

// Recorder implements resolver.Observer on top of Prometheus collectors.
type Recorder struct {
	fetches         *prometheus.CounterVec
	fetchedNames    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	resolves        *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	specs           prometheus.Gauge
}

var _ resolver.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder whose collectors are registered with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fetches_total",
			Help:      "Store fetches by store and result.",
		}, []string{"store", "result"}),
		fetchedNames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fetched_names_total",
			Help:      "Names requested from each store.",
		}, []string{"store"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_fetch_duration_seconds",
			Help:      "Store fetch duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"store"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Resolver cache lookups by result.",
		}, []string{"result"}),
		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolves_total",
			Help:      "Resolve calls by result.",
		}, []string{"result"}),
		resolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Resolve call duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		specs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resolve_specs",
			Help:      "Number of specs in the last Resolve call.",
		}),
	}
}

func (r *Recorder) ObserveFetch(store string, names int, elapsed time.Duration, err error) {
	r.fetches.WithLabelValues(store, result(err)).Inc()
	r.fetchedNames.WithLabelValues(store).Add(float64(names))
	r.fetchDuration.WithLabelValues(store).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveCache(hit bool) {
	if hit {
		r.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

func (r *Recorder) ObserveResolve(specs int, elapsed time.Duration, err error) {
	r.resolves.WithLabelValues(result(err)).Inc()
	r.resolveDuration.Observe(elapsed.Seconds())
	r.specs.Set(float64(specs))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
