package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Store latency buckets in milliseconds
	storeBuckets = []float64{
		0.5, 1, 2.5, // local or same-host redis
		5, 10, 25, // network round trips
		50, 100, 250, 1000, // degraded store
	}

	// Request latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
	}

	ThrottleDecisionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "throttlegate_decisions_total",
			Help: "Throttle decisions by scope and result",
		},
		[]string{"scope", "result"},
	)

	ThrottleStoreLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "throttlegate_store_latency_ms",
			Help:    "Window store latency in milliseconds",
			Buckets: storeBuckets,
		},
		[]string{"op"},
	)

	RequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "throttlegate_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "throttlegate_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method"},
	)
)

type MetricsConfig struct {
	EnableLatency      bool // request and store latency histograms
	EnableStoreLatency bool
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:      true,
		EnableStoreLatency: true,
	}
}

var (
	Config   = DefaultMetricsConfig()
	initOnce sync.Once
)

func Initialize(cfg MetricsConfig) {
	Config = cfg
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

// Gatherer exposes the gateway registry to the /metrics handler.
func Gatherer() prometheus.Gatherer {
	return registry
}
