package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns every collector the service exports. It is passed around
// explicitly instead of using the prometheus default registerer.
type Registry struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec

	registeredHandlers prometheus.Gauge
	handlers           atomic.Int64
	poolSize           *prometheus.GaugeVec

	systemInfo *prometheus.GaugeVec
	startTime  prometheus.Gauge
}

func NewRegistry() *Registry {
	registry := prometheus.NewRegistry()

	r := &Registry{
		registry: registry,

		dispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_dispatch_total",
				Help: "Total number of webhook dispatches",
			},
			[]string{"entity_type", "action", "outcome"}, // outcome: success, invalid, unhandled, handler_error, error
		),

		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhook_dispatch_duration_seconds",
				Help:    "Time spent validating and handling webhook events",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"entity_type", "action"},
		),

		registeredHandlers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "webhook_registered_handlers",
				Help: "Number of (entity type, action) keys with a bound handler",
			},
		),

		poolSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webhook_worker_pool_size",
				Help: "Configured number of workers per pool",
			},
			[]string{"pool"},
		),

		systemInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webhook_system_info",
				Help: "System information (value is always 1, labels contain info)",
			},
			[]string{"version", "start_time"},
		),

		startTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "webhook_start_time_seconds",
				Help: "Unix timestamp when the application started",
			},
		),
	}

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry.MustRegister(
		r.dispatchTotal,
		r.dispatchDuration,
		r.registeredHandlers,
		r.poolSize,
		r.systemInfo,
		r.startTime,
	)

	r.startTime.SetToCurrentTime()

	return r
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          r.registry,
	})
}

func (r *Registry) RecordDispatch(entityType, action, outcome string, duration time.Duration) {
	r.dispatchTotal.WithLabelValues(entityType, action, outcome).Inc()
	r.dispatchDuration.WithLabelValues(entityType, action).Observe(duration.Seconds())
}

func (r *Registry) SetRegisteredHandlers(n int) {
	r.handlers.Store(int64(n))
	r.registeredHandlers.Set(float64(n))
}

// RegisteredHandlers is the last value passed to SetRegisteredHandlers.
func (r *Registry) RegisteredHandlers() int {
	return int(r.handlers.Load())
}

func (r *Registry) SetPoolSize(pool string, size int) {
	r.poolSize.WithLabelValues(pool).Set(float64(size))
}

func (r *Registry) SetSystemInfo(version, startTime string) {
	r.systemInfo.WithLabelValues(version, startTime).Set(1)
}
