package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus collectors
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SweepsTotal         *prometheus.CounterVec
	SweepDuration       prometheus.Histogram
	WorkOrdersGenerated prometheus.Counter
	OverdueSchedules    prometheus.Gauge
}

// NewMetrics registers the collectors with reg and returns them. Production
// code passes prometheus.DefaultRegisterer; tests pass a fresh registry so
// repeated construction does not collide.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		SweepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_sweeps_total",
			Help:      "Total number of maintenance sweeps by outcome",
		}, []string{"outcome"}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "maintenance_sweep_duration_seconds",
			Help:      "Time taken to run one maintenance sweep",
			Buckets:   prometheus.DefBuckets,
		}),
		WorkOrdersGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_generated_total",
			Help:      "Total number of work orders generated from due schedules",
		}),
		OverdueSchedules: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overdue_schedules",
			Help:      "Number of active schedules currently overdue",
		}),
	}
}

// Handler exposes the default registry for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
