package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CalculatorRequests *prometheus.CounterVec
	WebhookSubmissions *prometheus.CounterVec
	ExternalAPISeconds *prometheus.HistogramVec
	ExternalAPIErrors  prometheus.Counter
	HTTPSeconds        *prometheus.HistogramVec
	BackfillProcessed  *prometheus.CounterVec
	ActiveWorkers      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CalculatorRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_calculator_requests_total",
			Help: "Total number of mileage-calculator requests.",
		}, []string{"endpoint", "status"}),
		WebhookSubmissions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_webhook_submissions_total",
			Help: "Total number of form-provider webhook submissions.",
		}, []string{"form", "status"}),
		ExternalAPISeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_external_api_request_duration_seconds",
			Help:    "Duration of requests to the geocoding and routing services.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		ExternalAPIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "backoffice_external_api_errors_total",
			Help: "Total number of errors received from external mapping services.",
		}),
		HTTPSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "Duration of handled HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		BackfillProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_backfill_requests_processed_total",
			Help: "Total number of stored requests processed by the geocoding backfill.",
		}, []string{"status"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "backoffice_backfill_active_workers",
			Help: "Number of backfill workers currently geocoding an address.",
		}),
	}
}
