package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты запроса доступности
const (
	FetchResultOK      = "ok"
	FetchResultError   = "error"
	FetchResultStale   = "stale"
	FetchResultSkipped = "skipped"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя, чтобы метрики можно было отключить конфигом
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	availabilityFetches       *prometheus.CounterVec
	availabilityFetchDuration prometheus.Histogram

	submissions    *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// New создает и регистрирует метрики в собственном registry
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		availabilityFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduler_availability_fetches_total",
			Help:        "Availability queries by result (ok, error, stale, skipped)",
			ConstLabels: labels,
		}, []string{"result"}),
		availabilityFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "scheduler_availability_fetch_duration_seconds",
			Help:        "Latency of remote availability queries",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduler_submissions_total",
			Help:        "Reservation submission attempts by final status",
			ConstLabels: labels,
		}, []string{"status"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "scheduler_active_sessions",
			Help:        "Number of open scheduler sessions",
			ConstLabels: labels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.availabilityFetches,
		m.availabilityFetchDuration,
		m.submissions,
		m.activeSessions,
	)

	return m
}

// Handler HTTP-обработчик для экспорта метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveAvailabilityFetch(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.availabilityFetches.WithLabelValues(result).Inc()
	if result == FetchResultOK || result == FetchResultError {
		m.availabilityFetchDuration.Observe(duration.Seconds())
	}
}

func (m *Metrics) IncSubmission(status string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(status).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
