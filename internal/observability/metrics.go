// Package observability agrupa los collectors Prometheus de la API y del worker.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/application/sales"
)

var _ sales.Recorder = (*Metrics)(nil)

// Metrics registry propio con métricas HTTP, de negocio y de jobs.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	salesCreated    prometheus.Counter
	salesCancelled  prometheus.Counter
	salesAmount     prometheus.Counter
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
}

// NewMetrics inicializa el registry. Incluye los collectors de proceso y del runtime de Go.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdv_http_requests_total",
			Help: "Requests HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pdv_http_request_duration_seconds",
			Help:    "Duración de las requests HTTP por ruta.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		salesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pdv_sales_created_total",
			Help: "Ventas registradas.",
		}),
		salesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pdv_sales_cancelled_total",
			Help: "Ventas canceladas.",
		}),
		salesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pdv_sales_amount_total",
			Help: "Monto acumulado de ventas registradas (BRL).",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdv_job_runs_total",
			Help: "Ejecuciones de jobs por nombre y resultado.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pdv_job_duration_seconds",
			Help:    "Duración de los jobs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal, m.requestDuration,
		m.salesCreated, m.salesCancelled, m.salesAmount,
		m.jobRuns, m.jobDuration,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return m
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry expone el registry (tests y collectors adicionales).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveHTTP registra una request. route es el patrón de la ruta, no el path concreto.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SaleCreated implementa sales.Recorder.
func (m *Metrics) SaleCreated(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.salesCreated.Inc()
	m.salesAmount.Add(total.InexactFloat64())
}

// SaleCancelled implementa sales.Recorder.
func (m *Metrics) SaleCancelled() {
	if m == nil {
		return
	}
	m.salesCancelled.Inc()
}

// JobTracker mide una ejecución de job.
type JobTracker struct {
	m     *Metrics
	job   string
	start time.Time
}

// TrackJob inicia la medición de una ejecución.
func (m *Metrics) TrackJob(job string) *JobTracker {
	return &JobTracker{m: m, job: job, start: time.Now()}
}

// End registra duración y resultado; devuelve err sin modificar.
func (t *JobTracker) End(err error) error {
	if t == nil || t.m == nil {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	t.m.jobRuns.WithLabelValues(t.job, status).Inc()
	t.m.jobDuration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}
