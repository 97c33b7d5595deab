package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "barbarian"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	phaseDuration *prom.HistogramVec
	buildDuration prom.Histogram
	pagesWritten  *prom.CounterVec
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder registers the build metrics with reg, or with a new
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		pagesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Output files written by page kind",
		}, []string{"kind"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.buildDuration, pr.pagesWritten, pr.buildOutcome)
	return pr
}

func (pr *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	pr.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncPagesWritten(kind string) {
	pr.pagesWritten.WithLabelValues(kind).Inc()
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the current metrics in the text exposition format,
// for node_exporter's textfile collector.
func (pr *PrometheusRecorder) WriteTextfile(filename string) error {
	return prom.WriteToTextfile(filename, pr.reg)
}

// Handler serves the metrics registered with reg.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// InstrumentHandler counts requests served by h by status code and method.
func InstrumentHandler(reg *prom.Registry, h http.Handler) http.Handler {
	requests := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Requests served by the static file server",
	}, []string{"code", "method"})
	reg.MustRegister(requests)
	return promhttp.InstrumentHandlerCounter(requests, h)
}
