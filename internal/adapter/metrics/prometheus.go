// Package metrics exposes workflow counters and latencies to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"loan-origination/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loan_origination"

var _ workflow.Recorder = (*Recorder)(nil)

type Recorder struct {
	reg      *prometheus.Registry
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers its collectors, plus Go and process collectors, on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_actions_total",
			Help:      "Workflow actions executed, by action and result.",
		}, []string{"action", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_action_duration_seconds",
			Help:      "Time spent executing a workflow action.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"action"}),
	}
	r.reg.MustRegister(
		r.actions,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveAction(action, result string, elapsed time.Duration) {
	r.actions.WithLabelValues(action, result).Inc()
	r.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Echo mounts the scrape endpoint on an echo router.
func (r *Recorder) Echo() echo.HandlerFunc { return echo.WrapHandler(r.Handler()) }
