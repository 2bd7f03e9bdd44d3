// Package metrics records bundle and sync activity.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation names used as label values.
const (
	OpBundle = "bundle"
	OpSync   = "sync"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder receives operation measurements.
type Recorder interface {
	ObserveOperation(op string, d time.Duration, err error)
	AddFragmentWrites(op string, n int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveOperation(string, time.Duration, error) {}
func (NoopRecorder) AddFragmentWrites(string, int)                  {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	duration       *prom.HistogramVec
	operations     *prom.CounterVec
	fragmentWrites *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "oasrepo",
			Name:      "operation_duration_seconds",
			Help:      "Duration of bundle, sync and validate operations",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
		operations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "oasrepo",
			Name:      "operations_total",
			Help:      "Operations by outcome",
		}, []string{"operation", "result"}),
		fragmentWrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "oasrepo",
			Name:      "fragment_writes_total",
			Help:      "Fragment files written or removed",
		}, []string{"operation"}),
	}
	reg.MustRegister(pr.duration, pr.operations, pr.fragmentWrites)
	return pr
}

// ObserveOperation implements Recorder.
func (p *PrometheusRecorder) ObserveOperation(op string, d time.Duration, err error) {
	if p == nil {
		return
	}
	res := ResultSuccess
	if err != nil {
		res = ResultFailure
	}
	p.duration.WithLabelValues(op).Observe(d.Seconds())
	p.operations.WithLabelValues(op, res).Inc()
}

// AddFragmentWrites implements Recorder.
func (p *PrometheusRecorder) AddFragmentWrites(op string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.fragmentWrites.WithLabelValues(op).Add(float64(n))
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

// HTTPHandler serves the recorder's registry.
func (p *PrometheusRecorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
