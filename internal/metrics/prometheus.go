package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus keeps one vector per kind, the dotted metric name goes into the "name" label.
type Prometheus struct {
	registry  *prometheus.Registry
	counters  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	gauges    *prometheus.GaugeVec
}

func NewPrometheus(namespace string) *Prometheus {
	namespace = strings.ReplaceAll(namespace, "-", "_")
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Monitor events by name.",
		}, []string{"name"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Monitor operation durations by name.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"}),
		gauges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "value",
			Help:      "Monitor gauges by name.",
		}, []string{"name"}),
	}
	p.registry.MustRegister(p.counters, p.durations, p.gauges)
	return p
}

func (p *Prometheus) Increment(metric string) {
	p.counters.WithLabelValues(metric).Inc()
}

func (p *Prometheus) Duration(metric string, duration time.Duration) {
	p.durations.WithLabelValues(metric).Observe(duration.Seconds())
}

func (p *Prometheus) Gauge(metric string, value int) {
	p.gauges.WithLabelValues(metric).Set(float64(value))
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
