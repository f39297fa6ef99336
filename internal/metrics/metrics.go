package metrics

import (
	"net/http"

	"number-cruncher/internal/facts"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the cruncher's prometheus collectors.
//
// It plugs into the core twice: as a facts.LogSink counting fetch attempts and
// as a facts.Observer counting crunch verdicts and tracking the tummy size.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal  *prometheus.CounterVec
	crunchTotal *prometheus.CounterVec
	tummySize   prometheus.Gauge
	tummyCap    prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		// fetchTotal counts fetch attempts by logged result
		fetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cruncher_fetch_total",
			Help: "Total fact fetch attempts by result",
		}, []string{"result"}),
		// crunchTotal counts crunch cycles by verdict, "error" for failed cycles
		crunchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cruncher_crunch_total",
			Help: "Total crunch cycles by verdict",
		}, []string{"verdict"}),
		tummySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cruncher_tummy_size",
			Help: "Number of facts currently retained",
		}),
		tummyCap: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cruncher_tummy_capacity",
			Help: "Maximum number of retained facts",
		}),
	}
}

// Record implements facts.LogSink.
func (m *Metrics) Record(entry facts.LogEntry) error {
	m.fetchTotal.WithLabelValues(string(entry.Result)).Inc()
	return nil
}

// Observe is a facts.Observer.
func (m *Metrics) Observe(evt facts.Event) {
	verdict := string(evt.Status.Verdict)
	if evt.Err != nil {
		verdict = "error"
	}
	m.crunchTotal.WithLabelValues(verdict).Inc()
	m.tummySize.Set(float64(evt.TummySize))
	m.tummyCap.Set(float64(evt.Capacity))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ facts.LogSink = (*Metrics)(nil)
