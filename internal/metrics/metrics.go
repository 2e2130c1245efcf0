package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// Metrics holds the monitor's collectors on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	checks    *prometheus.CounterVec
	downtime  *prometheus.GaugeVec
	loadTime  prometheus.Histogram
	cycles    prometheus.Counter
	cycleTime prometheus.Histogram
	inFlight  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simpeyes_site_checks_total",
			Help: "Site checks by resulting status",
		}, []string{"status"}),
		downtime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "simpeyes_site_downtime_seconds",
			Help: "Cumulative nominal downtime per site",
		}, []string{"site"}),
		loadTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "simpeyes_site_load_seconds",
			Help:    "Page load time of successful requests",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 15},
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simpeyes_cycles_total",
			Help: "Completed monitoring cycles",
		}),
		cycleTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "simpeyes_cycle_duration_seconds",
			Help:    "Wall time of a full cycle, excluding the wait after it",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "simpeyes_probes_in_flight",
			Help: "Sites currently being probed",
		}),
	}
	m.reg.MustRegister(m.checks, m.downtime, m.loadTime, m.cycles, m.cycleTime, m.inFlight)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveCheck records one site's outcome and its downtime after the update.
func (m *Metrics) ObserveCheck(site domain.Site, out domain.Outcome, downtimeSeconds uint64) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(statusLabel(out.Status)).Inc()
	m.downtime.WithLabelValues(string(site)).Set(float64(downtimeSeconds))
	if out.LoadTime != nil {
		m.loadTime.Observe(out.LoadTime.Seconds())
	}
}

func (m *Metrics) ProbeStarted() {
	if m != nil {
		m.inFlight.Inc()
	}
}

func (m *Metrics) ProbeDone() {
	if m != nil {
		m.inFlight.Dec()
	}
}

func (m *Metrics) CycleDone(d time.Duration) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.cycleTime.Observe(d.Seconds())
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusUp:
		return "up"
	case domain.StatusDownHTTP:
		return "down_http"
	case domain.StatusDownErrorPage:
		return "down_error_page"
	default:
		return "down_error"
	}
}
