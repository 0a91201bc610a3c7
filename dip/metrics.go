package dip

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks DIP queries.
//
// Metrics:
//   - dip_requests_total: page requests by resource and outcome
//   - dip_pages_total: pages received by resource
//   - dip_query_duration_seconds: duration of whole queries by resource
//   - dip_records_returned: records returned per query
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	pagesTotal      *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	recordsReturned *prometheus.HistogramVec
}

// NewMetrics creates the query metrics and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dip",
				Name:      "requests_total",
				Help:      "Total number of page requests sent to the DIP API",
			},
			[]string{"resource", "outcome"},
		),
		pagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dip",
				Name:      "pages_total",
				Help:      "Total number of result pages received",
			},
			[]string{"resource"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dip",
				Name:      "query_duration_seconds",
				Help:      "Duration of paginated queries in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"resource"},
		),
		recordsReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dip",
				Name:      "records_returned",
				Help:      "Number of records returned per query",
				Buckets:   []float64{0, 1, 10, 50, 100, 250, 500, 1000, 5000},
			},
			[]string{"resource"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requestsTotal, m.pagesTotal, m.queryDuration, m.recordsReturned)
	}

	return m
}

// The recorders below are nil-safe so the client can call them unconditionally.

func (m *Metrics) recordRequest(resource ResourceKind, outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(resource.Path(), outcome).Inc()
}

func (m *Metrics) recordPage(resource ResourceKind) {
	if m == nil {
		return
	}
	m.pagesTotal.WithLabelValues(resource.Path()).Inc()
}

func (m *Metrics) recordQuery(resource ResourceKind, started time.Time, records int) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(resource.Path()).Observe(time.Since(started).Seconds())
	m.recordsReturned.WithLabelValues(resource.Path()).Observe(float64(records))
}
