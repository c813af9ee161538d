// Package metrics records per-run counters and exports them in the
// node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one leadrank run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	placesRequests *prometheus.CounterVec
	placesResults  prometheus.Counter
	leadsScored    *prometheus.CounterVec
	leadScore      prometheus.Histogram
}

// New creates a metrics set on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		placesRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadrank",
			Name:      "places_requests_total",
			Help:      "Place search requests by API status.",
		}, []string{"status"}),
		placesResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadrank",
			Name:      "places_results_total",
			Help:      "Listings collected from the place search.",
		}),
		leadsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadrank",
			Name:      "leads_scored_total",
			Help:      "Scored leads by priority bucket.",
		}, []string{"priority"}),
		leadScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadrank",
			Name:      "lead_score",
			Help:      "Distribution of composite lead scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90},
		}),
	}

	m.registry.MustRegister(m.placesRequests, m.placesResults, m.leadsScored, m.leadScore)
	return m
}

// ObservePlacesRequest records one search request and its API status
func (m *Metrics) ObservePlacesRequest(status string) {
	if m == nil {
		return
	}
	if status == "" {
		status = "transport_error"
	}
	m.placesRequests.WithLabelValues(status).Inc()
}

// AddPlacesResults records collected listings
func (m *Metrics) AddPlacesResults(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.placesResults.Add(float64(n))
}

// ObserveLead records one scored lead
func (m *Metrics) ObserveLead(priority string, score float64) {
	if m == nil {
		return
	}
	m.leadsScored.WithLabelValues(priority).Inc()
	m.leadScore.Observe(score)
}

// WriteTextfile writes all metrics to path in the Prometheus text format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
