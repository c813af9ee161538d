package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObservePlacesRequest("OK")
	m.ObservePlacesRequest("OK")
	m.ObservePlacesRequest("")
	m.AddPlacesResults(20)
	m.AddPlacesResults(0)
	m.ObserveLead("High", 78.1)
	m.ObserveLead("Low", 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.placesRequests.WithLabelValues("OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.placesRequests.WithLabelValues("transport_error")))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.placesResults))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadsScored.WithLabelValues("High")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leadsScored.WithLabelValues("Low")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePlacesRequest("OK")
		m.AddPlacesResults(3)
		m.ObserveLead("High", 90)
	})
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveLead("Medium", 45)

	path := filepath.Join(t.TempDir(), "leadrank.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `leadrank_leads_scored_total{priority="Medium"} 1`))
	assert.True(t, strings.Contains(string(data), "leadrank_lead_score_count 1"))
}
