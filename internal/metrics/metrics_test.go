package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"number-cruncher/internal/facts"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsFetchesAndVerdicts(t *testing.T) {
	m := New()

	require.NoError(t, m.Record(facts.LogEntry{Result: facts.ResultSuccess}))
	require.NoError(t, m.Record(facts.LogEntry{Result: facts.ResultSuccess}))
	require.NoError(t, m.Record(facts.LogEntry{Result: facts.ResultFailure}))

	m.Observe(facts.Event{Status: facts.Status{Verdict: facts.VerdictStored, Number: 2}, TummySize: 1, Capacity: 3})
	m.Observe(facts.Event{Err: errors.New("crunch failed"), TummySize: 1, Capacity: 3})

	require.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("SUCCESS")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("FAILURE")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.crunchTotal.WithLabelValues("STORED")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.crunchTotal.WithLabelValues("error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.tummySize))
	require.Equal(t, 3.0, testutil.ToFloat64(m.tummyCap))
}

func TestMetrics_HandlerExposesCollectors(t *testing.T) {
	m := New()
	m.Observe(facts.Event{Status: facts.Status{Verdict: facts.VerdictRejected, Number: 3}, Capacity: 2})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `cruncher_crunch_total{verdict="REJECTED"} 1`)
}
