package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCountsLedgerActivity(t *testing.T) {
	m := NewMetricsService()

	m.ObserveMutation("bill", "create")
	m.ObserveMutation("bill", "create")
	m.ObserveSnapshotSave(time.Millisecond, nil)
	m.ObserveSnapshotSave(time.Millisecond, errors.New("boom"))
	m.ObserveMirrorPush(time.Millisecond, errors.New("offline"))

	body := scrape(t, m)
	assert.Contains(t, body, `ledger_mutations_total{action="create",entity="bill"} 2`)
	assert.Contains(t, body, "ledger_snapshot_save_failures_total 1")
	assert.Contains(t, body, `ledger_mirror_pushes_total{outcome="error"} 1`)
}

func TestMetricsServiceHandlerServesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/dashboard", http.StatusOK, 5*time.Millisecond)

	assert.Contains(t, scrape(t, m), "http_requests_total")
}

func scrape(t *testing.T, m *MetricsService) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveMutation("class", "create")
	m.ObserveSnapshotSave(0, nil)
	m.ObserveMirrorPush(0, nil)
	m.ObserveHTTPRequest(http.MethodGet, "/", 200, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
