package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farm-dashboard/internal/domain/alerts"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AlertSummary(t *testing.T) {
	m := NewManager()
	m.SetAlertSummary(alerts.Summary{Overdue: 2, Urgent: 1, Upcoming: 0, Scheduled: 4})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.vaccinationAlerts.WithLabelValues("overdue")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.vaccinationAlerts.WithLabelValues("scheduled")))

	m.SetAlertSummary(alerts.Summary{})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.vaccinationAlerts.WithLabelValues("overdue")))
}

func TestManager_ObserveHTTP(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	m.ObserveHTTP("GET", "/cattle", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/cattle", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestManager_NilSafe(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, 0)
		m.SetAlertSummary(alerts.Summary{Urgent: 1})
		m.LoginAttempt("ok")
	})
}

func TestManager_Handler(t *testing.T) {
	m := NewManager()
	m.LoginAttempt("ok")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `farm_auth_login_attempts_total{result="ok"} 1`)
}
