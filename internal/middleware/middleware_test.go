package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farm-dashboard/internal/platform/logger"
	"farm-dashboard/internal/platform/metrics"
	"farm-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == "good" {
		return auth.Claims{UserID: "farm-operator"}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	c, ok := GetClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(c.UserID))
}

func TestAuthContext(t *testing.T) {
	tests := []struct {
		name    string
		devMode bool
		header  map[string]string
		code    int
		body    string
	}{
		{"valid bearer", false, map[string]string{"Authorization": "Bearer good"}, 200, "farm-operator"},
		{"invalid bearer", false, map[string]string{"Authorization": "Bearer nope"}, 401, ""},
		{"no header", false, nil, 401, ""},
		{"debug header ignored outside dev", false, map[string]string{DebugUserHeader: "dev"}, 401, ""},
		{"debug header in dev", true, map[string]string{DebugUserHeader: "dev"}, 200, "dev"},
		{"bearer wins over debug", true, map[string]string{"Authorization": "bearer good", DebugUserHeader: "dev"}, 200, "farm-operator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AuthContext(stubVerifier{}, tt.devMode)(http.HandlerFunc(whoAmI))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, tt.body, rr.Body.String())
		})
	}
}

func TestRequestLogger_RecordsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Writer: &buf})
	m := metrics.NewManager()

	r := chi.NewRouter()
	r.Use(RequestLogger(log, m))
	r.Get("/cattle/{animalID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/cattle/abc", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, buf.String(), `"route":"/cattle/{animalID}"`)
	assert.Contains(t, buf.String(), `"status":404`)

	expected := `
# HELP farm_http_requests_total HTTP requests by method, route and status.
# TYPE farm_http_requests_total counter
farm_http_requests_total{method="GET",route="/cattle/{animalID}",status="404"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.Registry(), strings.NewReader(expected), "farm_http_requests_total"))
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Writer: &buf})

	h := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}
