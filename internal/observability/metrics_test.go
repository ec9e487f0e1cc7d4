package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/shipdeck/shipdeck/testing"
)

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	m := NewMetrics()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/categories", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", res.Code)
	}

	metricsRes := httptest.NewRecorder()
	m.Handler().ServeHTTP(metricsRes, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := metricsRes.Body.String()
	if !strings.Contains(body, "shipdeck_http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestAuthFailureCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveAuthFailure("admin", "panel_mismatch")
	m.ObserveGrantRefreshFailure("supplier")

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := res.Body.String()
	if !strings.Contains(body, `shipdeck_auth_guard_failures_total{panel="admin",reason="panel_mismatch"} 1`) {
		t.Fatalf("expected auth failure counter, got:\n%s", body)
	}
	if !strings.Contains(body, `shipdeck_grant_refresh_failures_total{panel="supplier"} 1`) {
		t.Fatalf("expected grant refresh counter")
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAuthFailure("admin", "session_absent")
	m.ObserveGrantRefreshFailure("admin")
	if m.Middleware(nil) != nil {
		t.Fatalf("nil metrics middleware should pass handler through")
	}
	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from nil metrics handler, got %d", res.Code)
	}
}
