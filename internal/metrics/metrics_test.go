package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesMatchedPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /analytics/charts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(mux)

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /analytics/charts", "200"))

	req := httptest.NewRequest("GET", "/analytics/charts?subject=John&vw=375", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /analytics/charts", "200"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestMiddleware_UnmatchedAndStaticPaths(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /operatordashboard", func(w http.ResponseWriter, r *http.Request) {})
	handler := Middleware(mux)

	tests := []struct {
		path   string
		route  string
		status string
	}{
		{"/wp-login.php", "unmatched", "404"},
		{"/static/js/app.js", "/static/", "404"},
		{"/operatordashboard", "GET /operatordashboard", "200"},
	}
	for _, tt := range tests {
		before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", tt.route, tt.status))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", tt.path, nil))
		after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", tt.route, tt.status))
		if after != before+1 {
			t.Errorf("%s: expected {%s,%s} to increase by 1, got %v -> %v", tt.path, tt.route, tt.status, before, after)
		}
	}
}

func TestMiddleware_SkipsMetricsScrape(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/metrics", nil))
	if after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "200")); after != before {
		t.Errorf("scrape was counted: %v -> %v", before, after)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    string
	}{
		{"/operatordashboard", "GET /operatordashboard", "GET /operatordashboard"},
		{"/static/js/charts.js", "", "/static/"},
		{"/wp-admin", "", "unmatched"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		req.Pattern = tt.pattern
		if got := routeLabel(req); got != tt.want {
			t.Errorf("routeLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBackendCall(t *testing.T) {
	before := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("test_endpoint", "error"))
	BackendCall("test_endpoint", 0, 10*time.Millisecond)
	after := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("test_endpoint", "error"))
	if after != before+1 {
		t.Errorf("expected error status counter to increase, got %v -> %v", before, after)
	}

	before = testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("test_endpoint", "201"))
	BackendCall("test_endpoint", 201, time.Millisecond)
	after = testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("test_endpoint", "201"))
	if after != before+1 {
		t.Errorf("expected 201 counter to increase, got %v -> %v", before, after)
	}
}

func TestAttendantSubmitted(t *testing.T) {
	before := testutil.ToFloat64(AttendantSubmissionsTotal.WithLabelValues(SubmissionInvalid))
	AttendantSubmitted(SubmissionInvalid)
	if got := testutil.ToFloat64(AttendantSubmissionsTotal.WithLabelValues(SubmissionInvalid)); got != before+1 {
		t.Errorf("expected invalid submissions to increase, got %v -> %v", before, got)
	}
}
