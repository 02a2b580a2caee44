package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestU_Metrics_IsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.CacheHitsTotal.WithLabelValues("timestamp").Inc()

	if got := testutil.ToFloat64(a.CacheHitsTotal.WithLabelValues("timestamp")); got != 1 {
		t.Errorf("a cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.CacheHitsTotal.WithLabelValues("timestamp")); got != 0 {
		t.Errorf("b cache hits = %v, want 0", got)
	}
}

func TestU_Metrics_Handler(t *testing.T) {
	m := New()
	m.ResolutionsTotal.Inc()
	m.ObserveRequest(http.MethodGet, "/api/v1/suite", http.StatusOK, 3*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics error = %v", err)
	}
	for _, want := range []string{
		"cryptosuite_resolutions_total 1",
		`cryptosuite_http_requests_total{method="GET",route="/api/v1/suite",status_code="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
