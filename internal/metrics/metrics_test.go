package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transactions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware(mux)

	for _, id := range []string{"a", "b"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/transactions/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "GET /api/transactions/{id}", "404")); got != 2 {
		t.Fatalf("expected 2 pattern-labelled requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
}

func TestCacheLookupAndExposition(t *testing.T) {
	m := New()
	m.CacheLookup("dashboard", true)
	m.CacheLookup("dashboard", false)
	m.CacheLookup("dashboard", false)

	if got := testutil.ToFloat64(m.cacheLookup.WithLabelValues("dashboard", "miss")); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "cassa_cache_lookups_total") {
		t.Fatalf("exposition missing collector: %d\n%s", rr.Code, rr.Body.String())
	}
}
