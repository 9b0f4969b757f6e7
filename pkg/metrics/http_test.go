package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCountsByLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/cliente/{vendorID}/", "200", 25*time.Millisecond)
	m.ObserveRequest("GET", "/cliente/{vendorID}/", "200", 40*time.Millisecond)
	m.ObserveRequest("POST", "/login/", "303", 10*time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/cliente/{vendorID}/", "200"))
	if got != 2 {
		t.Fatalf("requests counter = %v, want 2", got)
	}
	got = testutil.ToFloat64(m.requests.WithLabelValues("POST", "/login/", "303"))
	if got != 1 {
		t.Fatalf("requests counter = %v, want 1", got)
	}
}

func TestObserveRequestNormalizesEmptyRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "", "404", time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404"))
	if got != 1 {
		t.Fatalf("requests counter = %v, want 1", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", "200", time.Millisecond)
	m.TrackInFlight()()

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/", "200", time.Millisecond)
	empty.TrackInFlight()()
}
