package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics_Registers(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.CacheHits.WithLabelValues("info").Inc()
	m.CacheMisses.WithLabelValues("info").Add(2)
	m.OriginCalls.WithLabelValues("list").Inc()

	if got := testutil.ToFloat64(m.CacheHits.WithLabelValues("info")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheMisses.WithLabelValues("info")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}

	// Registering the same collectors twice must panic via MustRegister.
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	reg.MustRegister(m.CacheHits)
}
