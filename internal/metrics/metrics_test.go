package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.AuthFailure("NO_TOKEN")
	c.AuthFailure("NO_TOKEN")
	c.AuthFailure("TOKEN_EXPIRED")
	c.RateRejection("message")
	c.Degraded("ratelimit:api")
	c.CacheHit("ai")
	c.CacheMiss("ai")
	c.CacheMiss("translation")
	c.BackendCall("chat", 120*time.Millisecond, false)
	c.BackendCall("chat", 80*time.Millisecond, true)

	counters := []struct {
		name string
		vec  *prometheus.CounterVec
		lbls []string
		want float64
	}{
		{"auth failures NO_TOKEN", c.authFailures, []string{"NO_TOKEN"}, 2},
		{"auth failures TOKEN_EXPIRED", c.authFailures, []string{"TOKEN_EXPIRED"}, 1},
		{"rate rejections", c.rateRejections, []string{"message"}, 1},
		{"degraded", c.degraded, []string{"ratelimit:api"}, 1},
		{"cache hits", c.cacheHits, []string{"ai"}, 1},
		{"cache misses ai", c.cacheMisses, []string{"ai"}, 1},
		{"cache misses translation", c.cacheMisses, []string{"translation"}, 1},
		{"backend ok", c.backendCalls, []string{"chat", "ok"}, 1},
		{"backend error", c.backendCalls, []string{"chat", "error"}, 1},
	}
	for _, tt := range counters {
		if got := testutil.ToFloat64(tt.vec.WithLabelValues(tt.lbls...)); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCollectorRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.BackendCall("translate", 50*time.Millisecond, false)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}

	byName := make(map[string]bool, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = true
	}
	for _, name := range []string{
		"glossa_backend_calls_total",
		"glossa_backend_latency_seconds",
	} {
		if !byName[name] {
			t.Errorf("metric %s not registered", name)
		}
	}

	for _, mf := range families {
		if mf.GetName() != "glossa_backend_latency_seconds" {
			continue
		}
		if n := mf.GetMetric()[0].GetHistogram().GetSampleCount(); n != 1 {
			t.Errorf("latency sample count = %d, want 1", n)
		}
	}

	// a second collector on its own registry must not collide
	NewCollector(prometheus.NewRegistry())
}
