package stackguard

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Inc(MetricLoginSuccess)
			}
		}()
	}
	wg.Wait()

	m.Observe(MetricAuthenticateLatency, 3*time.Millisecond)
	m.Observe(MetricAuthenticateLatency, time.Second)
	m.Observe(MetricLoginSuccess, time.Millisecond)

	s := m.Snapshot()
	if s.Counters[MetricLoginSuccess] != 800 {
		t.Fatalf("expected 800, got %d", s.Counters[MetricLoginSuccess])
	}
	if _, ok := s.Counters[MetricAuthenticateLatency]; ok {
		t.Fatal("histogram id must not appear as a counter")
	}
	h := s.Histograms[MetricAuthenticateLatency]
	if len(h) != histBucketCount || h[0] != 1 || h[7] != 1 {
		t.Fatalf("unexpected histogram %v", h)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{})
	m.Inc(MetricLogout)
	m.Observe(MetricAuthenticateLatency, time.Millisecond)

	s := m.Snapshot()
	if len(s.Counters) != 0 || len(s.Histograms) != 0 {
		t.Fatalf("disabled metrics must be empty, got %+v", s)
	}

	var nilMetrics *Metrics
	nilMetrics.Inc(MetricLogout)
	if nilMetrics.Value(MetricLogout) != 0 {
		t.Fatal("nil metrics must read zero")
	}
}

func TestBucketIndex(t *testing.T) {
	cases := map[time.Duration]int{
		0:                      0,
		5 * time.Millisecond:   0,
		6 * time.Millisecond:   1,
		25 * time.Millisecond:  2,
		50 * time.Millisecond:  3,
		100 * time.Millisecond: 4,
		250 * time.Millisecond: 5,
		500 * time.Millisecond: 6,
		time.Second:            7,
	}
	for d, want := range cases {
		if got := bucketIndex(d); got != want {
			t.Fatalf("bucketIndex(%v) = %d, want %d", d, got, want)
		}
	}
}
