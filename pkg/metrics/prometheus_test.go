// Copyright 2025 ChainCodec Authors

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("get metric: %v", err)
	}
	if err := c.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestPrometheusRecorderDecodeAttempt(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusRecorder(reg)

	p.DecodeAttempt("ethereum", "Transfer", true, 2*time.Millisecond)
	p.DecodeAttempt("ethereum", "Transfer", false, time.Millisecond)

	if got := counterValue(t, p.decodeAttempts, "ethereum", "Transfer", "success"); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := counterValue(t, p.decodeAttempts, "ethereum", "Transfer", "failure"); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestPrometheusRecorderDecodeSkipped(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusRecorder(reg)

	p.DecodeSkipped("solana")
	p.DecodeSkipped("solana")

	if got := counterValue(t, p.decodeSkipped, "solana"); got != 2 {
		t.Fatalf("expected 2 skipped, got %v", got)
	}
}

func TestPrometheusRecorderBatchCompleted(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusRecorder(reg)

	p.BatchCompleted(100, 90, 8, 2, 50*time.Millisecond)

	if got := counterValue(t, p.batchTotal, "succeeded"); got != 90 {
		t.Fatalf("expected 90 succeeded, got %v", got)
	}
	if got := counterValue(t, p.batchTotal, "skipped"); got != 8 {
		t.Fatalf("expected 8 skipped, got %v", got)
	}
	if got := counterValue(t, p.batchTotal, "failed"); got != 2 {
		t.Fatalf("expected 2 failed, got %v", got)
	}
}

func TestPrometheusRecorderStreamStateChanged(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusRecorder(reg)

	p.StreamStateChanged("ethereum", "running")

	m := &dto.Metric{}
	g, err := p.streamState.GetMetricWithLabelValues("ethereum", "running")
	if err != nil {
		t.Fatalf("get gauge: %v", err)
	}
	if err := g.Write(m); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	if got := m.GetGauge().GetValue(); got != 1 {
		t.Fatalf("expected running gauge to be 1, got %v", got)
	}

	g2, err := p.streamState.GetMetricWithLabelValues("ethereum", "connecting")
	if err != nil {
		t.Fatalf("get gauge: %v", err)
	}
	m2 := &dto.Metric{}
	if err := g2.Write(m2); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	if got := m2.GetGauge().GetValue(); got != 0 {
		t.Fatalf("expected connecting gauge to be 0, got %v", got)
	}
}

func TestPrometheusRecorderSubscriberLagged(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusRecorder(reg)

	p.SubscriberLagged("ethereum", 3)
	p.SubscriberLagged("ethereum", 2)

	if got := counterValue(t, p.subscriberLag, "ethereum"); got != 5 {
		t.Fatalf("expected 5 lagged messages, got %v", got)
	}
}

func TestPrometheusRecorderProxyClassified(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusRecorder(reg)

	p.ProxyClassified("logic_proxy")
	p.ProxyClassified("logic_proxy")
	p.ProxyClassified("beacon_proxy")

	if got := counterValue(t, p.proxyClassified, "logic_proxy"); got != 2 {
		t.Fatalf("expected 2 logic_proxy, got %v", got)
	}
	if got := counterValue(t, p.proxyClassified, "beacon_proxy"); got != 1 {
		t.Fatalf("expected 1 beacon_proxy, got %v", got)
	}
}

func TestNoOpRecorderDoesNothing(t *testing.T) {
	// NoOp must be safe to call with any arguments without panicking;
	// callers depend on never needing a nil check.
	NoOp.DecodeAttempt("ethereum", "Transfer", true, time.Millisecond)
	NoOp.DecodeSkipped("ethereum")
	NoOp.BatchCompleted(1, 1, 0, 0, time.Millisecond)
	NoOp.StreamStateChanged("ethereum", "running")
	NoOp.StreamReconnect("ethereum", 1, time.Millisecond)
	NoOp.SubscriberLagged("ethereum", 1)
	NoOp.ProxyClassified("logic_proxy")
}
