// Copyright 2025 ChainCodec Authors

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder is the production Recorder, backed by
// prometheus/client_golang. Register it against a prometheus.Registerer
// once at startup and hand the Recorder to batch.Run, stream.Config,
// and the proxy call sites that want observability.
type PrometheusRecorder struct {
	decodeAttempts  *prometheus.CounterVec
	decodeSkipped   *prometheus.CounterVec
	decodeLatency   *prometheus.HistogramVec
	batchTotal      *prometheus.CounterVec
	batchElapsed    prometheus.Histogram
	streamState     *prometheus.GaugeVec
	streamReconnect *prometheus.CounterVec
	backoffDelay    *prometheus.HistogramVec
	subscriberLag   *prometheus.CounterVec
	proxyClassified *prometheus.CounterVec
}

// NewPrometheusRecorder constructs and registers a PrometheusRecorder
// against reg. Passing prometheus.DefaultRegisterer registers against
// the global default registry.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	const ns = "chaincodec"

	p := &PrometheusRecorder{
		decodeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "decode_attempts_total",
			Help: "Total decode attempts by chain, schema, and outcome.",
		}, []string{"chain", "schema", "outcome"}),
		decodeSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "decode_skipped_total",
			Help: "Events skipped for lacking a matching schema fingerprint.",
		}, []string{"chain"}),
		decodeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "decode_latency_seconds",
			Help:    "Per-event decode latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"chain", "schema"}),
		batchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "batch_items_total",
			Help: "Items processed by a batch run, by outcome.",
		}, []string{"outcome"}),
		batchElapsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "batch_run_seconds",
			Help:    "Wall-clock duration of a batch.Run call.",
			Buckets: prometheus.DefBuckets,
		}),
		streamState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "stream_state",
			Help: "1 for the ChainStream's current connection state, 0 otherwise.",
		}, []string{"chain", "state"}),
		streamReconnect: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "stream_reconnects_total",
			Help: "Reconnect attempts made by a ChainStream.",
		}, []string{"chain"}),
		backoffDelay: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "stream_backoff_seconds",
			Help:    "Backoff delay applied before a reconnect attempt.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"chain"}),
		subscriberLag: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "stream_subscriber_lagged_total",
			Help: "Messages dropped from a lagging broadcast subscriber's buffer.",
		}, []string{"chain"}),
		proxyClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "proxy_classified_total",
			Help: "Proxy classifications by resulting kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		p.decodeAttempts, p.decodeSkipped, p.decodeLatency,
		p.batchTotal, p.batchElapsed,
		p.streamState, p.streamReconnect, p.backoffDelay, p.subscriberLag,
		p.proxyClassified,
	)
	return p
}

func (p *PrometheusRecorder) DecodeAttempt(chain, schema string, ok bool, latency time.Duration) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	p.decodeAttempts.WithLabelValues(chain, schema, outcome).Inc()
	p.decodeLatency.WithLabelValues(chain, schema).Observe(latency.Seconds())
}

func (p *PrometheusRecorder) DecodeSkipped(chain string) {
	p.decodeSkipped.WithLabelValues(chain).Inc()
}

func (p *PrometheusRecorder) BatchCompleted(total, succeeded, skipped, failed int, elapsed time.Duration) {
	p.batchTotal.WithLabelValues("succeeded").Add(float64(succeeded))
	p.batchTotal.WithLabelValues("skipped").Add(float64(skipped))
	p.batchTotal.WithLabelValues("failed").Add(float64(failed))
	p.batchElapsed.Observe(elapsed.Seconds())
}

func (p *PrometheusRecorder) StreamStateChanged(slug, state string) {
	for _, s := range []string{"connecting", "subscribed", "running", "disconnected"} {
		v := 0.0
		if s == state {
			v = 1.0
		}
		p.streamState.WithLabelValues(slug, s).Set(v)
	}
}

func (p *PrometheusRecorder) StreamReconnect(slug string, attempt int, delay time.Duration) {
	p.streamReconnect.WithLabelValues(slug).Inc()
	p.backoffDelay.WithLabelValues(slug).Observe(delay.Seconds())
}

func (p *PrometheusRecorder) SubscriberLagged(slug string, n int) {
	p.subscriberLag.WithLabelValues(slug).Add(float64(n))
}

func (p *PrometheusRecorder) ProxyClassified(kind string) {
	p.proxyClassified.WithLabelValues(kind).Inc()
}
