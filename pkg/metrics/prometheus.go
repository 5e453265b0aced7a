package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pollsTotal   *prometheus.CounterVec
	pollErrors   *prometheus.CounterVec
	staleDropped *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	fetchLatency *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroview_polls_total",
				Help: "Total number of poll fetches issued per subscription key",
			},
			[]string{"key"},
		),
		pollErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroview_poll_errors_total",
				Help: "Total number of failed poll fetches per subscription key",
			},
			[]string{"key"},
		),
		staleDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroview_stale_responses_dropped_total",
				Help: "Responses discarded because a newer fetch already resolved",
			},
			[]string{"key"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "astroview_last_price",
				Help: "Last ticker price seen for a base asset",
			},
			[]string{"asset"},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astroview_fetch_duration_seconds",
				Help:    "Duration of bot API fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

// RecordPoll records an issued poll fetch for a key.
func (r *Recorder) RecordPoll(key string) {
	r.pollsTotal.WithLabelValues(key).Inc()
}

// RecordPollError records a failed poll fetch for a key.
func (r *Recorder) RecordPollError(key string) {
	r.pollErrors.WithLabelValues(key).Inc()
}

// RecordStaleDrop records a discarded out-of-order response for a key.
func (r *Recorder) RecordStaleDrop(key string) {
	r.staleDropped.WithLabelValues(key).Inc()
}

// RecordLastPrice records the last ticker price for a base asset.
func (r *Recorder) RecordLastPrice(asset string, price float64) {
	r.lastPrice.WithLabelValues(asset).Set(price)
}

// RecordFetchLatency records bot API fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(endpoint string, seconds float64) {
	r.fetchLatency.WithLabelValues(endpoint).Observe(seconds)
}
