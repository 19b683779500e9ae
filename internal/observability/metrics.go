// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rajaswap_relay"

var (
	ordersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "orders_submitted_total",
		Help:      "Total number of order submissions by result",
	}, []string{"result"})

	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "sync_runs_total",
		Help:      "Total number of settlement synchronizations by result",
	}, []string{"result"})

	feeAttestations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "relay",
		Name:      "fee_attestations_total",
		Help:      "Total number of promotion fee attestations by result",
	}, []string{"result"})

	chainCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "call_duration_seconds",
		Help:      "Ledger RPC call latency by contract method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// RecordSubmit records an order submission outcome ("ok" or an error kind).
func RecordSubmit(result string) {
	ordersSubmitted.WithLabelValues(result).Inc()
}

// RecordSync records a settlement synchronization outcome.
func RecordSync(result string) {
	syncRuns.WithLabelValues(result).Inc()
}

// RecordFeeAttestation records a fee attestation outcome.
func RecordFeeAttestation(result string) {
	feeAttestations.WithLabelValues(result).Inc()
}

// ObserveChainCall records the latency of a single ledger RPC call.
func ObserveChainCall(method string, seconds float64) {
	chainCallDuration.WithLabelValues(method).Observe(seconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
