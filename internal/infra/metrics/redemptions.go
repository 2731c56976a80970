package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		redemptionsTotal,
		redemptionAmountCents,
		redemptionLatencyMs,
	)
}

var (
	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Redemption attempts by outcome (confirmed/invalid/not_found/error).",
		},
		[]string{"outcome"},
	)

	redemptionAmountCents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redemption_amount_cents_total",
			Help: "Sum of validated redemption amounts in cents.",
		},
	)

	redemptionLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "redemption_latency_ms",
			Help:    "Redemption pipeline latency distribution in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
	)
)

func IncRedemption(outcome string) {
	redemptionsTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveRedemption(amountCents int64, latencyMs int) {
	redemptionAmountCents.Add(float64(amountCents))
	redemptionLatencyMs.Observe(float64(latencyMs))
}
