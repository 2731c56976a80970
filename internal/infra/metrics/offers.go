package metrics

import (
	"municipal-benefits/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		offersExpiredTotal,
		codesRetiredTotal,
		codesIssuedTotal,
		offersTotal,
	)
}

var (
	offersExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_expired_total",
			Help: "Total number of offers expired by the expiry worker.",
		},
	)

	codesRetiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codes_retired_total",
			Help: "Total number of discount codes deactivated after their offer expired.",
		},
	)

	codesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codes_issued_total",
			Help: "Total number of discount codes issued to citizens.",
		},
	)

	offersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "offers_total",
			Help: "Current number of offers by status.",
		},
		[]string{"status"}, // 'pending', 'active', 'rejected', 'expired'
	)
)

func IncOffersExpired(count int) {
	offersExpiredTotal.Add(float64(count))
}

func IncCodesRetired(count int) {
	codesRetiredTotal.Add(float64(count))
}

func IncCodeIssued() {
	codesIssuedTotal.Inc()
}

func SetOffersTotal(counts map[model.OfferStatus]int) {
	statuses := []model.OfferStatus{
		model.OfferStatusPending,
		model.OfferStatusActive,
		model.OfferStatusRejected,
		model.OfferStatusExpired,
	}
	for _, status := range statuses {
		if count, ok := counts[status]; ok {
			offersTotal.WithLabelValues(string(status)).Set(float64(count))
		}
	}
}
