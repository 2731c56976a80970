package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(invoicesGeneratedTotal, invoicedCentsTotal)
}

var (
	invoicesGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoices_generated_total",
			Help: "Total number of invoices produced by the settlement worker, labeled by status.",
		},
		[]string{"status"}, // 'generated', 'failed'
	)

	invoicedCentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoiced_cents_total",
			Help: "Sum of invoiced amounts in cents.",
		},
	)
)

func IncInvoice(status string) {
	invoicesGeneratedTotal.WithLabelValues(norm(status)).Inc()
}

func AddInvoicedCents(cents int64) {
	invoicedCentsTotal.Add(float64(cents))
}
