package reconcile

import "github.com/prometheus/client_golang/prometheus"

var (
	passesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_passes_total",
			Help: "Total number of reconciliation passes run",
		},
	)
	itemsCheckedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_items_checked_total",
			Help: "Total number of wishlist items priced successfully",
		},
	)
	itemsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_items_skipped_total",
			Help: "Total number of wishlist items skipped (fetch failure or no deals)",
		},
	)
)

func init() {
	prometheus.MustRegister(passesTotal)
	prometheus.MustRegister(itemsCheckedTotal)
	prometheus.MustRegister(itemsSkippedTotal)
}
