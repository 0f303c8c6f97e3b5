package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	donationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ahaar",
			Subsystem: "donations",
			Name:      "transitions_total",
			Help:      "Donation status transitions, by target status.",
		},
		[]string{"status"},
	)

	sweptDonations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ahaar",
			Subsystem: "donations",
			Name:      "expired_by_sweep_total",
			Help:      "Donations moved to expired by the expiry sweep.",
		},
	)

	dependencyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ahaar",
			Subsystem: "side_effects",
			Name:      "failures_total",
			Help:      "Best-effort side effects that failed after the primary write succeeded.",
		},
		[]string{"effect"},
	)

	moneyDonated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ahaar",
			Subsystem: "ledger",
			Name:      "amount_total",
			Help:      "Sum of recorded money donations, by payment method.",
		},
		[]string{"payment_method"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		donationTransitions,
		sweptDonations,
		dependencyFailures,
		moneyDonated,
	)
}

// Handler exposes the registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordTransition(status string) {
	donationTransitions.WithLabelValues(status).Inc()
}

func RecordSwept(n int64) {
	if n > 0 {
		sweptDonations.Add(float64(n))
	}
}

func RecordDependencyFailure(effect string) {
	dependencyFailures.WithLabelValues(effect).Inc()
}

func RecordMoneyDonation(method string, amount float64) {
	moneyDonated.WithLabelValues(method).Add(amount)
}
