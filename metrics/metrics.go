package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DonationProcessDuration tracks the latency of the full donation
	// aggregation path (validate, insert, upsert, publish).
	DonationProcessDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "donation_process_duration_seconds",
			Help:    "Duration of donation processing in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"status"}, // success or failed
	)

	// DonationsRecorded counts successfully recorded donations.
	DonationsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donations_recorded_total",
			Help: "Number of donations recorded",
		},
		[]string{"payment_method"},
	)

	// NotificationsDropped counts donation notifications dropped because the
	// dispatch queue was full.
	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_dropped_total",
			Help: "Number of donation notifications dropped before send",
		},
	)
)

// RecordDonationDuration records the duration of one donation request.
func RecordDonationDuration(status string, seconds float64) {
	DonationProcessDuration.WithLabelValues(status).Observe(seconds)
}

// CountDonation counts one recorded donation by payment method.
func CountDonation(paymentMethod string) {
	DonationsRecorded.WithLabelValues(paymentMethod).Inc()
}

// CountDroppedNotification counts one dropped notification.
func CountDroppedNotification() {
	NotificationsDropped.Inc()
}
