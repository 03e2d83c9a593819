package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tablebooking",
			Name:      "booking_created_total",
			Help:      "Count of bookings committed.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebooking",
			Name:      "booking_rejected_total",
			Help:      "Count of booking requests rejected by reason.",
		},
		[]string{"reason"},
	)

	notificationFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebooking",
			Name:      "notification_failed_total",
			Help:      "Count of confirmation sends that failed by channel.",
		},
		[]string{"channel"},
	)

	reservationsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tablebooking",
			Name:      "reservations_purged_total",
			Help:      "Count of expired reservation rows removed.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingRejected, notificationFailed, reservationsPurged)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncNotificationFailed(channel string) {
	notificationFailed.WithLabelValues(channel).Inc()
}

func AddReservationsPurged(n int64) {
	reservationsPurged.Add(float64(n))
}
