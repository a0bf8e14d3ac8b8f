package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kickbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kickbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kickbook_bookings_total",
			Help: "Total number of bookings created",
		},
		[]string{"format"},
	)

	BookingJoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kickbook_booking_joins_total",
			Help: "Total number of player registrations against bookings",
		},
	)

	CancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kickbook_cancellations_total",
			Help: "Total number of cancellations",
		},
		[]string{"kind"}, // player or booking
	)

	RefundCreditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kickbook_refund_credits_total",
			Help: "Total credits refunded through cancellations",
		},
	)

	CreditPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kickbook_credit_purchases_total",
			Help: "Total number of credit purchases",
		},
		[]string{"status"},
	)

	CreditsSpentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kickbook_credits_spent_total",
			Help: "Total credits spent on bookings",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kickbook_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kickbook_notifications_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kickbook_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	AchievementUnlocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kickbook_achievement_unlocks_total",
			Help: "Total number of achievement unlocks",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(format string) {
	BookingsTotal.WithLabelValues(format).Inc()
}

func RecordBookingJoin(creditCost int) {
	BookingJoinsTotal.Inc()
	CreditsSpentTotal.Add(float64(creditCost))
}

func RecordCancellation(kind string, refundedCredits int) {
	CancellationsTotal.WithLabelValues(kind).Inc()
	RefundCreditsTotal.Add(float64(refundedCredits))
}

func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

func RecordCreditPurchase(status string) {
	CreditPurchasesTotal.WithLabelValues(status).Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsTotal.WithLabelValues(notifType, status).Inc()
}

func RecordAchievementUnlocks(n int) {
	AchievementUnlocksTotal.Add(float64(n))
}
