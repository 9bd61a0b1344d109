package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomsync",
			Subsystem: "session",
			Name:      "messages_sent_total",
			Help:      "Messages handed to the transport.",
		},
		[]string{"session", "type"},
	)
	messagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomsync",
			Subsystem: "session",
			Name:      "messages_received_total",
			Help:      "Messages received from the transport.",
		},
		[]string{"session", "type"},
	)
	duplicatesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomsync",
			Subsystem: "session",
			Name:      "duplicates_dropped_total",
			Help:      "Inbound messages discarded by the deduplication window.",
		},
		[]string{"session"},
	)
	deliveryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomsync",
			Subsystem: "session",
			Name:      "delivery_failures_total",
			Help:      "Messages abandoned after exhausting acknowledgment retries.",
		},
		[]string{"session"},
	)
	reconnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomsync",
			Subsystem: "session",
			Name:      "reconnect_attempts_total",
			Help:      "Reconnection attempts driven by the supervisor.",
		},
		[]string{"session"},
	)
	roundTrip = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roomsync",
			Subsystem: "session",
			Name:      "round_trip_seconds",
			Help:      "Acknowledgment round-trip time.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"session"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			messagesSent, messagesReceived, duplicatesDropped,
			deliveryFailures, reconnectAttempts, roundTrip,
		)
	})
}

func RecordMessageSent(session, msgType string) {
	RegisterMetrics()
	messagesSent.WithLabelValues(session, msgType).Inc()
}

func RecordMessageReceived(session, msgType string) {
	RegisterMetrics()
	messagesReceived.WithLabelValues(session, msgType).Inc()
}

func RecordDuplicateDropped(session string) {
	RegisterMetrics()
	duplicatesDropped.WithLabelValues(session).Inc()
}

func RecordDeliveryFailure(session string) {
	RegisterMetrics()
	deliveryFailures.WithLabelValues(session).Inc()
}

func RecordReconnectAttempt(session string) {
	RegisterMetrics()
	reconnectAttempts.WithLabelValues(session).Inc()
}

func RecordRoundTrip(session string, rtt time.Duration) {
	RegisterMetrics()
	roundTrip.WithLabelValues(session).Observe(rtt.Seconds())
}
