package monitoring

import (
	"time"

	"github.com/UPO33/MPMatch/internal/matchmaking"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mpmatch_queue_users",
			Help: "Users currently waiting per queue",
		},
		[]string{"queue"},
	)

	queueTickets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mpmatch_queue_tickets",
			Help: "Tickets currently waiting per queue",
		},
		[]string{"queue"},
	)

	matchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpmatch_matches_total",
			Help: "Completed matches per queue",
		},
		[]string{"queue"},
	)

	ticketFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpmatch_ticket_failures_total",
			Help: "Failed tickets per queue and code",
		},
		[]string{"queue", "code"},
	)

	matchMinAge = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mpmatch_match_min_age_seconds",
			Help:    "Wait time of the youngest ticket in each completed match",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"queue"},
	)

	tickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mpmatch_tick_duration_seconds",
			Help:    "Duration of one scheduling pass over all queues",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	droppedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpmatch_dropped_events_total",
			Help: "Events dropped because the dispatch buffer was full",
		},
		[]string{"type"},
	)

	deliveryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpmatch_delivery_errors_total",
			Help: "Events whose storage or notification failed",
		},
		[]string{"type", "stage"},
	)
)

type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) ObserveQueues(status map[string]matchmaking.QueueStatus) {
	for name, s := range status {
		queueUsers.WithLabelValues(name).Set(float64(s.NumUsers))
		queueTickets.WithLabelValues(name).Set(float64(s.NumTickets))
	}
}

func (m *Monitor) TrackMatch(result matchmaking.MatchResult) {
	matchesTotal.WithLabelValues(result.QueueName).Inc()
	matchMinAge.WithLabelValues(result.QueueName).Observe(result.MinAge.Seconds())
}

// unknownQueue labels failures whose queue name came from a client and
// matches no schema, so arbitrary names never become series.
const unknownQueue = "unknown"

func (m *Monitor) TrackFailure(queue string, code matchmaking.FailCode) {
	if code == matchmaking.FailQueueNotFound {
		queue = unknownQueue
	}
	ticketFailures.WithLabelValues(queue, code.String()).Inc()
}

func (m *Monitor) TrackTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

func (m *Monitor) TrackDropped(eventType string) {
	droppedEvents.WithLabelValues(eventType).Inc()
}

func (m *Monitor) TrackDeliveryError(eventType, stage string) {
	deliveryErrors.WithLabelValues(eventType, stage).Inc()
}
