package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the card push service
type Metrics struct {
	// Card subscription metrics
	SubscriptionsTotal    prometheus.Counter
	UnsubscriptionsTotal  prometheus.Counter
	UnsubscribeRejections *prometheus.CounterVec

	// Schedule metrics
	SchedulesSaved     prometheus.Counter
	SchedulesCancelled prometheus.Counter

	// Tick metrics
	TicksTotal           prometheus.Counter
	TicksSkipped         *prometheus.CounterVec
	TickDuration         prometheus.Histogram
	PushesFired          *prometheus.CounterVec
	DuplicatesSuppressed *prometheus.CounterVec
	TickItemErrors       *prometheus.CounterVec

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    prometheus.Counter
	KafkaCommandsConsumed *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	return &Metrics{
		SubscriptionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardpush_service_subscriptions_total",
			Help: "Total number of card subscribe calls",
		}),
		UnsubscriptionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardpush_service_unsubscriptions_total",
			Help: "Total number of successful card unsubscriptions",
		}),
		UnsubscribeRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardpush_service_unsubscribe_rejections_total",
				Help: "Total number of rejected unsubscribe calls",
			},
			[]string{"reason"},
		),

		SchedulesSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardpush_service_schedules_saved_total",
			Help: "Total number of push schedules created or replaced",
		}),
		SchedulesCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardpush_service_schedules_cancelled_total",
			Help: "Total number of push schedules cancelled",
		}),

		TicksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardpush_service_ticks_total",
			Help: "Total number of completed scheduler ticks",
		}),
		TicksSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardpush_service_ticks_skipped_total",
				Help: "Total number of ticks skipped because another tick held the lock",
			},
			[]string{"lock"},
		),
		TickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardpush_service_tick_duration_seconds",
			Help:    "Duration of scheduler ticks in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PushesFired: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardpush_service_pushes_fired_total",
				Help: "Total number of delivery records written by the scheduler",
			},
			[]string{"kind"},
		),
		DuplicatesSuppressed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardpush_service_duplicates_suppressed_total",
				Help: "Total number of pushes suppressed by the fire guard",
			},
			[]string{"kind"},
		),
		TickItemErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardpush_service_tick_item_errors_total",
				Help: "Total number of schedules or groups skipped because of an error",
			},
			[]string{"stage"},
		),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardpush_service_kafka_messages_produced_total",
			Help: "Total number of messages produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cardpush_service_kafka_produce_errors_total",
			Help: "Total number of Kafka produce errors",
		}),
		KafkaCommandsConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardpush_service_kafka_commands_consumed_total",
				Help: "Total number of subscription commands consumed from Kafka",
			},
			[]string{"type", "result"},
		),
	}
}

// RecordSubscription records a subscribe call
func (m *Metrics) RecordSubscription() {
	m.SubscriptionsTotal.Inc()
}

// RecordUnsubscription records an unsubscribe outcome; an empty reason means success
func (m *Metrics) RecordUnsubscription(reason string) {
	if reason == "" {
		m.UnsubscriptionsTotal.Inc()
		return
	}
	m.UnsubscribeRejections.WithLabelValues(reason).Inc()
}

// RecordScheduleSaved records a createOrReplace call
func (m *Metrics) RecordScheduleSaved() {
	m.SchedulesSaved.Inc()
}

// RecordScheduleCancelled records a cancelled schedule
func (m *Metrics) RecordScheduleCancelled() {
	m.SchedulesCancelled.Inc()
}

// RecordTick records a completed tick and its duration
func (m *Metrics) RecordTick(duration float64) {
	m.TicksTotal.Inc()
	m.TickDuration.Observe(duration)
}

// RecordTickSkipped records a tick refused by the given lock
func (m *Metrics) RecordTickSkipped(lock string) {
	m.TicksSkipped.WithLabelValues(lock).Inc()
}

// RecordPush records a written delivery record
func (m *Metrics) RecordPush(kind string) {
	m.PushesFired.WithLabelValues(kind).Inc()
}

// RecordDuplicate records a push suppressed by de-duplication
func (m *Metrics) RecordDuplicate(kind string) {
	m.DuplicatesSuppressed.WithLabelValues(kind).Inc()
}

// RecordTickItemError records a skipped tick item
func (m *Metrics) RecordTickItemError(stage string) {
	if stage == "" {
		stage = "unknown"
	}
	m.TickItemErrors.WithLabelValues(stage).Inc()
}

// RecordKafkaMessage records a produced Kafka message
func (m *Metrics) RecordKafkaMessage() {
	m.KafkaMessagesProduced.Inc()
}

// RecordKafkaError records a Kafka produce error
func (m *Metrics) RecordKafkaError() {
	m.KafkaProduceErrors.Inc()
}

// RecordCommand records a consumed subscription command
func (m *Metrics) RecordCommand(commandType, result string) {
	m.KafkaCommandsConsumed.WithLabelValues(commandType, result).Inc()
}
