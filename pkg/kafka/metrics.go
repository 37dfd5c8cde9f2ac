package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProducerEventsPublished counts events successfully written to Kafka.
	ProducerEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_events_published_total",
			Help: "Total number of events successfully published to Kafka",
		},
		[]string{"topic", "event_type"},
	)

	// ProducerEventsFailed counts events that could not be written.
	ProducerEventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_events_failed_total",
			Help: "Total number of events that failed to publish to Kafka",
		},
		[]string{"topic", "event_type"},
	)

	// ProducerPublishDuration observes the duration of a publish round-trip.
	ProducerPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_producer_publish_duration_seconds",
			Help:    "Duration of Kafka publish calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)
