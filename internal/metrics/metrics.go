// Package metrics holds the Prometheus collectors of the tracking service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion outcomes.
const (
	OutcomeRecorded = "recorded"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Metrics struct {
	EventsReceivedTotal     *prometheus.CounterVec
	EventsProcessedTotal    *prometheus.CounterVec
	EventProcessingDuration prometheus.Histogram
	IngestionQueueDepth     prometheus.Gauge
	DeadLettersTotal        *prometheus.CounterVec
	RetriesTotal            *prometheus.CounterVec
	PackagesPurgedTotal     prometheus.Counter
	HTTPRequestDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsReceivedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracking_events_received_total",
				Help: "Total number of tracking events accepted for ingestion",
			},
			[]string{"source"},
		),
		EventsProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracking_events_processed_total",
				Help: "Total number of tracking events processed by outcome",
			},
			[]string{"outcome"},
		),
		EventProcessingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tracking_event_processing_duration_seconds",
				Help:    "Duration of tracking event processing including retries",
				Buckets: prometheus.DefBuckets,
			},
		),
		IngestionQueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tracking_ingestion_queue_depth",
				Help: "Number of tracking events waiting for a worker",
			},
		),
		DeadLettersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracking_dead_letters_total",
				Help: "Total number of dead letters by publish result",
			},
			[]string{"result"},
		),
		RetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "package_store_retries_total",
				Help: "Total number of retried package store operations",
			},
			[]string{"operation"},
		),
		PackagesPurgedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "packages_purged_total",
				Help: "Total number of delivered packages removed by retention",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(
		m.EventsReceivedTotal,
		m.EventsProcessedTotal,
		m.EventProcessingDuration,
		m.IngestionQueueDepth,
		m.DeadLettersTotal,
		m.RetriesTotal,
		m.PackagesPurgedTotal,
		m.HTTPRequestDuration,
	)

	return m
}

func (m *Metrics) EventReceived(source string) {
	m.EventsReceivedTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) EventProcessed(outcome string, elapsed time.Duration) {
	m.EventsProcessedTotal.WithLabelValues(outcome).Inc()
	m.EventProcessingDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) QueueDepth(depth int) {
	m.IngestionQueueDepth.Set(float64(depth))
}

func (m *Metrics) DeadLetter(published bool) {
	result := "published"
	if !published {
		result = "failed"
	}
	m.DeadLettersTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Retried(operation string) {
	m.RetriesTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) Purged(count int64) {
	m.PackagesPurgedTotal.Add(float64(count))
}

func (m *Metrics) RequestServed(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
