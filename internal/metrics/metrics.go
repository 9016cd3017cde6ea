// Package metrics holds the Prometheus collectors for the poller and the
// append-only query-stats log.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sotastats"

// Record outcomes.
const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Collectors groups every metric the poller exports.
// A nil *Collectors is valid and records nothing.
type Collectors struct {
	firings        *prometheus.CounterVec
	firingDuration *prometheus.HistogramVec
	records        *prometheus.CounterVec
	feedRequests   *prometheus.CounterVec
	lastIngest     prometheus.Gauge
	lastFetched    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		firings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_firings_total",
			Help:      "Scheduler trigger firings by trigger and result",
		}, []string{"trigger", "result"}),
		firingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trigger_duration_seconds",
			Help:      "Time spent in each scheduler trigger",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"trigger"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Feed records by kind and outcome",
		}, []string{"kind", "outcome"}),
		feedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Feed HTTP requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		lastIngest: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_ingest_timestamp_seconds",
			Help:      "Unix timestamp of the last committed spot ingestion",
		}),
		lastFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_ingest_fetched",
			Help:      "Spots returned by the feed in the last ingestion",
		}),
	}
	reg.MustRegister(
		c.firings, c.firingDuration, c.records,
		c.feedRequests, c.lastIngest, c.lastFetched,
	)
	return c
}

// ObserveFiring records one trigger firing.
func (c *Collectors) ObserveFiring(trigger string, d time.Duration, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.firings.WithLabelValues(trigger, result).Inc()
	c.firingDuration.WithLabelValues(trigger).Observe(d.Seconds())
}

// AddRecords counts n records of kind with the given outcome.
func (c *Collectors) AddRecords(kind, outcome string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.records.WithLabelValues(kind, outcome).Add(float64(n))
}

// FeedRequest counts one feed HTTP attempt. status is "ok" or "error".
func (c *Collectors) FeedRequest(endpoint, status string) {
	if c == nil {
		return
	}
	c.feedRequests.WithLabelValues(endpoint, status).Inc()
}

// Ingested records a committed ingestion.
func (c *Collectors) Ingested(at time.Time, fetched int) {
	if c == nil {
		return
	}
	c.lastIngest.Set(float64(at.Unix()))
	c.lastFetched.Set(float64(fetched))
}
