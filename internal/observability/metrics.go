// Package observability holds the Prometheus collectors shared by the client
// and the server.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	remoteWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "athletelog",
		Subsystem: "sync",
		Name:      "remote_writes_total",
		Help:      "Remote replication attempts by scope and outcome.",
	}, []string{"scope", "outcome"})

	remoteQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "athletelog",
		Subsystem: "sync",
		Name:      "remote_queue_depth",
		Help:      "Remote writes waiting to be replicated.",
	})

	coachRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "athletelog",
		Subsystem: "coach",
		Name:      "requests_total",
		Help:      "Coaching service requests by operation and outcome.",
	}, []string{"operation", "outcome"})

	apiRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "athletelog",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "REST API request latency by route pattern and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	lastWorkoutStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "athletelog",
		Subsystem: "storage",
		Name:      "last_workout_upsert_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout upsert applied to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(remoteWrites, remoteQueueDepth, coachRequests, apiRequests, lastWorkoutStored)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRemoteWrite counts one replication attempt.
func RecordRemoteWrite(scope string, err error) {
	remoteWrites.WithLabelValues(scope, outcome(err)).Inc()
}

// RecordRemoteDropped counts a write discarded because the queue was full.
func RecordRemoteDropped(scope string) {
	remoteWrites.WithLabelValues(scope, "dropped").Inc()
}

// SetRemoteQueueDepth reports the replication backlog.
func SetRemoteQueueDepth(n int) {
	remoteQueueDepth.Set(float64(n))
}

// RecordCoachRequest counts one coaching call.
func RecordCoachRequest(operation string, err error) {
	coachRequests.WithLabelValues(operation, outcome(err)).Inc()
}

// ObserveAPIRequest records a served request.
func ObserveAPIRequest(method, route string, status int, d time.Duration) {
	apiRequests.WithLabelValues(method, route, statusClass(status)).Observe(d.Seconds())
}

// RecordWorkoutStored updates the workout upsert watermark.
func RecordWorkoutStored(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastWorkoutStored.Set(float64(ts.Unix()))
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
