// Package observability registers the Prometheus collectors shared by the tracker's components.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	usersResolvedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "directory",
		Name:      "users_resolved_total",
		Help:      "Number of successful find-or-create username lookups.",
	})

	exercisesAddedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "log",
		Name:      "records_added_total",
		Help:      "Number of exercise records persisted.",
	})

	lastExerciseDateGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_tracker",
		Subsystem: "log",
		Name:      "last_record_date_timestamp_seconds",
		Help:      "Unix timestamp of the date carried by the most recently persisted record.",
	})

	logQueriesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "log",
		Name:      "queries_total",
		Help:      "Number of log queries answered.",
	})

	logEntriesHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "exercise_tracker",
		Subsystem: "log",
		Name:      "entries_returned",
		Help:      "Number of entries returned per log query after windowing.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	storageErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Number of failed store operations, labeled by operation.",
	}, []string{"op"})

	eventsPublishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of event publish attempts, labeled by outcome.",
	}, []string{"outcome"})

	httpRequestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests served, labeled by method and status class.",
	}, []string{"method", "code"})
)

func init() {
	prometheus.MustRegister(
		usersResolvedCounter,
		exercisesAddedCounter,
		lastExerciseDateGauge,
		logQueriesCounter,
		logEntriesHistogram,
		storageErrorCounter,
		eventsPublishedCounter,
		httpRequestsCounter,
	)
}

// RecordUserResolved counts a successful find-or-create.
func RecordUserResolved() {
	usersResolvedCounter.Inc()
}

// RecordExerciseAdded counts a persisted record and updates the date watermark.
func RecordExerciseAdded(date time.Time) {
	exercisesAddedCounter.Inc()
	if date.IsZero() {
		return
	}
	lastExerciseDateGauge.Set(float64(date.Unix()))
}

// RecordLogQuery counts a log query and the size of its window.
func RecordLogQuery(entries int) {
	logQueriesCounter.Inc()
	logEntriesHistogram.Observe(float64(entries))
}

// RecordStorageError counts a failed store operation.
func RecordStorageError(op string) {
	storageErrorCounter.WithLabelValues(op).Inc()
}

// RecordPublish counts an event publish attempt.
func RecordPublish(ok bool) {
	outcome := "delivered"
	if !ok {
		outcome = "failed"
	}
	eventsPublishedCounter.WithLabelValues(outcome).Inc()
}

// RecordPublishDropped counts an event discarded because the dispatch queue was full.
func RecordPublishDropped() {
	eventsPublishedCounter.WithLabelValues("dropped").Inc()
}

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(method string, code int) {
	httpRequestsCounter.WithLabelValues(method, statusClass(code)).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
