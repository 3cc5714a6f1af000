package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal    *prometheus.CounterVec
	ballotsCastTotal     prometheus.Counter
	eventsPublishedTotal *prometheus.CounterVec
	eventsDroppedTotal   *prometheus.CounterVec
	pollsDeletedTotal    prometheus.Counter
	registerOnce         sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rocketvote",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the voting API.",
		}, []string{"method", "path", "status"})
		ballotsCastTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "rocketvote",
			Name:      "ballots_cast_total",
			Help:      "Total successful ballot submissions, re-votes included.",
		})
		eventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rocketvote",
			Name:      "notify_events_published_total",
			Help:      "Events delivered to poll subscribers.",
		}, []string{"type"})
		eventsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rocketvote",
			Name:      "notify_events_dropped_total",
			Help:      "Events dropped because a subscriber channel was full.",
		}, []string{"type"})
		pollsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "rocketvote",
			Name:      "polls_deleted_total",
			Help:      "Polls purged by the scheduled deletion worker.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncBallotCast() {
	if ballotsCastTotal == nil {
		return
	}
	ballotsCastTotal.Inc()
}

func IncEventPublished(eventType string) {
	if eventsPublishedTotal == nil {
		return
	}
	eventsPublishedTotal.WithLabelValues(eventType).Inc()
}

func IncEventDropped(eventType string) {
	if eventsDroppedTotal == nil {
		return
	}
	eventsDroppedTotal.WithLabelValues(eventType).Inc()
}

func IncPollDeleted() {
	if pollsDeletedTotal == nil {
		return
	}
	pollsDeletedTotal.Inc()
}
