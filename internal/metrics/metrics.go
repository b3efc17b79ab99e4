// Package metrics holds the prometheus collectors shared by the salon server
// and the client sync engine. Collectors are registered lazily on first use
// with the default registry.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salon"

// Result labels.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultMalformed = "malformed"
	ResultAbsent    = "absent"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	pulls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pulls_total",
			Help:      "Remote pulls per collection and outcome.",
		},
		[]string{"collection", "result"},
	)
	pushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pushes_total",
			Help:      "Remote pushes per collection and outcome.",
		},
		[]string{"collection", "result"},
	)
	mergedRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "merged_records",
			Help:      "Records in the collection after the last merge.",
		},
		[]string{"collection"},
	)
	collectionWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "collection_writes_total",
			Help:      "Accepted collection writes on the remote store.",
		},
		[]string{"collection"},
	)
	watchers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "watchers",
			Help:      "Currently blocked watch requests.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, pulls, pushes, mergedRecords, collectionWrites, watchers)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordPull(collection, result string, merged int) {
	RegisterMetrics()
	pulls.WithLabelValues(collection, result).Inc()
	if result == ResultOK || result == ResultMalformed || result == ResultAbsent {
		mergedRecords.WithLabelValues(collection).Set(float64(merged))
	}
}

func RecordPush(collection string, err error) {
	RegisterMetrics()
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	pushes.WithLabelValues(collection, result).Inc()
}

func RecordCollectionWrite(collection string) {
	RegisterMetrics()
	collectionWrites.WithLabelValues(collection).Inc()
}

// TrackWatcher increments the watcher gauge and returns the matching
// decrement.
func TrackWatcher() func() {
	RegisterMetrics()
	watchers.Inc()
	return watchers.Dec
}
