// Package observability exposes Prometheus collectors for the client cache,
// the mutation dispatcher and the reference server.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitdeck",
		Subsystem: "cache",
		Name:      "fetches_total",
		Help:      "Collection fetches issued by the cache store, by outcome.",
	}, []string{"collection", "outcome"})

	cacheInvalidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitdeck",
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Collections marked stale.",
	}, []string{"collection"})

	cacheReplaceGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitdeck",
		Subsystem: "cache",
		Name:      "last_replace_timestamp_seconds",
		Help:      "Unix timestamp of the most recent snapshot replacement.",
	})

	mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitdeck",
		Subsystem: "mutation",
		Name:      "dispatched_total",
		Help:      "Mutations dispatched to the remote service, by kind and outcome.",
	}, []string{"kind", "outcome"})

	serverWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitdeck",
		Subsystem: "server",
		Name:      "writes_total",
		Help:      "Successful writes handled by the reference server.",
	}, []string{"collection"})

	serverWriteGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitdeck",
		Subsystem: "server",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful write.",
	})
)

func init() {
	prometheus.MustRegister(cacheFetches, cacheInvalidations, cacheReplaceGauge, mutations, serverWrites, serverWriteGauge)
}

// RecordFetch counts a finished collection fetch.
func RecordFetch(collection string, err error) {
	cacheFetches.WithLabelValues(collection, outcome(err)).Inc()
}

// RecordInvalidation counts a collection marked stale.
func RecordInvalidation(collection string) {
	cacheInvalidations.WithLabelValues(collection).Inc()
}

// RecordReplace updates the replacement watermark.
func RecordReplace(ts time.Time) {
	if ts.IsZero() {
		return
	}
	cacheReplaceGauge.Set(float64(ts.Unix()))
}

// RecordMutation counts a dispatched mutation.
func RecordMutation(kind string, err error) {
	mutations.WithLabelValues(kind, outcome(err)).Inc()
}

// RecordServerWrite counts a server write and moves the watermark.
func RecordServerWrite(collection string, ts time.Time) {
	serverWrites.WithLabelValues(collection).Inc()
	if !ts.IsZero() {
		serverWriteGauge.Set(float64(ts.Unix()))
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
