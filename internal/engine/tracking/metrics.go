package tracking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes, used as the "outcome" label.
const (
	outcomeHit     = "hit"
	outcomeExtend  = "extend"
	outcomeRebuild = "rebuild"
	outcomeError   = "error"
)

// Invalidation reasons, used as the "reason" label.
const (
	reasonExplicit     = "explicit"
	reasonRangeChanged = "range_changed"
	reasonCommit       = "commit"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "markertrack",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Marker cache lookups by outcome",
	}, []string{"cache", "outcome"})

	cacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "markertrack",
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Marker cache entries dropped by reason",
	}, []string{"cache", "reason"})

	cacheReplayedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "markertrack",
		Subsystem: "cache",
		Name:      "replayed_events_total",
		Help:      "Edit events replayed over tracked markers",
	}, []string{"cache"})

	cacheReplayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "markertrack",
		Subsystem: "cache",
		Name:      "replay_duration_seconds",
		Help:      "Time spent replaying events on a cache miss",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"cache", "outcome"})
)

// deleteSeries removes every series of the named cache.
func deleteSeries(name string) {
	match := prometheus.Labels{"cache": name}
	cacheLookupsTotal.DeletePartialMatch(match)
	cacheInvalidationsTotal.DeletePartialMatch(match)
	cacheReplayedEventsTotal.DeletePartialMatch(match)
	cacheReplayDuration.DeletePartialMatch(match)
}
