package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RosterOps           *prometheus.CounterVec
	VersionConflicts    prometheus.Counter
	MatchesCompleted    prometheus.Counter
	ProgressionDuration prometheus.Histogram
	ProgressionFailed   prometheus.Counter
	EventsPublished     prometheus.Counter
	EventsFailed        prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
