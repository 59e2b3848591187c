package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRosterOp(op string)
	IncVersionConflicts()
	IncMatchesCompleted()
	ObserveProgressionDuration(duration float64)
	IncProgressionFailed()
	IncEventsPublished()
	IncEventsFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists operation counters across restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
