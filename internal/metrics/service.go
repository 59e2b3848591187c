package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RosterOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kix_roster_ops_total",
			Help: "The total number of roster operations, labeled by operation.",
		}, []string{"op"}),
		VersionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kix_version_conflicts_total",
			Help: "The total number of optimistic-concurrency conflicts hit by writers.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kix_matches_completed_total",
			Help: "The total number of matches marked completed.",
		}),
		ProgressionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kix_progression_duration_seconds",
			Help:    "The duration of applying post-match progression to all participants.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ProgressionFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kix_progression_failed_total",
			Help: "The total number of per-player progression updates that failed after retries.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kix_events_published_total",
			Help: "The total number of events successfully published.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kix_events_failed_total",
			Help: "The total number of events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kix_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RosterOps,
		s.VersionConflicts,
		s.MatchesCompleted,
		s.ProgressionDuration,
		s.ProgressionFailed,
		s.EventsPublished,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRosterOp(op string) {
	s.RosterOps.WithLabelValues(op).Inc()
}

func (s *Service) IncVersionConflicts() {
	s.VersionConflicts.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) ObserveProgressionDuration(duration float64) {
	s.ProgressionDuration.Observe(duration)
}

func (s *Service) IncProgressionFailed() {
	s.ProgressionFailed.Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
