package http

import (
	"net/http"

	"github.com/kixfc/kix-server/internal/config"
	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/metrics"
	"github.com/kixfc/kix-server/internal/roster"
	"github.com/kixfc/kix-server/internal/updater"
)

func NewServer(coordinator *roster.Coordinator, upd *updater.Updater, metricsSvc metrics.Metrics, metricsHandler http.Handler, statsStore metrics.MetricsStore, cfg config.Config, publisher events.Publisher) *Server {
	server := &Server{
		Coordinator:    coordinator,
		Updater:        upd,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Stats:          statsStore,
		Cfg:            cfg,
		Events:         publisher,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(s.UsageStatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/join", Chain(s.JoinHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/leave", Chain(s.LeaveHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/check-in", Chain(s.CheckInHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/action", Chain(s.HostActionHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/no-show", Chain(s.MarkNoShowHandler(), paramsMiddleware))

	s.Router.Handle("POST /requests", Chain(s.CreateRequestHandler(), paramsMiddleware))
	s.Router.Handle("GET /requests", Chain(s.ListRequestsHandler(), paramsMiddleware))
	s.Router.Handle("GET /requests/{id}", Chain(s.GetRequestHandler(), paramsMiddleware))
	s.Router.Handle("POST /requests/{id}/interest", Chain(s.ToggleInterestHandler(), paramsMiddleware))
	s.Router.Handle("POST /requests/{id}/convert", Chain(s.ConvertRequestHandler(), paramsMiddleware))
	s.Router.Handle("POST /requests/expire", Chain(s.ExpireRequestsHandler(), paramsMiddleware))

	s.Router.Handle("GET /players/{id}", Chain(s.GetProfileHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /players/{id}", Chain(s.EditProfileHandler(), paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /badges", Chain(s.BadgeCatalogHandler(), paramsMiddleware))

	s.Router.Handle("POST /events/match-completed", Chain(s.MatchCompletedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
