package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/player"
	"github.com/kixfc/kix-server/internal/progression"
	"github.com/kixfc/kix-server/internal/request"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// UsageStatsHandler returns the durable usage counters. Unlike /metrics these
// survive restarts.
func (s *Server) UsageStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Stats.GetAll()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// matchView decorates a match with the derived fields clients render.
type matchView struct {
	*match.Match
	SpotsLeft         int  `json:"spots_left"`
	IsFull            bool `json:"is_full"`
	CheckinWindowOpen bool `json:"checkin_window_open"`
}

func newMatchView(m *match.Match) matchView {
	return matchView{
		Match:             m,
		SpotsLeft:         m.SpotsLeft(),
		IsFull:            m.IsFull(),
		CheckinWindowOpen: m.CheckinWindowOpen(time.Now()),
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	type body struct {
		HostID string `json:"host_id"`
		match.CreateParams
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		if b.HostID == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "missing_host", Message: "host_id is required"})
			return
		}
		m, err := s.Coordinator.CreateMatch(r.Context(), b.HostID, b.CreateParams)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newMatchView(m))
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			matches []*match.Match
			err     error
		)
		if status := r.URL.Query().Get("status"); status != "" {
			matches, err = s.Coordinator.ListMatchesByStatus(r.Context(), match.Status(status))
		} else {
			matches, err = s.Coordinator.ListMatches(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}
		views := make([]matchView, 0, len(matches))
		for _, m := range matches {
			views = append(views, newMatchView(m))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Coordinator.GetMatch(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMatchView(m))
	}
}

func (s *Server) JoinHandler() http.HandlerFunc {
	type body struct {
		UserID string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		outcome, m, err := s.Coordinator.Join(r.Context(), r.PathValue("id"), b.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Outcome match.JoinOutcome `json:"outcome"`
			Match   matchView         `json:"match"`
		}{outcome, newMatchView(m)})
	}
}

func (s *Server) LeaveHandler() http.HandlerFunc {
	type body struct {
		UserID string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		outcome, m, err := s.Coordinator.Leave(r.Context(), r.PathValue("id"), b.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Outcome match.LeaveOutcome `json:"outcome"`
			Match   matchView          `json:"match"`
		}{outcome, newMatchView(m)})
	}
}

func (s *Server) CheckInHandler() http.HandlerFunc {
	type body struct {
		UserID string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		changed, m, err := s.Coordinator.CheckIn(r.Context(), r.PathValue("id"), b.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			CheckedIn bool      `json:"checked_in"`
			Changed   bool      `json:"changed"`
			Match     matchView `json:"match"`
		}{true, changed, newMatchView(m)})
	}
}

func (s *Server) HostActionHandler() http.HandlerFunc {
	type body struct {
		ActorID string           `json:"actor_id"`
		Action  match.HostAction `json:"action"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		m, err := s.Coordinator.HostAction(r.Context(), r.PathValue("id"), b.ActorID, b.Action)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMatchView(m))
	}
}

func (s *Server) MarkNoShowHandler() http.HandlerFunc {
	type body struct {
		ActorID string `json:"actor_id"`
		UserID  string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		m, err := s.Coordinator.MarkNoShow(r.Context(), r.PathValue("id"), b.ActorID, b.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMatchView(m))
	}
}

func (s *Server) CreateRequestHandler() http.HandlerFunc {
	type body struct {
		CreatorID string `json:"creator_id"`
		request.CreateParams
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		if b.CreatorID == "" {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "missing_creator", Message: "creator_id is required"})
			return
		}
		req, err := s.Coordinator.CreateRequest(r.Context(), b.CreatorID, b.CreateParams)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, req)
	}
}

func (s *Server) ListRequestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqs, err := s.Coordinator.ListRequests(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reqs)
	}
}

func (s *Server) GetRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.Coordinator.GetRequest(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	}
}

func (s *Server) ToggleInterestHandler() http.HandlerFunc {
	type body struct {
		UserID string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		added, req, err := s.Coordinator.ToggleInterest(r.Context(), r.PathValue("id"), b.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Interested bool             `json:"interested"`
			Request    *request.Request `json:"request"`
		}{added, req})
	}
}

func (s *Server) ConvertRequestHandler() http.HandlerFunc {
	type body struct {
		UserID string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		m, req, err := s.Coordinator.ConvertRequest(r.Context(), r.PathValue("id"), b.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Match   matchView        `json:"match"`
			Request *request.Request `json:"request"`
		}{newMatchView(m), req})
	}
}

func (s *Server) ExpireRequestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Skipping request expiry sweep")
			fmt.Fprintln(w, "Dry run: no requests expired.")
			return
		}
		expired, err := s.Coordinator.ExpireRequests(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Expired stale requests", "count", expired)
		s.Stats.Increment("expiry_sweeps")
		writeJSON(w, http.StatusOK, struct {
			Expired int64 `json:"expired"`
		}{expired})
	}
}

// profileView decorates a profile with every derived progression field.
type profileView struct {
	*player.Profile
	Level          int                         `json:"level"`
	XPForNextLevel int                         `json:"xp_for_next_level"`
	Progress       float64                     `json:"progress_to_next_level"`
	StatCap        int                         `json:"stat_cap"`
	Overall        int                         `json:"overall"`
	Tier           progression.ReliabilityTier `json:"reliability_tier"`
}

func newProfileView(p *player.Profile) profileView {
	level := p.Level()
	return profileView{
		Profile:        p,
		Level:          level,
		XPForNextLevel: progression.XPForNextLevel(level),
		Progress:       progression.ProgressToNextLevel(p.XP),
		StatCap:        progression.StatCap(level),
		Overall:        p.Overall(),
		Tier:           p.Tier(),
	}
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Coordinator.Profile(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newProfileView(p))
	}
}

func (s *Server) EditProfileHandler() http.HandlerFunc {
	type body struct {
		Name     string               `json:"name"`
		Position progression.Position `json:"position"`
		Stats    *progression.Stats   `json:"stats"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var b body
		if !decodeBody(w, r, &b) {
			return
		}
		p, err := s.Coordinator.EditProfile(r.Context(), r.PathValue("id"), b.Name, b.Position, b.Stats)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newProfileView(p))
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err == nil && parsed > 0 {
				limit = parsed
			} else {
				log.Warn("Invalid 'limit' parameter provided. Defaulting to 20.", "limit_param", raw)
			}
		}
		profiles, err := s.Coordinator.Leaderboard(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		views := make([]profileView, 0, len(profiles))
		for _, p := range profiles {
			views = append(views, newProfileView(p))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func (s *Server) BadgeCatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, progression.Catalog)
	}
}

// MatchCompletedHandler is the Pub/Sub push endpoint for completion events.
// It unwraps the push envelope and hands the payload to the updater.
func (s *Server) MatchCompletedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match completed message", "body", string(bodyBytes))

		var msg pushEnvelope
		if err := json.Unmarshal(bodyBytes, &msg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(msg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		payload := events.MatchCompleted{}
		if err := s.Events.Decode(rawData, &payload); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have applied progression", "matchID", payload.MatchID, "players", len(payload.Players))
			w.Write([]byte("OK"))
			return
		}
		if err := s.Updater.ApplyMatchCompletion(r.Context(), payload); err != nil {
			// Failed participants are logged for reconciliation. Ack anyway:
			// the match is already claimed, so a redelivery would award
			// nothing either way.
			log.Error("Progression finished with failures", "error", err, "matchID", payload.MatchID)
		}
		s.Stats.Increment("progression_runs")
		w.Write([]byte("OK"))
	}
}
