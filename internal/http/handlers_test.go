package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kixfc/kix-server/internal/config"
	"github.com/kixfc/kix-server/internal/database"
	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/metrics"
	"github.com/kixfc/kix-server/internal/player"
	"github.com/kixfc/kix-server/internal/progression"
	"github.com/kixfc/kix-server/internal/request"
	"github.com/kixfc/kix-server/internal/roster"
	"github.com/kixfc/kix-server/internal/updater"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*Server, *events.MockPublisher) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	matchStore := match.NewStore(db)
	requestStore := request.NewStore(db)
	playerStore := player.NewStore(db)
	publisher := events.NewMock()

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)

	coordinator := roster.New(matchStore, requestStore, playerStore, publisher, metricsSvc)
	upd := updater.New(matchStore, playerStore, metricsSvc)

	server := NewServer(coordinator, upd, metricsSvc, metricsHandler, metrics.New(db), config.Config{}, publisher)
	return server, publisher
}

func doJSON(t *testing.T, server *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func createMatch(t *testing.T, server *Server, hostID string) matchView {
	t.Helper()
	rec := doJSON(t, server, "POST", "/matches", map[string]any{
		"host_id":      hostID,
		"title":        "Sunday kickabout",
		"location":     "Valbyparken",
		"format":       "5v5",
		"kickoff_time": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view matchView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestHealthCheckHandler(t *testing.T) {
	server, _ := setupTestServer(t)
	rec := doJSON(t, server, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestCreateAndGetMatch(t *testing.T) {
	server, publisher := setupTestServer(t)
	created := createMatch(t, server, "host")

	assert.Equal(t, 10, created.Capacity)
	assert.Equal(t, 9, created.SpotsLeft)
	assert.Equal(t, match.StatusOpen, created.Status)
	require.Len(t, publisher.Published(events.EventMatchCreated), 1)

	rec := doJSON(t, server, "GET", "/matches/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got matchView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.False(t, got.CheckinWindowOpen, "kickoff is 48h out")
}

func TestCreateMatchRejectsBadFormat(t *testing.T) {
	server, _ := setupTestServer(t)
	rec := doJSON(t, server, "POST", "/matches", map[string]any{
		"host_id":      "host",
		"format":       "3v3",
		"kickoff_time": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_format", body.Code)
}

func TestJoinAndLeaveFlow(t *testing.T) {
	server, _ := setupTestServer(t)
	m := createMatch(t, server, "host")

	rec := doJSON(t, server, "POST", "/matches/"+m.ID+"/join", map[string]string{"user_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var joined struct {
		Outcome match.JoinOutcome `json:"outcome"`
		Match   matchView         `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
	assert.Equal(t, match.OutcomeJoined, joined.Outcome)
	assert.Equal(t, 8, joined.Match.SpotsLeft)

	// Joining again reports placement without changing anything.
	rec = doJSON(t, server, "POST", "/matches/"+m.ID+"/join", map[string]string{"user_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
	assert.Equal(t, match.OutcomeAlreadyJoined, joined.Outcome)

	rec = doJSON(t, server, "POST", "/matches/"+m.ID+"/leave", map[string]string{"user_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var left struct {
		Outcome match.LeaveOutcome `json:"outcome"`
		Match   matchView          `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &left))
	assert.True(t, left.Outcome.Removed)
	assert.Equal(t, 9, left.Match.SpotsLeft)
}

func TestHostLeaveRejected(t *testing.T) {
	server, _ := setupTestServer(t)
	m := createMatch(t, server, "host")

	rec := doJSON(t, server, "POST", "/matches/"+m.ID+"/leave", map[string]string{"user_id": "host"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "host_cannot_leave", body.Code)
}

func TestLifecycleAndNoShow(t *testing.T) {
	server, publisher := setupTestServer(t)
	m := createMatch(t, server, "host")
	rec := doJSON(t, server, "POST", "/matches/"+m.ID+"/join", map[string]string{"user_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Non-host lifecycle command is refused.
	rec = doJSON(t, server, "POST", "/matches/"+m.ID+"/action", map[string]string{"actor_id": "p1", "action": "lock"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	for _, action := range []string{"lock", "start", "complete"} {
		rec = doJSON(t, server, "POST", "/matches/"+m.ID+"/action", map[string]string{"actor_id": "host", "action": action})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	require.Len(t, publisher.Published(events.EventMatchCompleted), 1)

	rec = doJSON(t, server, "POST", "/matches/"+m.ID+"/no-show", map[string]string{"actor_id": "host", "user_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var view matchView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Contains(t, view.NoShows, "p1")

	// The penalty landed on the profile.
	rec = doJSON(t, server, "GET", "/players/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile profileView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 85, profile.ReliabilityScore)
	assert.Equal(t, "Good", string(profile.Tier))
}

func TestGetMatchNotFound(t *testing.T) {
	server, _ := setupTestServer(t)
	rec := doJSON(t, server, "GET", "/matches/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestFlow(t *testing.T) {
	server, publisher := setupTestServer(t)

	createReq := func() *request.Request {
		rec := doJSON(t, server, "POST", "/requests", map[string]any{
			"creator_id":   "creator",
			"format":       "5v5",
			"location":     "Amager Fælled",
			"desired_time": time.Now().Add(12 * time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var r request.Request
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
		return &r
	}
	r := createReq()
	assert.Equal(t, request.StatusOpen, r.Status)

	// Interest from everyone needed to fill the roster minus the creator.
	for i := 0; i < 9; i++ {
		rec := doJSON(t, server, "POST", "/requests/"+r.ID+"/interest", map[string]string{
			"user_id": fmt.Sprintf("p%d", i),
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	// Only the creator may convert.
	rec := doJSON(t, server, "POST", "/requests/"+r.ID+"/convert", map[string]string{"user_id": "p0"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, server, "POST", "/requests/"+r.ID+"/convert", map[string]string{"user_id": "creator"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var converted struct {
		Match   matchView        `json:"match"`
		Request *request.Request `json:"request"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &converted))
	assert.Equal(t, "creator", converted.Match.HostID)
	assert.True(t, converted.Match.IsFull)
	assert.Equal(t, request.StatusConverted, converted.Request.Status)
	require.Len(t, publisher.Published(events.EventRequestConverted), 1)

	// A converted request refuses further interest.
	rec = doJSON(t, server, "POST", "/requests/"+r.ID+"/interest", map[string]string{"user_id": "latecomer"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRequestLimit(t *testing.T) {
	server, _ := setupTestServer(t)
	body := map[string]any{
		"creator_id":   "creator",
		"format":       "5v5",
		"desired_time": time.Now().Add(12 * time.Hour).Format(time.RFC3339),
	}
	for i := 0; i < request.MaxOpenPerCreator; i++ {
		rec := doJSON(t, server, "POST", "/requests", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := doJSON(t, server, "POST", "/requests", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errBody errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "too_many_open_requests", errBody.Code)
}

func TestEditProfileAndLeaderboard(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := doJSON(t, server, "PATCH", "/players/p1", map[string]any{
		"name":     "Alma",
		"position": "LW",
		"stats":    map[string]int{"pace": 80, "shooting": 55, "passing": 55, "dribbling": 55, "physical": 55},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile profileView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Alma", profile.Name)
	assert.Equal(t, 60, profile.Stats.Pace, "stats clamp to the level 0 cap")
	assert.Equal(t, 60, profile.StatCap)

	rec = doJSON(t, server, "GET", "/leaderboard?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var board []profileView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	require.Len(t, board, 1)
	assert.Equal(t, "p1", board[0].ID)
}

func TestMatchCompletedPushHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	m := createMatch(t, server, "host")
	rec := doJSON(t, server, "POST", "/matches/"+m.ID+"/join", map[string]string{"user_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, action := range []string{"lock", "start", "complete"} {
		rec = doJSON(t, server, "POST", "/matches/"+m.ID+"/action", map[string]string{"actor_id": "host", "action": action})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	payload, err := msgpack.Marshal(events.MatchCompleted{
		MatchID:     m.ID,
		HostID:      "host",
		Players:     []string{"host", "p1"},
		CheckedIn:   []string{"host", "p1"},
		CompletedAt: time.Now().Unix(),
	})
	require.NoError(t, err)

	envelope := map[string]any{
		"subscription": "projects/test/subscriptions/match-completed",
		"message": map[string]string{
			"data": base64.StdEncoding.EncodeToString(payload),
		},
	}
	rec = doJSON(t, server, "POST", "/events/match-completed", envelope)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, "GET", "/players/host", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile profileView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 85, profile.XP, "participation, host and check-in awards")
	assert.Equal(t, 1, profile.MatchesHosted)
	assert.Contains(t, profile.Badges, progression.BadgeFirstMatch)

	// Pub/Sub push is at-least-once. A redelivery finds the match already
	// claimed and awards nothing on top.
	rec = doJSON(t, server, "POST", "/events/match-completed", envelope)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/players/host", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 85, profile.XP, "a redelivery must not double-award")
	assert.Equal(t, 1, profile.MatchesCompleted)

	rec = doJSON(t, server, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats["progression_runs"])
}

func TestMatchCompletedPushDryRun(t *testing.T) {
	server, _ := setupTestServer(t)

	payload, err := msgpack.Marshal(events.MatchCompleted{
		MatchID: "m1",
		HostID:  "host",
		Players: []string{"host"},
	})
	require.NoError(t, err)
	envelope := map[string]any{
		"message": map[string]string{"data": base64.StdEncoding.EncodeToString(payload)},
	}
	rec := doJSON(t, server, "POST", "/events/match-completed?dry_run=true", envelope)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/players/host", nil)
	var profile profileView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 0, profile.XP, "a dry run must not award anything")
}

func TestMatchCompletedPushRejectsBadEnvelope(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest("POST", "/events/match-completed", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := map[string]any{"message": map[string]string{"data": "!!not-base64!!"}}
	rec = doJSON(t, server, "POST", "/events/match-completed", envelope)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
