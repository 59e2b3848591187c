package roster

import (
	"time"

	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/metrics"
	"github.com/kixfc/kix-server/internal/player"
	"github.com/kixfc/kix-server/internal/request"
)

// Coordinator drives every command against the match, request and player
// aggregates. It owns the read-validate-write retry loops and the event
// publishing that follows a successful commit.
type Coordinator struct {
	matches  match.Store
	requests request.Store
	players  player.Store
	events   events.Publisher
	metrics  metrics.Metrics
	now      func() time.Time
}

// New creates a new Coordinator.
func New(matches match.Store, requests request.Store, players player.Store, publisher events.Publisher, metrics metrics.Metrics) *Coordinator {
	return &Coordinator{
		matches:  matches,
		requests: requests,
		players:  players,
		events:   publisher,
		metrics:  metrics,
		now:      time.Now,
	}
}
