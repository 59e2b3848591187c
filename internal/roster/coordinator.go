// Package roster coordinates commands across the match, request and player
// stores. Every mutation follows the same shape: read the aggregate with its
// version, validate and mutate in memory, write back with compare-and-set,
// retry from the read on conflict. Events are published only after the write
// lands; a lost write never announces itself.
package roster

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/progression"
	"github.com/kixfc/kix-server/internal/store"
)

// CreateMatch creates an open match hosted by hostID and ensures the host has
// a profile.
func (c *Coordinator) CreateMatch(ctx context.Context, hostID string, p match.CreateParams) (*match.Match, error) {
	m, err := match.New(hostID, p, c.now())
	if err != nil {
		return nil, err
	}
	if err := c.matches.Create(ctx, m); err != nil {
		return nil, err
	}
	if _, _, err := c.players.GetOrCreate(ctx, hostID); err != nil {
		log.Error("Failed to ensure host profile", "error", err, "hostID", hostID)
	}
	c.metrics.IncRosterOp("create_match")
	c.publish(events.EventMatchCreated, events.RosterChanged{
		MatchID:   m.ID,
		PlayerID:  hostID,
		SpotsLeft: m.SpotsLeft(),
		Waitlist:  len(m.Waitlist),
	})
	return m, nil
}

// GetMatch returns the match by id.
func (c *Coordinator) GetMatch(ctx context.Context, id string) (*match.Match, error) {
	m, _, err := c.matches.Get(ctx, id)
	return m, err
}

// ListMatches returns every match.
func (c *Coordinator) ListMatches(ctx context.Context) ([]*match.Match, error) {
	return c.matches.List(ctx)
}

// ListMatchesByStatus returns matches in the given lifecycle state.
func (c *Coordinator) ListMatchesByStatus(ctx context.Context, status match.Status) ([]*match.Match, error) {
	return c.matches.ListByStatus(ctx, status)
}

// Join adds the user to the match roster, or its waitlist when full. A user
// already on either list gets their current placement back without a write.
func (c *Coordinator) Join(ctx context.Context, matchID, userID string) (match.JoinOutcome, *match.Match, error) {
	var outcome match.JoinOutcome
	var m *match.Match
	err := c.retryCAS(func() error {
		var version int64
		var err error
		m, version, err = c.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		outcome, err = m.Join(userID)
		if err != nil {
			return err
		}
		if !outcome.Changed() {
			return nil
		}
		return c.matches.Update(ctx, matchID, version, m)
	})
	if err != nil {
		return "", nil, err
	}
	if outcome.Changed() {
		if _, _, err := c.players.GetOrCreate(ctx, userID); err != nil {
			log.Error("Failed to ensure player profile", "error", err, "userID", userID)
		}
		c.metrics.IncRosterOp("join")
		c.publish(events.EventMatchJoined, events.RosterChanged{
			MatchID:   m.ID,
			PlayerID:  userID,
			SpotsLeft: m.SpotsLeft(),
			Waitlist:  len(m.Waitlist),
		})
	}
	return outcome, m, nil
}

// Leave removes the user from the roster or waitlist, promoting the head of
// the waitlist into a freed roster slot.
func (c *Coordinator) Leave(ctx context.Context, matchID, userID string) (match.LeaveOutcome, *match.Match, error) {
	var outcome match.LeaveOutcome
	var m *match.Match
	err := c.retryCAS(func() error {
		var version int64
		var err error
		m, version, err = c.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		outcome, err = m.Leave(userID)
		if err != nil {
			return err
		}
		if !outcome.Removed {
			return nil
		}
		return c.matches.Update(ctx, matchID, version, m)
	})
	if err != nil {
		return match.LeaveOutcome{}, nil, err
	}
	if outcome.Removed {
		c.metrics.IncRosterOp("leave")
		c.publish(events.EventMatchLeft, events.RosterChanged{
			MatchID:   m.ID,
			PlayerID:  userID,
			SpotsLeft: m.SpotsLeft(),
			Waitlist:  len(m.Waitlist),
		})
	}
	return outcome, m, nil
}

// CheckIn records attendance inside the check-in window. The returned bool is
// false when the player had already checked in.
func (c *Coordinator) CheckIn(ctx context.Context, matchID, userID string) (bool, *match.Match, error) {
	var changed bool
	var m *match.Match
	err := c.retryCAS(func() error {
		var version int64
		var err error
		m, version, err = c.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		changed, err = m.CheckIn(userID, c.now())
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return c.matches.Update(ctx, matchID, version, m)
	})
	if err != nil {
		return false, nil, err
	}
	if changed {
		c.metrics.IncRosterOp("check_in")
	}
	return changed, m, nil
}

// HostAction runs a host-only lifecycle transition. Completing a match
// publishes the completion event the updater consumes; canceling close to
// kickoff costs the host reliability.
func (c *Coordinator) HostAction(ctx context.Context, matchID, actorID string, action match.HostAction) (*match.Match, error) {
	var m *match.Match
	err := c.retryCAS(func() error {
		var version int64
		var err error
		m, version, err = c.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if err := m.ApplyHostAction(actorID, action); err != nil {
			return err
		}
		return c.matches.Update(ctx, matchID, version, m)
	})
	if err != nil {
		return nil, err
	}
	c.metrics.IncRosterOp(string(action))

	switch action {
	case match.ActionComplete:
		c.metrics.IncMatchesCompleted()
		c.publish(events.EventMatchCompleted, events.MatchCompleted{
			MatchID:     m.ID,
			HostID:      m.HostID,
			Players:     m.JoinedPlayers,
			CheckedIn:   m.CheckedIn,
			NoShows:     m.NoShows,
			CompletedAt: c.now().Unix(),
		})
	case match.ActionCancel:
		if m.IsLateCancel(c.now()) {
			c.adjustReliability(ctx, m.HostID, progression.EventLateCancel)
		}
		c.publish(events.EventMatchCanceled, events.RosterChanged{
			MatchID:  m.ID,
			PlayerID: actorID,
		})
	}
	return m, nil
}

// MarkNoShow flags a participant absent on a completed match and applies the
// reliability penalty in the same operation.
func (c *Coordinator) MarkNoShow(ctx context.Context, matchID, actorID, userID string) (*match.Match, error) {
	var m *match.Match
	err := c.retryCAS(func() error {
		var version int64
		var err error
		m, version, err = c.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if err := m.MarkNoShow(actorID, userID); err != nil {
			return err
		}
		return c.matches.Update(ctx, matchID, version, m)
	})
	if err != nil {
		return nil, err
	}
	c.adjustReliability(ctx, userID, progression.EventNoShow)
	c.metrics.IncRosterOp("mark_no_show")
	c.publish(events.EventNoShowMarked, events.RosterChanged{
		MatchID:  m.ID,
		PlayerID: userID,
	})
	return m, nil
}

// adjustReliability applies a named attendance event to a player's score.
// Failures are logged, never propagated: the triggering command has already
// committed.
func (c *Coordinator) adjustReliability(ctx context.Context, playerID string, event progression.ReliabilityEvent) {
	err := c.retryCAS(func() error {
		p, version, err := c.players.GetOrCreate(ctx, playerID)
		if err != nil {
			return err
		}
		p.ReliabilityScore = progression.ApplyReliability(p.ReliabilityScore, progression.ReliabilityDelta(event))
		return c.players.Update(ctx, playerID, version, p)
	})
	if err != nil {
		log.Error("Failed to adjust reliability", "error", err, "playerID", playerID, "event", event)
	}
}

// retryCAS wraps store.RetryCAS with conflict accounting.
func (c *Coordinator) retryCAS(fn func() error) error {
	first := true
	return store.RetryCAS(store.DefaultCASAttempts, func() error {
		if !first {
			c.metrics.IncVersionConflicts()
		}
		first = false
		return fn()
	})
}

func (c *Coordinator) publish(topic events.EventType, data any) {
	if err := c.events.Publish(topic, data); err != nil {
		c.metrics.IncEventsFailed()
		log.Error("Failed to publish event", "error", err, "topic", topic)
		return
	}
	c.metrics.IncEventsPublished()
}
