// Package updater applies post-match progression to player profiles. It
// consumes match completion events and awards XP, counters, reliability and
// badges to every participant. Each player's profile is its own consistency
// boundary, so participants are updated in parallel and one player's failure
// never blocks the rest.
package updater

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/metrics"
	"github.com/kixfc/kix-server/internal/player"
	"github.com/kixfc/kix-server/internal/progression"
	"github.com/kixfc/kix-server/internal/store"
)

// Updater applies completion payloads to player profiles.
type Updater struct {
	matches match.Store
	players player.Store
	metrics metrics.Metrics
}

// New creates a new Updater.
func New(matches match.Store, players player.Store, metrics metrics.Metrics) *Updater {
	return &Updater{
		matches: matches,
		players: players,
		metrics: metrics,
	}
}

// ApplyMatchCompletion grants every participant their awards for the
// completed match. The match is claimed first, so delivering the same
// completion twice awards nothing the second time. Participants are
// processed concurrently; a participant whose update keeps failing is logged
// for reconciliation and skipped, the siblings still land. The returned
// error is the first per-player failure, for visibility only.
func (u *Updater) ApplyMatchCompletion(ctx context.Context, payload events.MatchCompleted) error {
	start := time.Now()
	defer func() {
		u.metrics.ObserveProgressionDuration(time.Since(start).Seconds())
	}()

	claimed, err := u.claimCompletion(ctx, payload.MatchID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Info("Progression already applied, skipping", "matchID", payload.MatchID)
		return nil
	}

	noShows := make(map[string]bool, len(payload.NoShows))
	for _, id := range payload.NoShows {
		noShows[id] = true
	}
	checkedIn := make(map[string]bool, len(payload.CheckedIn))
	for _, id := range payload.CheckedIn {
		checkedIn[id] = true
	}

	// A plain group, not WithContext: one player's failure must not cancel
	// the siblings' writes.
	var g errgroup.Group
	for _, id := range payload.Players {
		if noShows[id] {
			// No-shows earn nothing; their penalty was applied when the
			// host flagged them.
			continue
		}
		playerID := id
		g.Go(func() error {
			err := u.applyToPlayer(ctx, playerID, payload, checkedIn[playerID])
			if err != nil {
				u.metrics.IncProgressionFailed()
				log.Error("Failed to apply progression, needs reconciliation",
					"error", err, "matchID", payload.MatchID, "playerID", playerID)
			}
			return err
		})
	}
	return g.Wait()
}

// claimCompletion flips the match's progression marker with compare-and-set.
// Exactly one delivery wins the flip; the rest see the marker and skip. The
// flip lands before any award, so a crash mid-run loses awards rather than
// doubling them.
func (u *Updater) claimCompletion(ctx context.Context, matchID string) (bool, error) {
	var claimed bool
	err := store.RetryCAS(store.DefaultCASAttempts, func() error {
		m, version, err := u.matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if m.ProgressionApplied {
			return nil
		}
		m.ProgressionApplied = true
		if err := u.matches.Update(ctx, matchID, version, m); err != nil {
			return err
		}
		claimed = true
		return nil
	})
	return claimed, err
}

func (u *Updater) applyToPlayer(ctx context.Context, playerID string, payload events.MatchCompleted, checkedIn bool) error {
	return store.RetryCAS(store.DefaultCASAttempts, func() error {
		p, version, err := u.players.GetOrCreate(ctx, playerID)
		if err != nil {
			return err
		}

		p.XP += progression.XPPerMatch
		if checkedIn {
			p.XP += progression.XPCheckInBonus
		}
		p.MatchesCompleted++
		if playerID == payload.HostID {
			p.XP += progression.XPHostBonus
			p.MatchesHosted++
		}
		p.ReliabilityScore = progression.ApplyReliability(
			p.ReliabilityScore, progression.ReliabilityDelta(progression.EventMatchCompleted))

		newly := progression.EvaluateBadges(p.EarnedBadges(), progression.BadgeInput{
			MatchesCompleted: p.MatchesCompleted,
			MatchesHosted:    p.MatchesHosted,
			ReliabilityScore: p.ReliabilityScore,
		})
		p.AwardBadges(newly, payload.CompletedAt)

		// A stored stat above the level's cap gets pulled back down here.
		p.Stats = progression.ClampStatsToCap(p.Stats, p.Level())

		return u.players.Update(ctx, playerID, version, p)
	})
}
