package player

import (
	"github.com/kixfc/kix-server/internal/progression"
)

// Profile is the progression-relevant state of one player. Referenced by
// identity from match rosters; owns no back-references.
type Profile struct {
	ID               string                           `json:"id"`
	Name             string                           `json:"name"`
	Position         progression.Position             `json:"position"`
	XP               int                              `json:"xp"`
	Stats            progression.Stats                `json:"stats"`
	ReliabilityScore int                              `json:"reliability_score"`
	Badges           map[progression.BadgeID]int64    `json:"badges"` // badge id -> awarded at (unix)
	MatchesCompleted int                              `json:"matches_completed"`
	MatchesHosted    int                              `json:"matches_hosted"`
}

// NewProfile creates a fresh profile with baseline stats and full reliability.
func NewProfile(id, name string) *Profile {
	return &Profile{
		ID:               id,
		Name:             name,
		Position:         progression.Striker,
		Stats:            progression.Stats{Pace: 50, Shooting: 50, Passing: 50, Dribbling: 50, Physical: 50},
		ReliabilityScore: 100,
		Badges:           map[progression.BadgeID]int64{},
	}
}

// Level is the player's current level derived from XP.
func (p *Profile) Level() int {
	return progression.LevelForXP(p.XP)
}

// Overall is the player's OVR for their assigned position.
func (p *Profile) Overall() int {
	return progression.OverallRating(p.Stats, p.Position)
}

// Tier is the player's reliability tier label.
func (p *Profile) Tier() progression.ReliabilityTier {
	return progression.Tier(p.ReliabilityScore)
}

// EditStats replaces the player's attributes, silently clamping each to the
// level-derived cap. Edits are never rejected for exceeding the cap.
func (p *Profile) EditStats(stats progression.Stats) {
	p.Stats = progression.ClampStatsToCap(stats, p.Level())
}

// AwardBadges merges newly earned badges, never overwriting an existing
// award timestamp.
func (p *Profile) AwardBadges(ids []progression.BadgeID, now int64) {
	if p.Badges == nil {
		p.Badges = map[progression.BadgeID]int64{}
	}
	for _, id := range ids {
		if _, ok := p.Badges[id]; !ok {
			p.Badges[id] = now
		}
	}
}

// EarnedBadges is the badge set in the shape EvaluateBadges consumes.
func (p *Profile) EarnedBadges() map[progression.BadgeID]bool {
	earned := make(map[progression.BadgeID]bool, len(p.Badges))
	for id := range p.Badges {
		earned[id] = true
	}
	return earned
}
