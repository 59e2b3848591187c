package player

import "context"

// Store persists player profiles as versioned documents. Profile mutations
// use the same compare-and-set discipline as the aggregates; each player's
// profile is its own consistency boundary, so updates for different players
// never contend.
type Store interface {
	Get(ctx context.Context, id string) (*Profile, int64, error)
	// GetOrCreate returns the profile, creating a baseline one on first touch.
	GetOrCreate(ctx context.Context, id string) (*Profile, int64, error)
	Update(ctx context.Context, id string, version int64, p *Profile) error
	// Leaderboard lists profiles ordered by XP, highest first.
	Leaderboard(ctx context.Context, limit int) ([]*Profile, error)
}
