package roster

import (
	"context"

	"github.com/kixfc/kix-server/internal/player"
	"github.com/kixfc/kix-server/internal/progression"
)

// Profile returns the player's profile, creating a baseline one on first
// touch so new players always read back sensible defaults.
func (c *Coordinator) Profile(ctx context.Context, playerID string) (*player.Profile, error) {
	p, _, err := c.players.GetOrCreate(ctx, playerID)
	return p, err
}

// EditProfile updates the player-editable fields: display name, preferred
// position and attribute points, the latter clamped to the level's stat cap.
func (c *Coordinator) EditProfile(ctx context.Context, playerID, name string, position progression.Position, stats *progression.Stats) (*player.Profile, error) {
	var p *player.Profile
	err := c.retryCAS(func() error {
		var version int64
		var err error
		p, version, err = c.players.GetOrCreate(ctx, playerID)
		if err != nil {
			return err
		}
		if name != "" {
			p.Name = name
		}
		if position != "" {
			p.Position = position
		}
		if stats != nil {
			p.EditStats(*stats)
		}
		return c.players.Update(ctx, playerID, version, p)
	})
	if err != nil {
		return nil, err
	}
	c.metrics.IncRosterOp("edit_profile")
	return p, nil
}

// Leaderboard lists the top profiles by XP.
func (c *Coordinator) Leaderboard(ctx context.Context, limit int) ([]*player.Profile, error) {
	return c.players.Leaderboard(ctx, limit)
}
