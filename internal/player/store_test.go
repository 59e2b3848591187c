package player_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kixfc/kix-server/internal/database"
	"github.com/kixfc/kix-server/internal/player"
	"github.com/kixfc/kix-server/internal/progression"
	"github.com/kixfc/kix-server/internal/store"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) player.Store {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return player.NewStore(db)
}

func TestStore_GetOrCreate(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	p, version, err := s.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, "alice", p.ID)
	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 100, p.ReliabilityScore)
	assert.Equal(t, 50, p.Stats.Pace)

	// A second call returns the stored profile, not a fresh one.
	p.XP = 250
	p.Name = "Alice"
	require.NoError(t, s.Update(ctx, "alice", version, p))

	again, version2, err := s.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version2)
	assert.Equal(t, 250, again.XP)
	assert.Equal(t, "Alice", again.Name)
}

func TestStore_GetMissing(t *testing.T) {
	s := setupTestDB(t)
	_, _, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_UpdateRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	p, version, err := s.GetOrCreate(ctx, "bob")
	require.NoError(t, err)

	p.Position = progression.Striker
	p.XP = 400
	p.MatchesCompleted = 7
	p.MatchesHosted = 2
	p.Stats.Shooting = 64
	p.AwardBadges([]progression.BadgeID{progression.BadgeFirstMatch}, 1700000000)
	require.NoError(t, s.Update(ctx, "bob", version, p))

	got, version2, err := s.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, version+1, version2)
	assert.Equal(t, progression.Striker, got.Position)
	assert.Equal(t, 400, got.XP)
	assert.Equal(t, 7, got.MatchesCompleted)
	assert.Equal(t, 64, got.Stats.Shooting)
	assert.Equal(t, int64(1700000000), got.Badges[progression.BadgeFirstMatch])
}

func TestStore_UpdateConflicts(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	p, version, err := s.GetOrCreate(ctx, "carol")
	require.NoError(t, err)

	p.XP += 50
	require.NoError(t, s.Update(ctx, "carol", version, p))

	stale := *p
	err = s.Update(ctx, "carol", version, &stale)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	err = s.Update(ctx, "nope", 1, p)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Leaderboard(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for _, seed := range []struct {
		id string
		xp int
	}{
		{"low", 100},
		{"top", 900},
		{"mid", 400},
	} {
		p, version, err := s.GetOrCreate(ctx, seed.id)
		require.NoError(t, err)
		p.XP = seed.xp
		require.NoError(t, s.Update(ctx, seed.id, version, p))
	}

	board, err := s.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "top", board[0].ID)
	assert.Equal(t, "mid", board[1].ID)
}
