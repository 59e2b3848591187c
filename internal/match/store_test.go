package match_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kixfc/kix-server/internal/database"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/store"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (match.Store, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return match.NewStore(db), db
}

func seedMatch(t *testing.T, s match.Store) *match.Match {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	m, err := match.New("host", match.CreateParams{
		Title:       "Tuesday 5-a-side",
		Location:    "Valby Idrætspark",
		Format:      match.Format5v5,
		KickoffTime: now.Add(48 * time.Hour),
	}, now)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), m))
	return m
}

func TestStore_CreateAndGet(t *testing.T) {
	s, _ := setupTestDB(t)
	ctx := context.Background()
	m := seedMatch(t, s)

	got, version, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, match.StatusOpen, got.Status)
	assert.Equal(t, []string{"host"}, got.JoinedPlayers)
	assert.Equal(t, m.KickoffTime.Unix(), got.KickoffTime.Unix())
	assert.Empty(t, got.Waitlist)
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := setupTestDB(t)
	_, _, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_UpdateBumpsVersion(t *testing.T) {
	s, _ := setupTestDB(t)
	ctx := context.Background()
	m := seedMatch(t, s)

	got, version, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	_, err = got.Join("p1")
	require.NoError(t, err)
	got.ProgressionApplied = true

	require.NoError(t, s.Update(ctx, m.ID, version, got))

	got2, version2, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, version+1, version2)
	assert.Equal(t, []string{"host", "p1"}, got2.JoinedPlayers)
	assert.True(t, got2.ProgressionApplied, "the progression marker persists")
}

func TestStore_UpdateConflicts(t *testing.T) {
	s, _ := setupTestDB(t)
	ctx := context.Background()
	m := seedMatch(t, s)

	got, version, err := s.Get(ctx, m.ID)
	require.NoError(t, err)

	// First writer wins.
	_, err = got.Join("p1")
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, m.ID, version, got))

	// Second writer holds the stale version and must conflict.
	stale := *got
	err = s.Update(ctx, m.ID, version, &stale)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	// An update to a missing match is a not-found, not a conflict.
	err = s.Update(ctx, "nope", 1, got)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// Two concurrent joiners race for the last roster spot: exactly one lands on
// the roster, the loser re-reads and goes to the waitlist.
func TestStore_LastSpotRace(t *testing.T) {
	s, _ := setupTestDB(t)
	ctx := context.Background()
	m := seedMatch(t, s)

	// Fill all but one spot.
	got, version, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		_, err := got.Join(string(rune('a' + i)))
		require.NoError(t, err)
	}
	require.NoError(t, s.Update(ctx, m.ID, version, got))
	require.Equal(t, 1, got.SpotsLeft())

	// Both joiners read the same snapshot.
	snapA, verA, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	snapB, verB, err := s.Get(ctx, m.ID)
	require.NoError(t, err)

	outA, err := snapA.Join("racerA")
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeJoined, outA)
	require.NoError(t, s.Update(ctx, m.ID, verA, snapA))

	outB, err := snapB.Join("racerB")
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeJoined, outB, "the stale snapshot also thinks there is room")
	err = s.Update(ctx, m.ID, verB, snapB)
	assert.ErrorIs(t, err, store.ErrVersionConflict, "the second writer must not overwrite the first")

	// The loser retries against fresh state and lands on the waitlist.
	fresh, verFresh, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	outB, err = fresh.Join("racerB")
	require.NoError(t, err)
	assert.Equal(t, match.OutcomeWaitlisted, outB)
	require.NoError(t, s.Update(ctx, m.ID, verFresh, fresh))

	final, _, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, final.JoinedPlayers, final.Capacity)
	assert.Equal(t, []string{"racerB"}, final.Waitlist)
}

func TestStore_List(t *testing.T) {
	s, _ := setupTestDB(t)
	ctx := context.Background()
	m1 := seedMatch(t, s)
	m2 := seedMatch(t, s)

	got, version, err := s.Get(ctx, m2.ID)
	require.NoError(t, err)
	require.NoError(t, got.ApplyHostAction("host", match.ActionCancel))
	require.NoError(t, s.Update(ctx, m2.ID, version, got))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := s.ListByStatus(ctx, match.StatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, m1.ID, open[0].ID)
}
