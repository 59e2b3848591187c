package updater

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kixfc/kix-server/internal/events"
	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/metrics"
	"github.com/kixfc/kix-server/internal/player"
	"github.com/kixfc/kix-server/internal/progression"
	"github.com/kixfc/kix-server/internal/store"
)

// profileBank backs the mock store with an in-memory versioned profile map.
type profileBank struct {
	mu       sync.Mutex
	profiles map[string]*player.Profile
	versions map[string]int64
}

func newBank() *profileBank {
	return &profileBank{
		profiles: map[string]*player.Profile{},
		versions: map[string]int64{},
	}
}

func (b *profileBank) wire(m *player.MockStore) {
	m.GetOrCreateFunc = func(ctx context.Context, id string) (*player.Profile, int64, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.profiles[id]; !ok {
			b.profiles[id] = player.NewProfile(id, "")
			b.versions[id] = 1
		}
		cp := *b.profiles[id]
		return &cp, b.versions[id], nil
	}
	m.UpdateFunc = func(ctx context.Context, id string, version int64, p *player.Profile) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.versions[id] != version {
			return store.ErrVersionConflict
		}
		cp := *p
		b.profiles[id] = &cp
		b.versions[id]++
		return nil
	}
}

func (b *profileBank) get(id string) *player.Profile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profiles[id]
}

// completedMatches backs the match mock with versioned completed matches, so
// the completion claim behaves like it does against the real store.
func completedMatches(ids ...string) *match.MockStore {
	var mu sync.Mutex
	rows := map[string]*match.Match{}
	versions := map[string]int64{}
	for _, id := range ids {
		rows[id] = &match.Match{ID: id, Status: match.StatusCompleted}
		versions[id] = 1
	}

	m := match.NewMock()
	m.GetFunc = func(ctx context.Context, id string) (*match.Match, int64, error) {
		mu.Lock()
		defer mu.Unlock()
		row, ok := rows[id]
		if !ok {
			return nil, 0, store.ErrNotFound
		}
		cp := *row
		return &cp, versions[id], nil
	}
	m.UpdateFunc = func(ctx context.Context, id string, version int64, row *match.Match) error {
		mu.Lock()
		defer mu.Unlock()
		if versions[id] != version {
			return store.ErrVersionConflict
		}
		cp := *row
		rows[id] = &cp
		versions[id]++
		return nil
	}
	return m
}

func TestUpdater_AppliesAwards(t *testing.T) {
	bank := newBank()
	players := player.NewMock()
	bank.wire(players)
	u := New(completedMatches("m1"), players, metrics.NewMock())

	err := u.ApplyMatchCompletion(context.Background(), events.MatchCompleted{
		MatchID:     "m1",
		HostID:      "host",
		Players:     []string{"host", "p1", "p2"},
		CheckedIn:   []string{"host", "p1"},
		CompletedAt: 1750000000,
	})
	require.NoError(t, err)

	// Host: participation + host bonus + check-in bonus.
	host := bank.get("host")
	assert.Equal(t, 85, host.XP)
	assert.Equal(t, 1, host.MatchesCompleted)
	assert.Equal(t, 1, host.MatchesHosted)

	// Checked-in player: participation + check-in bonus.
	p1 := bank.get("p1")
	assert.Equal(t, 60, p1.XP)
	assert.Equal(t, 1, p1.MatchesCompleted)
	assert.Equal(t, 0, p1.MatchesHosted)

	// Rostered but not checked in: participation only.
	p2 := bank.get("p2")
	assert.Equal(t, 50, p2.XP)

	// Everyone finished a match, so everyone holds the first-match badge.
	for _, id := range []string{"host", "p1", "p2"} {
		p := bank.get(id)
		assert.Contains(t, p.Badges, progression.BadgeFirstMatch, id)
		assert.Equal(t, int64(1750000000), p.Badges[progression.BadgeFirstMatch], id)
		assert.Equal(t, 100, p.ReliabilityScore, "completion keeps a full score clamped at 100")
	}
}

func TestUpdater_SkipsNoShows(t *testing.T) {
	bank := newBank()
	players := player.NewMock()
	bank.wire(players)
	u := New(completedMatches("m1"), players, metrics.NewMock())

	err := u.ApplyMatchCompletion(context.Background(), events.MatchCompleted{
		MatchID: "m1",
		HostID:  "host",
		Players: []string{"host", "ghost"},
		NoShows: []string{"ghost"},
	})
	require.NoError(t, err)

	assert.Nil(t, bank.get("ghost"), "a no-show earns nothing from completion")
	assert.Equal(t, 75, bank.get("host").XP)
}

func TestUpdater_HostBadgeAfterThreeHosted(t *testing.T) {
	bank := newBank()
	players := player.NewMock()
	bank.wire(players)
	u := New(completedMatches("m1", "m2", "m3"), players, metrics.NewMock())

	for _, id := range []string{"m1", "m2", "m3"} {
		err := u.ApplyMatchCompletion(context.Background(), events.MatchCompleted{
			MatchID: id,
			HostID:  "host",
			Players: []string{"host"},
		})
		require.NoError(t, err)
	}

	host := bank.get("host")
	assert.Equal(t, 3, host.MatchesHosted)
	assert.Contains(t, host.Badges, progression.BadgeProHost)
}

func TestUpdater_OneFailureDoesNotBlockSiblings(t *testing.T) {
	bank := newBank()
	players := player.NewMock()
	bank.wire(players)
	boom := errors.New("profile row poisoned")
	inner := players.GetOrCreateFunc
	players.GetOrCreateFunc = func(ctx context.Context, id string) (*player.Profile, int64, error) {
		if id == "bad" {
			return nil, 0, boom
		}
		return inner(ctx, id)
	}
	metr := metrics.NewMock()
	u := New(completedMatches("m1"), players, metr)

	err := u.ApplyMatchCompletion(context.Background(), events.MatchCompleted{
		MatchID: "m1",
		HostID:  "host",
		Players: []string{"host", "bad", "p2"},
	})
	assert.ErrorIs(t, err, boom, "the failure is surfaced")
	assert.Equal(t, 1, metr.ProgressionFailed())

	// The siblings still got their awards.
	assert.Equal(t, 75, bank.get("host").XP)
	assert.Equal(t, 50, bank.get("p2").XP)
}

func TestUpdater_RetriesConflicts(t *testing.T) {
	bank := newBank()
	players := player.NewMock()
	bank.wire(players)
	conflicts := 2
	inner := players.UpdateFunc
	players.UpdateFunc = func(ctx context.Context, id string, version int64, p *player.Profile) error {
		if conflicts > 0 {
			conflicts--
			return store.ErrVersionConflict
		}
		return inner(ctx, id, version, p)
	}
	u := New(completedMatches("m1"), players, metrics.NewMock())

	err := u.ApplyMatchCompletion(context.Background(), events.MatchCompleted{
		MatchID: "m1",
		HostID:  "host",
		Players: []string{"host"},
	})
	require.NoError(t, err)
	assert.Equal(t, 75, bank.get("host").XP)
}

func TestUpdater_SecondDeliveryAwardsNothing(t *testing.T) {
	bank := newBank()
	players := player.NewMock()
	bank.wire(players)
	u := New(completedMatches("m1"), players, metrics.NewMock())

	payload := events.MatchCompleted{
		MatchID: "m1",
		HostID:  "host",
		Players: []string{"host", "p1"},
	}
	require.NoError(t, u.ApplyMatchCompletion(context.Background(), payload))
	require.NoError(t, u.ApplyMatchCompletion(context.Background(), payload))

	assert.Equal(t, 75, bank.get("host").XP, "a redelivered completion awards nothing")
	assert.Equal(t, 1, bank.get("host").MatchesCompleted)
	assert.Equal(t, 50, bank.get("p1").XP)
	assert.Equal(t, 1, bank.get("p1").MatchesCompleted)
}

func TestUpdater_UnknownMatch(t *testing.T) {
	bank := newBank()
	players := player.NewMock()
	bank.wire(players)
	u := New(completedMatches(), players, metrics.NewMock())

	err := u.ApplyMatchCompletion(context.Background(), events.MatchCompleted{
		MatchID: "nope",
		HostID:  "host",
		Players: []string{"host"},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, bank.get("host"), "no award without a claimable match")
}
