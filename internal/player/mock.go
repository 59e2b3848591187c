package player

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetFunc         func(ctx context.Context, id string) (*Profile, int64, error)
	GetOrCreateFunc func(ctx context.Context, id string) (*Profile, int64, error)
	UpdateFunc      func(ctx context.Context, id string, version int64, p *Profile) error
	LeaderboardFunc func(ctx context.Context, limit int) ([]*Profile, error)

	// Call records
	GetCalls         []string
	GetOrCreateCalls []string
	UpdateCalls      []UpdateCall
}

// UpdateCall holds the arguments for a call to Update.
type UpdateCall struct {
	ID      string
	Version int64
	Profile *Profile
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = nil
	m.GetOrCreateCalls = nil
	m.UpdateCalls = nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*Profile, int64, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, id)
	fn := m.GetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil, 0, nil
}

func (m *MockStore) GetOrCreate(ctx context.Context, id string) (*Profile, int64, error) {
	m.mu.Lock()
	m.GetOrCreateCalls = append(m.GetOrCreateCalls, id)
	fn := m.GetOrCreateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return NewProfile(id, ""), 1, nil
}

func (m *MockStore) Update(ctx context.Context, id string, version int64, p *Profile) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{ID: id, Version: version, Profile: p})
	fn := m.UpdateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, version, p)
	}
	return nil
}

func (m *MockStore) Leaderboard(ctx context.Context, limit int) ([]*Profile, error) {
	m.mu.Lock()
	fn := m.LeaderboardFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, limit)
	}
	return nil, nil
}
