package match

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc       func(ctx context.Context, m *Match) error
	GetFunc          func(ctx context.Context, id string) (*Match, int64, error)
	UpdateFunc       func(ctx context.Context, id string, version int64, m *Match) error
	ListFunc         func(ctx context.Context) ([]*Match, error)
	ListByStatusFunc func(ctx context.Context, status Status) ([]*Match, error)

	// Call records
	CreateCalls []*Match
	GetCalls    []string
	UpdateCalls []UpdateCall
}

// UpdateCall holds the arguments for a call to Update.
type UpdateCall struct {
	ID      string
	Version int64
	Match   *Match
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = nil
	m.GetCalls = nil
	m.UpdateCalls = nil
}

func (m *MockStore) Create(ctx context.Context, mt *Match) error {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, mt)
	fn := m.CreateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, mt)
	}
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*Match, int64, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, id)
	fn := m.GetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil, 0, nil
}

func (m *MockStore) Update(ctx context.Context, id string, version int64, mt *Match) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{ID: id, Version: version, Match: mt})
	fn := m.UpdateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, version, mt)
	}
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]*Match, error) {
	m.mu.Lock()
	fn := m.ListFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockStore) ListByStatus(ctx context.Context, status Status) ([]*Match, error) {
	m.mu.Lock()
	fn := m.ListByStatusFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, status)
	}
	return nil, nil
}
