package request

import (
	"context"
	"sync"
	"time"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc              func(ctx context.Context, r *Request) error
	GetFunc                 func(ctx context.Context, id string) (*Request, int64, error)
	UpdateFunc              func(ctx context.Context, id string, version int64, r *Request) error
	ListFunc                func(ctx context.Context) ([]*Request, error)
	CountOpenForCreatorFunc func(ctx context.Context, creatorID string, now time.Time) (int, error)
	ExpireDueFunc           func(ctx context.Context, now time.Time) (int64, error)

	// Call records
	CreateCalls []*Request
	GetCalls    []string
	UpdateCalls []UpdateCall
}

// UpdateCall holds the arguments for a call to Update.
type UpdateCall struct {
	ID      string
	Version int64
	Request *Request
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(ctx context.Context, r *Request) error {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, r)
	fn := m.CreateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, r)
	}
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*Request, int64, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, id)
	fn := m.GetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil, 0, nil
}

func (m *MockStore) Update(ctx context.Context, id string, version int64, r *Request) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{ID: id, Version: version, Request: r})
	fn := m.UpdateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, version, r)
	}
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]*Request, error) {
	m.mu.Lock()
	fn := m.ListFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockStore) CountOpenForCreator(ctx context.Context, creatorID string, now time.Time) (int, error) {
	m.mu.Lock()
	fn := m.CountOpenForCreatorFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, creatorID, now)
	}
	return 0, nil
}

func (m *MockStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	fn := m.ExpireDueFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, now)
	}
	return 0, nil
}
