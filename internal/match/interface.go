package match

import "context"

// Store persists match aggregates as versioned documents. Update is a
// compare-and-set: it fails with store.ErrVersionConflict unless the stored
// version still matches the one read, which is the sole concurrency
// discipline for roster mutations.
type Store interface {
	Create(ctx context.Context, m *Match) error
	Get(ctx context.Context, id string) (*Match, int64, error)
	Update(ctx context.Context, id string, version int64, m *Match) error
	List(ctx context.Context) ([]*Match, error)
	ListByStatus(ctx context.Context, status Status) ([]*Match, error)
}
