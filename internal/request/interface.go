package request

import (
	"context"
	"time"
)

// Store persists match requests as versioned documents with the same
// compare-and-set discipline as the match store.
type Store interface {
	Create(ctx context.Context, r *Request) error
	Get(ctx context.Context, id string) (*Request, int64, error)
	Update(ctx context.Context, id string, version int64, r *Request) error
	List(ctx context.Context) ([]*Request, error)
	// CountOpenForCreator counts the creator's open, non-expired requests.
	CountOpenForCreator(ctx context.Context, creatorID string, now time.Time) (int, error)
	// ExpireDue flips stored status on requests whose lifetime has passed.
	// Purely cosmetic for listings; reads are correct without it ever running.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
