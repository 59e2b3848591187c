// Package store holds the sentinels and the retry discipline shared by every
// versioned aggregate store. All mutations in the system go through
// compare-and-set: read the aggregate with its version, validate, write back
// only if the stored version is unchanged, otherwise re-read and try again.
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no aggregate exists for the given id.
	ErrNotFound = errors.New("requested resource not found")

	// ErrVersionConflict is returned by a CAS write when the stored version
	// no longer matches the version read. Transient; callers retry.
	ErrVersionConflict = errors.New("version conflict on write")
)

// DefaultCASAttempts bounds the read-validate-write retry loop.
const DefaultCASAttempts = 5

// RetryCAS runs fn up to attempts times, retrying only on ErrVersionConflict.
// Any other error (including validation rejections) is returned immediately.
// When every attempt conflicts, the returned error wraps ErrVersionConflict so
// callers can surface a retryable failure.
func RetryCAS(attempts int, fn func() error) error {
	if attempts <= 0 {
		attempts = DefaultCASAttempts
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}
