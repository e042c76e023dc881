package adapter

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("codecable: not found")
	ErrFailedLock   = errors.New("codecable: failed lock")
	ErrFailedUnlock = errors.New("codecable: failed unlock")
)

// Adapter stores encoded documents under string keys.
type Adapter interface {
	Exists(ctx context.Context, key string) (bool, error)

	// Returns ErrNotFound if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// A ttl of zero keeps the document until it is deleted.
	Set(ctx context.Context, key string, ttl time.Duration, data []byte) error
	Delete(ctx context.Context, key string) error

	// Blocks until the lock of key is held or ctx is done. Failures wrap
	// ErrFailedLock.
	ObtainLock(ctx context.Context, key string) (Lock, error)
}

// Lock is a held lock. Releasing twice, or after the lock was lost, returns
// ErrFailedUnlock.
type Lock interface {
	Release(ctx context.Context) error
}
