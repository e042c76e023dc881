package redsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis"
	"github.com/pwnedgod/codecable/adapter"
	"github.com/pwnedgod/codecable/adapter/util/mutex"
)

type redsyncLocker struct {
	rs      *redsync.Redsync
	lockTtl time.Duration
}

// NewLocker returns a locker backed by redsync over pools. Locks expire after
// lockTtl unless released earlier.
func NewLocker(lockTtl time.Duration, pools ...redis.Pool) mutex.Locker {
	return &redsyncLocker{
		rs:      redsync.New(pools...),
		lockTtl: lockTtl,
	}
}

func (lr redsyncLocker) Obtain(ctx context.Context, key string) (mutex.Lock, error) {
	m := lr.rs.NewMutex(key,
		redsync.WithExpiry(lr.lockTtl),
		redsync.WithTries(32),
	)

	if err := m.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", adapter.ErrFailedLock, err)
	}

	return &redsyncLock{mutex: m}, nil
}

type redsyncLock struct {
	mutex    *redsync.Mutex
	released bool
}

// Release treats a lock that already expired as released.
func (l *redsyncLock) Release(ctx context.Context) error {
	if l.released {
		return adapter.ErrFailedUnlock
	}
	l.released = true

	ok, err := l.mutex.UnlockContext(ctx)
	switch {
	case errors.Is(err, redsync.ErrLockAlreadyExpired):
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", adapter.ErrFailedUnlock, err)
	case !ok:
		return adapter.ErrFailedUnlock
	}
	return nil
}
