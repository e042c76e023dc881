package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/pwnedgod/codecable/adapter"
	"github.com/pwnedgod/codecable/adapter/util/mutex"
)

type redislockLocker struct {
	lc      *redislock.Client
	lockTtl time.Duration
}

func NewLocker(client redislock.RedisClient, lockTtl time.Duration) mutex.Locker {
	return &redislockLocker{
		lc:      redislock.New(client),
		lockTtl: lockTtl,
	}
}

func (lr redislockLocker) Obtain(ctx context.Context, key string) (mutex.Lock, error) {
	lock, err := lr.lc.Obtain(ctx, key, lr.lockTtl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.ExponentialBackoff(16*time.Millisecond, 4096*time.Millisecond), 32),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", adapter.ErrFailedLock, err)
	}
	return &redislockLock{lock: lock}, nil
}

type redislockLock struct {
	lock     *redislock.Lock
	released bool
}

// Release treats a lock that already expired as released.
func (l *redislockLock) Release(ctx context.Context) error {
	if l.released {
		return adapter.ErrFailedUnlock
	}
	l.released = true

	err := l.lock.Release(ctx)
	if err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return fmt.Errorf("%w: %w", adapter.ErrFailedUnlock, err)
	}
	return nil
}
