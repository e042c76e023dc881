package sync

import (
	"context"
	"fmt"

	"github.com/pwnedgod/codecable/adapter"
	"github.com/pwnedgod/codecable/adapter/util/mutex"
)

type syncMutexLocker struct {
	mm *mutex.MultiMutex
}

// NewLocker returns an in-process locker.
func NewLocker() mutex.Locker {
	return &syncMutexLocker{
		mm: mutex.NewMultiMutex(),
	}
}

func (lr syncMutexLocker) Obtain(ctx context.Context, key string) (mutex.Lock, error) {
	if err := lr.mm.Lock(ctx, key); err != nil {
		return nil, fmt.Errorf("%w: %w", adapter.ErrFailedLock, err)
	}

	return &syncMutexLock{
		mm:  lr.mm,
		key: key,
	}, nil
}

type syncMutexLock struct {
	mm       *mutex.MultiMutex
	key      string
	released bool
}

func (l *syncMutexLock) Release(ctx context.Context) error {
	if l.released {
		return adapter.ErrFailedUnlock
	}
	l.released = true
	l.mm.Unlock(l.key)
	return nil
}
