package mutex

import (
	"context"

	"github.com/pwnedgod/codecable/adapter"
)

// Locker hands out named locks for an adapter's ObtainLock.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

type Lock = adapter.Lock
