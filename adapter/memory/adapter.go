package memory

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/pwnedgod/codecable/adapter"
	"github.com/pwnedgod/codecable/adapter/util/mutex"
	"github.com/pwnedgod/codecable/adapter/util/mutex/sync"
)

// noExpiry stands in for a zero ttl, which ccache would treat as already
// expired.
const noExpiry = 100 * 365 * 24 * time.Hour

type memoryAdapter struct {
	cache  *ccache.Cache
	locker mutex.Locker
}

func NewAdapter() adapter.Adapter {
	return NewAdapterWithConfiguration(ccache.Configure())
}

func NewAdapterWithConfiguration(cacheCfg *ccache.Configuration) adapter.Adapter {
	return &memoryAdapter{
		cache:  ccache.New(cacheCfg),
		locker: sync.NewLocker(),
	}
}

func (a *memoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	item := a.cache.Get(key)
	return item != nil && !item.Expired(), nil
}

func (a *memoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	item := a.cache.Get(key)
	if item == nil || item.Expired() {
		return nil, adapter.ErrNotFound
	}

	data, ok := item.Value().([]byte)
	if !ok {
		return nil, adapter.ErrNotFound
	}

	// Callers may keep the slice.
	return append([]byte(nil), data...), nil
}

func (a *memoryAdapter) Set(ctx context.Context, key string, ttl time.Duration, data []byte) error {
	if ttl <= 0 {
		ttl = noExpiry
	}
	a.cache.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

func (a *memoryAdapter) Delete(ctx context.Context, key string) error {
	a.cache.Delete(key)
	return nil
}

func (a *memoryAdapter) ObtainLock(ctx context.Context, key string) (adapter.Lock, error) {
	return a.locker.Obtain(ctx, key)
}
