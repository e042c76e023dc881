package mutex_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pwnedgod/codecable/adapter/util/mutex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiMutex_Exclusive(t *testing.T) {
	ctx := context.Background()
	mm := mutex.NewMultiMutex()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, mm.Lock(ctx, "k"))

			mu.Lock()
			holders++
			maxSeen = max(maxSeen, holders)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()

			mm.Unlock("k")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, mm.Len())
}

func TestMultiMutex_ContextCancel(t *testing.T) {
	mm := mutex.NewMultiMutex()
	require.NoError(t, mm.Lock(context.Background(), "k"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, mm.Lock(ctx, "k"), context.DeadlineExceeded)

	assert.Equal(t, 1, mm.Len())
	mm.Unlock("k")
	assert.Equal(t, 0, mm.Len())
}

func TestMultiMutex_UnlockUnheld(t *testing.T) {
	mm := mutex.NewMultiMutex()
	assert.Panics(t, func() { mm.Unlock("k") })
}
