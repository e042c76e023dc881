package mutex

import (
	"context"
	"sync"
)

// MultiMutex is a set of mutexes keyed by string. A key's mutex exists only
// while someone holds or waits for it.
type MultiMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedMutex
}

type keyedMutex struct {
	sem  chan struct{}
	refs int
}

func NewMultiMutex() *MultiMutex {
	return &MultiMutex{
		entries: make(map[string]*keyedMutex),
	}
}

// Lock blocks until key is held or ctx is done.
func (m *MultiMutex) Lock(ctx context.Context, key string) error {
	e := m.acquire(key)

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.release(key)
		return ctx.Err()
	}
}

// Unlock panics if key is not held.
func (m *MultiMutex) Unlock(key string) {
	m.mu.Lock()
	e, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		panic("attempting to unlock unheld key: " + key)
	}

	<-e.sem
	m.release(key)
}

// Len returns the number of keys currently held or waited for.
func (m *MultiMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

func (m *MultiMutex) acquire(key string) *keyedMutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &keyedMutex{sem: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++

	return e
}

func (m *MultiMutex) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}
