package codecable

import (
	"fmt"
	"iter"
)

// BiMap is a bijective map. Keys and values are both unique, and entries are
// iterated in insertion order. The zero value is ready to use.
type BiMap[K, V comparable] struct {
	order   []K
	forward map[K]V
	inverse map[V]K
}

func NewBiMap[K, V comparable]() *BiMap[K, V] {
	return &BiMap[K, V]{}
}

// BiMapOf builds a BiMap from m. It fails if two keys share a value.
func BiMapOf[K, V comparable](m map[K]V) (*BiMap[K, V], error) {
	b := NewBiMap[K, V]()
	for k, v := range m {
		if err := b.Put(k, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Put inserts k and v. Neither may be present already.
func (b *BiMap[K, V]) Put(k K, v V) error {
	if b.forward == nil {
		b.forward = make(map[K]V)
		b.inverse = make(map[V]K)
	}
	if _, ok := b.forward[k]; ok {
		return fmt.Errorf("%w key: %v", ErrDuplicate, k)
	}
	if _, ok := b.inverse[v]; ok {
		return fmt.Errorf("%w value: %v", ErrDuplicate, v)
	}

	b.order = append(b.order, k)
	b.forward[k] = v
	b.inverse[v] = k
	return nil
}

func (b *BiMap[K, V]) Get(k K) (V, bool) {
	v, ok := b.forward[k]
	return v, ok
}

func (b *BiMap[K, V]) GetKey(v V) (K, bool) {
	k, ok := b.inverse[v]
	return k, ok
}

func (b *BiMap[K, V]) Len() int {
	if b == nil {
		return 0
	}
	return len(b.order)
}

func (b *BiMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if b == nil {
			return
		}
		for _, k := range b.order {
			if !yield(k, b.forward[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the forward mapping.
func (b *BiMap[K, V]) Map() map[K]V {
	m := make(map[K]V, b.Len())
	for k, v := range b.All() {
		m[k] = v
	}
	return m
}

// Inverse returns a new BiMap from values to keys.
func (b *BiMap[K, V]) Inverse() *BiMap[V, K] {
	inv := NewBiMap[V, K]()
	for k, v := range b.All() {
		inv.Put(v, k)
	}
	return inv
}
