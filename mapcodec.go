package codecable

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/pwnedgod/codecable/ops"
)

type (
	// UnboundedMapCodec decodes a map of any keys. Entries whose key or value
	// fail to decode are skipped and reported. Unless duplicate key checks are
	// enabled, a later entry with an already decoded key overwrites the
	// earlier one.
	UnboundedMapCodec[K comparable, V, T any] struct {
		key   Codec[K, T]
		value Codec[V, T]
		cfg   config
	}

	// SimpleMapCodec is an UnboundedMapCodec whose legal keys are known in
	// advance. Formats that compress maps store it as a list of values in
	// advertised key order.
	SimpleMapCodec[K comparable, V, T any] struct {
		key   Codec[K, T]
		value Codec[V, T]
		keys  Keyable[T]
		cfg   config
	}

	entry[K, V any] struct {
		key   K
		value V
	}
)

var (
	_ Codec[map[string]string, any] = (*UnboundedMapCodec[string, string, any])(nil)
	_ Codec[map[string]string, any] = (*SimpleMapCodec[string, string, any])(nil)
)

func UnboundedMapOf[K comparable, V, T any](key Codec[K, T], value Codec[V, T], options ...Option) *UnboundedMapCodec[K, V, T] {
	if key == nil || value == nil {
		panic("key and value codecs can't be nil")
	}
	return &UnboundedMapCodec[K, V, T]{
		key:   key,
		value: value,
		cfg:   newConfig(options...),
	}
}

func (c *UnboundedMapCodec[K, V, T]) Decode(o ops.Ops[T], input T) Result[map[K]V] {
	entries, err := o.GetMap(input)
	if err != nil {
		return Failure[map[K]V](err)
	}
	return decodeMap(c.cfg, "map", c.key, c.value, o, entries)
}

func (c *UnboundedMapCodec[K, V, T]) Encode(value map[K]V, o ops.Ops[T], prefix T) Result[T] {
	return encodeMap(c.key, c.value, maps.All(value), o, prefix)
}

// Equal compares key and value codecs only.
func (c *UnboundedMapCodec[K, V, T]) Equal(other any) bool {
	that, ok := other.(*UnboundedMapCodec[K, V, T])
	if !ok {
		return false
	}
	return c == that || (codecEqual(c.key, that.key) && codecEqual(c.value, that.value))
}

func (c *UnboundedMapCodec[K, V, T]) String() string {
	return fmt.Sprintf("UnboundedMapCodec[%v -> %v]", c.key, c.value)
}

func SimpleMapOf[K comparable, V, T any](key Codec[K, T], value Codec[V, T], keys Keyable[T], options ...Option) *SimpleMapCodec[K, V, T] {
	if key == nil || value == nil {
		panic("key and value codecs can't be nil")
	}
	if keys == nil {
		panic("keys can't be nil")
	}
	return &SimpleMapCodec[K, V, T]{
		key:   key,
		value: value,
		keys:  keys,
		cfg:   newConfig(options...),
	}
}

// Keys returns the advertised key set in the format's native representation.
func (c *SimpleMapCodec[K, V, T]) Keys(o ops.Ops[T]) iter.Seq[T] {
	return c.keys.Keys(o)
}

func (c *SimpleMapCodec[K, V, T]) Decode(o ops.Ops[T], input T) Result[map[K]V] {
	entries, err := keyedEntries(o, c.keys, input)
	if err != nil {
		return Failure[map[K]V](err)
	}
	return decodeMap(c.cfg, "map", c.key, c.value, o, entries)
}

func (c *SimpleMapCodec[K, V, T]) Encode(value map[K]V, o ops.Ops[T], prefix T) Result[T] {
	if o.CompressMaps() {
		return encodeCompressed(c.key, c.value, c.keys, maps.All(value), o, prefix)
	}
	return encodeMap(c.key, c.value, maps.All(value), o, prefix)
}

// Equal compares key and value codecs only.
func (c *SimpleMapCodec[K, V, T]) Equal(other any) bool {
	that, ok := other.(*SimpleMapCodec[K, V, T])
	if !ok {
		return false
	}
	return c == that || (codecEqual(c.key, that.key) && codecEqual(c.value, that.value))
}

func (c *SimpleMapCodec[K, V, T]) String() string {
	return fmt.Sprintf("SimpleMapCodec[%v -> %v]", c.key, c.value)
}

func decodeEntry[K, V, T any](key Codec[K, T], value Codec[V, T], o ops.Ops[T], rk, rv T) Result[entry[K, V]] {
	// Both sides are decoded so that both errors are reported.
	return Apply2(key.Decode(o, rk), value.Decode(o, rv), func(k K, v V) entry[K, V] {
		return entry[K, V]{key: k, value: v}
	})
}

func decodeMap[K comparable, V, T any](cfg config, collection string, key Codec[K, T], value Codec[V, T], o ops.Ops[T], entries iter.Seq2[T, T]) Result[map[K]V] {
	accepted := make(map[K]V)
	t := newTally[ops.Pair[T]](cfg)

	for rk, rv := range entries {
		raw := ops.Pair[T]{Key: rk, Value: rv}
		if t.skip(raw) {
			continue
		}

		r := decodeEntry(key, value, o, rk, rv)
		if r.IsFailure() {
			t.fail(raw, r.Err())
			continue
		}
		if r.Err() != nil {
			t.note(r.Err())
		}

		e, _ := r.Value()
		if _, seen := accepted[e.key]; seen && cfg.checkDuplicateKeys {
			t.duplicate(raw, fmt.Errorf("%w key: %s", ErrDuplicate, o.Stringify(rk)), cfg.failOnDuplicate)
			continue
		}
		accepted[e.key] = e.value
	}

	d := NewDiagnostics(o).
		AddMap(BucketFailed, t.failed).
		AddMap(BucketDuplicateKeys, t.duplicates).
		AddMap(BucketUnread, t.unread)
	return conclude(cfg, collection, accepted, t.failures(), d, t.errs)
}

func encodeMap[K, V, T any](key Codec[K, T], value Codec[V, T], entries iter.Seq2[K, V], o ops.Ops[T], prefix T) Result[T] {
	b := newMapBuilder(o)
	for k, v := range entries {
		b.add(EncodeStart(key, k, o), EncodeStart(value, v, o))
	}
	return b.build(prefix)
}

// keyedEntries enumerates the entries of a key-compressible map. Compressed
// formats store the values as a list aligned with the advertised keys, with
// empty slots for absent keys.
func keyedEntries[T any](o ops.Ops[T], keys Keyable[T], input T) (iter.Seq2[T, T], error) {
	if !o.CompressMaps() {
		return o.GetMap(input)
	}

	seq, err := o.GetList(input)
	if err != nil {
		return nil, err
	}

	values := slices.Collect(seq)
	advertised := slices.Collect(keys.Keys(o))
	if len(values) > len(advertised) {
		return nil, fmt.Errorf("%w: %d values for %d keys", ErrTooManyCompressed, len(values), len(advertised))
	}

	return func(yield func(T, T) bool) {
		for i, v := range values {
			if o.Kind(v) == ops.KindEmpty {
				continue
			}
			if !yield(advertised[i], v) {
				return
			}
		}
	}, nil
}

func encodeCompressed[K, V, T any](key Codec[K, T], value Codec[V, T], keys Keyable[T], entries iter.Seq2[K, V], o ops.Ops[T], prefix T) Result[T] {
	advertised := slices.Collect(keys.Keys(o))
	index := make(map[string]int, len(advertised))
	for i, k := range advertised {
		index[o.Stringify(k)] = i
	}

	slots := make([]Result[T], len(advertised))
	for i := range slots {
		slots[i] = Success(o.Empty())
	}

	b := newListBuilder(o)
	for k, v := range entries {
		rk, rv := EncodeStart(key, k, o), EncodeStart(value, v, o)

		encodedKey, ok := rk.Value()
		if !ok {
			b.fail(mergeErrors(rk.Err(), rv.Err()))
			continue
		}

		i, ok := index[o.Stringify(encodedKey)]
		if !ok {
			b.fail(fmt.Errorf("%w: %s", ErrKeyNotAdvertised, o.Stringify(encodedKey)))
			continue
		}
		slots[i] = rv
	}

	for _, slot := range slots {
		b.add(slot)
	}
	return b.build(prefix)
}
