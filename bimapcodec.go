package codecable

import (
	"fmt"
	"iter"

	"github.com/pwnedgod/codecable/ops"
)

type (
	// UnboundedBiMapCodec decodes a map into a BiMap. Besides the entry
	// tolerance of the map codecs it enforces unique values: the first key to
	// claim a value keeps it, later claimants are dropped, or rejected when
	// the codec fails on duplicates.
	UnboundedBiMapCodec[K, V comparable, T any] struct {
		key   Codec[K, T]
		value Codec[V, T]
		cfg   config
	}

	// SimpleBiMapCodec is the key-compressible variant of UnboundedBiMapCodec.
	SimpleBiMapCodec[K, V comparable, T any] struct {
		key   Codec[K, T]
		value Codec[V, T]
		keys  Keyable[T]
		cfg   config
	}

	// claim tracks the raw keys that decoded to one value.
	claim[T any] struct {
		value T
		keys  []T
	}
)

var (
	_ Codec[*BiMap[string, string], any] = (*UnboundedBiMapCodec[string, string, any])(nil)
	_ Codec[*BiMap[string, string], any] = (*SimpleBiMapCodec[string, string, any])(nil)
)

func UnboundedBiMapOf[K, V comparable, T any](key Codec[K, T], value Codec[V, T], options ...Option) *UnboundedBiMapCodec[K, V, T] {
	if key == nil || value == nil {
		panic("key and value codecs can't be nil")
	}
	return &UnboundedBiMapCodec[K, V, T]{
		key:   key,
		value: value,
		cfg:   newConfig(options...),
	}
}

func (c *UnboundedBiMapCodec[K, V, T]) Decode(o ops.Ops[T], input T) Result[*BiMap[K, V]] {
	entries, err := o.GetMap(input)
	if err != nil {
		return Failure[*BiMap[K, V]](err)
	}
	return decodeBiMap(c.cfg, c.key, c.value, o, entries)
}

func (c *UnboundedBiMapCodec[K, V, T]) Encode(value *BiMap[K, V], o ops.Ops[T], prefix T) Result[T] {
	return encodeMap(c.key, c.value, value.All(), o, prefix)
}

// Equal compares key and value codecs only.
func (c *UnboundedBiMapCodec[K, V, T]) Equal(other any) bool {
	that, ok := other.(*UnboundedBiMapCodec[K, V, T])
	if !ok {
		return false
	}
	return c == that || (codecEqual(c.key, that.key) && codecEqual(c.value, that.value))
}

func (c *UnboundedBiMapCodec[K, V, T]) String() string {
	return fmt.Sprintf("UnboundedBiMapCodec[%v <-> %v]", c.key, c.value)
}

func SimpleBiMapOf[K, V comparable, T any](key Codec[K, T], value Codec[V, T], keys Keyable[T], options ...Option) *SimpleBiMapCodec[K, V, T] {
	if key == nil || value == nil {
		panic("key and value codecs can't be nil")
	}
	if keys == nil {
		panic("keys can't be nil")
	}
	return &SimpleBiMapCodec[K, V, T]{
		key:   key,
		value: value,
		keys:  keys,
		cfg:   newConfig(options...),
	}
}

func (c *SimpleBiMapCodec[K, V, T]) Keys(o ops.Ops[T]) iter.Seq[T] {
	return c.keys.Keys(o)
}

func (c *SimpleBiMapCodec[K, V, T]) Decode(o ops.Ops[T], input T) Result[*BiMap[K, V]] {
	entries, err := keyedEntries(o, c.keys, input)
	if err != nil {
		return Failure[*BiMap[K, V]](err)
	}
	return decodeBiMap(c.cfg, c.key, c.value, o, entries)
}

func (c *SimpleBiMapCodec[K, V, T]) Encode(value *BiMap[K, V], o ops.Ops[T], prefix T) Result[T] {
	if o.CompressMaps() {
		return encodeCompressed(c.key, c.value, c.keys, value.All(), o, prefix)
	}
	return encodeMap(c.key, c.value, value.All(), o, prefix)
}

// Equal compares key and value codecs only.
func (c *SimpleBiMapCodec[K, V, T]) Equal(other any) bool {
	that, ok := other.(*SimpleBiMapCodec[K, V, T])
	if !ok {
		return false
	}
	return c == that || (codecEqual(c.key, that.key) && codecEqual(c.value, that.value))
}

func (c *SimpleBiMapCodec[K, V, T]) String() string {
	return fmt.Sprintf("SimpleBiMapCodec[%v <-> %v]", c.key, c.value)
}

func decodeBiMap[K, V comparable, T any](cfg config, key Codec[K, T], value Codec[V, T], o ops.Ops[T], entries iter.Seq2[T, T]) Result[*BiMap[K, V]] {
	accepted := NewBiMap[K, V]()
	t := newTally[ops.Pair[T]](cfg)

	claims := make(map[V]*claim[T])
	var claimed []V

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

		// Distinct raw keys may still decode to the same key.
		if _, taken := accepted.Get(e.key); taken {
			t.fail(raw, fmt.Errorf("%w key: %s", ErrDuplicate, o.Stringify(rk)))
			continue
		}

		cl, ok := claims[e.value]
		if !ok {
			cl = &claim[T]{value: rv}
			claims[e.value] = cl
			claimed = append(claimed, e.value)
		}
		cl.keys = append(cl.keys, rk)

		if len(cl.keys) > 1 {
			err := fmt.Errorf("%w value: %s", ErrDuplicate, o.Stringify(rv))
			if cfg.failOnDuplicate {
				t.fail(raw, err)
			} else {
				t.note(err)
			}
			continue
		}

		accepted.Put(e.key, e.value)
	}

	var duplicates []ops.Pair[T]
	for _, v := range claimed {
		cl := claims[v]
		if len(cl.keys) < 2 {
			continue
		}
		duplicates = append(duplicates, ops.Pair[T]{Key: cl.value, Value: o.CreateList(cl.keys)})
	}

	d := NewDiagnostics(o).
		AddMap(BucketFailed, t.failed).
		AddMap(BucketDuplicateValues, duplicates).
		AddMap(BucketUnread, t.unread)
	return conclude(cfg, "bimap", accepted, t.failures(), d, t.errs)
}
