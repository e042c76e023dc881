package codecable

import (
	"fmt"
	"maps"

	"github.com/pwnedgod/codecable/ops"
)

const fieldKeys = "keys"

// KeyListMapCodec stores a map grouped by value, as a list of
// {"keys": [k...], "value": v} records, or of [[k...], v] pairs in formats
// that compress maps. A record is accepted or failed as a whole. Keys that
// repeat across or within records are reported under "duplicate keys"
// mapped to the value of the record that repeated them; the first
// occurrence wins.
type KeyListMapCodec[K, V comparable, T any] struct {
	key   Codec[K, T]
	value Codec[V, T]
	cfg   config
}

var _ Codec[map[string]string, any] = (*KeyListMapCodec[string, string, any])(nil)

func KeyListMapOf[K, V comparable, T any](key Codec[K, T], value Codec[V, T], options ...Option) *KeyListMapCodec[K, V, T] {
	if key == nil || value == nil {
		panic("key and value codecs can't be nil")
	}
	return &KeyListMapCodec[K, V, T]{
		key:   key,
		value: value,
		cfg:   newConfig(options...),
	}
}

type keyListRecord[K, V, T any] struct {
	rawKeys []T
	keys    []K
	value   V
}

func (c *KeyListMapCodec[K, V, T]) Decode(o ops.Ops[T], input T) Result[map[K]V] {
	seq, err := o.GetList(input)
	if err != nil {
		return Failure[map[K]V](err)
	}

	accepted := make(map[K]V)
	t := newTally[T](c.cfg)
	var duplicates []ops.Pair[T]

	for raw := range seq {
		if t.skip(raw) {
			continue
		}

		rks, rv, err := recordFields(o, raw, fieldKeys, fieldValue)
		if err != nil {
			t.fail(raw, err)
			continue
		}

		r := c.record(o, rks, rv)
		if r.IsFailure() {
			t.fail(raw, r.Err())
			continue
		}
		if r.Err() != nil {
			t.note(r.Err())
		}

		rec, _ := r.Value()
		var fatal error
		for i, k := range rec.keys {
			if _, seen := accepted[k]; !seen {
				accepted[k] = rec.value
				continue
			}

			duplicates = append(duplicates, ops.Pair[T]{Key: rec.rawKeys[i], Value: rv})
			dupErr := fmt.Errorf("%w key: %s", ErrDuplicate, o.Stringify(rec.rawKeys[i]))
			if c.cfg.failOnDuplicate {
				fatal = mergeErrors(fatal, dupErr)
			} else {
				t.note(dupErr)
			}
		}
		if fatal != nil {
			t.fail(raw, fatal)
		}
	}

	d := NewDiagnostics(o).
		AddList(BucketFailed, t.failed).
		AddMap(BucketDuplicateKeys, duplicates).
		AddList(BucketUnread, t.unread)
	return conclude(c.cfg, "key list map", accepted, t.failures(), d, t.errs)
}

// record decodes the key list and value of one record. Every key and the
// value are decoded so that all errors are reported.
func (c *KeyListMapCodec[K, V, T]) record(o ops.Ops[T], rks, rv T) Result[keyListRecord[K, V, T]] {
	keys, err := o.GetList(rks)
	if err != nil {
		return Failure[keyListRecord[K, V, T]](err)
	}

	rec := Success(keyListRecord[K, V, T]{})
	for rk := range keys {
		rec = Apply2(rec, c.key.Decode(o, rk), func(rec keyListRecord[K, V, T], k K) keyListRecord[K, V, T] {
			rec.rawKeys = append(rec.rawKeys, rk)
			rec.keys = append(rec.keys, k)
			return rec
		})
	}

	return Apply2(rec, c.value.Decode(o, rv), func(rec keyListRecord[K, V, T], v V) keyListRecord[K, V, T] {
		rec.value = v
		return rec
	})
}

// Encode writes one record per distinct value. Records and the keys inside a
// record follow map iteration order.
func (c *KeyListMapCodec[K, V, T]) Encode(value map[K]V, o ops.Ops[T], prefix T) Result[T] {
	var order []V
	groups := make(map[V][]K)
	for k, v := range maps.All(value) {
		if _, ok := groups[v]; !ok {
			order = append(order, v)
		}
		groups[v] = append(groups[v], k)
	}

	b := newListBuilder(o)
	for _, v := range order {
		keys := newListBuilder(o)
		for _, k := range groups[v] {
			keys.add(EncodeStart(c.key, k, o))
		}

		b.add(Apply2(keys.build(o.Empty()), EncodeStart(c.value, v, o), func(eks, ev T) T {
			return newRecord(o, fieldKeys, eks, fieldValue, ev)
		}))
	}
	return b.build(prefix)
}

// Equal compares key and value codecs only.
func (c *KeyListMapCodec[K, V, T]) Equal(other any) bool {
	that, ok := other.(*KeyListMapCodec[K, V, T])
	if !ok {
		return false
	}
	return c == that || (codecEqual(c.key, that.key) && codecEqual(c.value, that.value))
}

func (c *KeyListMapCodec[K, V, T]) String() string {
	return fmt.Sprintf("KeyListMapCodec[[%v] -> %v]", c.key, c.value)
}
