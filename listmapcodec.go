package codecable

import (
	"fmt"
	"maps"

	"github.com/pwnedgod/codecable/ops"
)

const (
	fieldKey   = "key"
	fieldValue = "value"
)

// ListMapCodec stores a map as a list of {"key": k, "value": v} records, or
// of [k, v] pairs in formats that compress maps. Keys are always checked for
// duplicates; the first record for a key wins.
type ListMapCodec[K comparable, V, T any] struct {
	key   Codec[K, T]
	value Codec[V, T]
	cfg   config
}

var _ Codec[map[string]string, any] = (*ListMapCodec[string, string, any])(nil)

func ListMapOf[K comparable, V, T any](key Codec[K, T], value Codec[V, T], options ...Option) *ListMapCodec[K, V, T] {
	if key == nil || value == nil {
		panic("key and value codecs can't be nil")
	}
	return &ListMapCodec[K, V, T]{
		key:   key,
		value: value,
		cfg:   newConfig(options...),
	}
}

func (c *ListMapCodec[K, V, T]) Decode(o ops.Ops[T], input T) Result[map[K]V] {
	seq, err := o.GetList(input)
	if err != nil {
		return Failure[map[K]V](err)
	}

	accepted := make(map[K]V)
	t := newTally[T](c.cfg)

	for raw := range seq {
		if t.skip(raw) {
			continue
		}

		rk, rv, err := c.record(o, raw)
		if err != nil {
			t.fail(raw, err)
			continue
		}

		r := decodeEntry(c.key, c.value, o, rk, rv)
		if r.IsFailure() {
			t.fail(raw, r.Err())
			continue
		}
		if r.Err() != nil {
			t.note(r.Err())
		}

		e, _ := r.Value()
		if _, seen := accepted[e.key]; seen {
			t.duplicate(raw, fmt.Errorf("%w key: %s", ErrDuplicate, o.Stringify(rk)), c.cfg.failOnDuplicate)
			continue
		}
		accepted[e.key] = e.value
	}

	d := NewDiagnostics(o).
		AddList(BucketFailed, t.failed).
		AddList(BucketDuplicateKeys, t.duplicates).
		AddList(BucketUnread, t.unread)
	return conclude(c.cfg, "list map", accepted, t.failures(), d, t.errs)
}

// record splits a raw record into its key and value.
func (c *ListMapCodec[K, V, T]) record(o ops.Ops[T], raw T) (T, T, error) {
	return recordFields(o, raw, fieldKey, fieldValue)
}

// recordFields reads the two named fields of a record, or the two slots of a
// [first, second] pair in formats that compress maps.
func recordFields[T any](o ops.Ops[T], raw T, first, second string) (T, T, error) {
	var zero T

	if o.CompressMaps() {
		seq, err := o.GetList(raw)
		if err != nil {
			return zero, zero, err
		}

		var values []T
		for v := range seq {
			values = append(values, v)
		}
		switch {
		case len(values) < 2:
			return zero, zero, fmt.Errorf("%w: expected %s and %s, got %d values", ErrMissingField, first, second, len(values))
		case len(values) > 2:
			return zero, zero, fmt.Errorf("%w: %d values for 2 fields", ErrTooManyCompressed, len(values))
		}
		return values[0], values[1], nil
	}

	entries, err := o.GetMap(raw)
	if err != nil {
		return zero, zero, err
	}

	var a, b T
	var hasFirst, hasSecond bool
	for k, v := range entries {
		name, err := o.GetString(k)
		if err != nil {
			continue
		}
		switch name {
		case first:
			a, hasFirst = v, true
		case second:
			b, hasSecond = v, true
		}
	}

	if !hasFirst {
		return zero, zero, fmt.Errorf("%w: %s", ErrMissingField, first)
	}
	if !hasSecond {
		return zero, zero, fmt.Errorf("%w: %s", ErrMissingField, second)
	}
	return a, b, nil
}

// newRecord is the inverse of recordFields.
func newRecord[T any](o ops.Ops[T], first string, a T, second string, b T) T {
	if o.CompressMaps() {
		return o.CreateList([]T{a, b})
	}
	return o.CreateMap([]ops.Pair[T]{
		{Key: o.CreateString(first), Value: a},
		{Key: o.CreateString(second), Value: b},
	})
}

func (c *ListMapCodec[K, V, T]) Encode(value map[K]V, o ops.Ops[T], prefix T) Result[T] {
	b := newListBuilder(o)
	for k, v := range maps.All(value) {
		rk, rv := EncodeStart(c.key, k, o), EncodeStart(c.value, v, o)
		b.add(Apply2(rk, rv, func(ek, ev T) T {
			return newRecord(o, fieldKey, ek, fieldValue, ev)
		}))
	}
	return b.build(prefix)
}

// Equal compares key and value codecs only.
func (c *ListMapCodec[K, V, T]) Equal(other any) bool {
	that, ok := other.(*ListMapCodec[K, V, T])
	if !ok {
		return false
	}
	return c == that || (codecEqual(c.key, that.key) && codecEqual(c.value, that.value))
}

func (c *ListMapCodec[K, V, T]) String() string {
	return fmt.Sprintf("ListMapCodec[%v -> %v]", c.key, c.value)
}
