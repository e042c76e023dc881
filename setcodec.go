package codecable

import (
	"fmt"

	"github.com/pwnedgod/codecable/ops"
)

// SetCodec decodes a list into a Set. Elements that fail to decode are
// skipped and reported; repeated elements are dropped, or rejected when the
// codec fails on duplicates. The first occurrence of an element wins.
type SetCodec[A comparable, T any] struct {
	element Codec[A, T]
	cfg     config
}

var _ Codec[Set[string], any] = (*SetCodec[string, any])(nil)

func SetOf[A comparable, T any](element Codec[A, T], options ...Option) *SetCodec[A, T] {
	if element == nil {
		panic("element codec can't be nil")
	}
	return &SetCodec[A, T]{
		element: element,
		cfg:     newConfig(options...),
	}
}

func (c *SetCodec[A, T]) Decode(o ops.Ops[T], input T) Result[Set[A]] {
	seq, err := o.GetList(input)
	if err != nil {
		return Failure[Set[A]](err)
	}

	accepted := make(Set[A])
	t := newTally[T](c.cfg)

	for raw := range seq {
		if t.skip(raw) {
			continue
		}

		r := c.element.Decode(o, raw)
		if r.IsFailure() {
			t.fail(raw, r.Err())
			continue
		}
		if r.Err() != nil {
			t.note(r.Err())
		}

		e, _ := r.Value()
		if !accepted.Add(e) {
			t.duplicate(raw, fmt.Errorf("%w element: %s", ErrDuplicate, o.Stringify(raw)), c.cfg.failOnDuplicate)
		}
	}

	d := NewDiagnostics(o).
		AddList(BucketFailed, t.failed).
		AddList(BucketDuplicates, t.duplicates).
		AddList(BucketUnread, t.unread)
	return conclude(c.cfg, "set", accepted, t.failures(), d, t.errs)
}

// Encode writes every element as a list entry. All elements are attempted
// even after one fails.
func (c *SetCodec[A, T]) Encode(value Set[A], o ops.Ops[T], prefix T) Result[T] {
	b := newListBuilder(o)
	for e := range value.All() {
		b.add(EncodeStart(c.element, e, o))
	}
	return b.build(prefix)
}

// Equal compares element codecs only; decode policies are not part of a
// codec's identity.
func (c *SetCodec[A, T]) Equal(other any) bool {
	that, ok := other.(*SetCodec[A, T])
	if !ok {
		return false
	}
	return c == that || codecEqual(c.element, that.element)
}

func (c *SetCodec[A, T]) String() string {
	return fmt.Sprintf("SetCodec[%v]", c.element)
}
