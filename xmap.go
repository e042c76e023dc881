package codecable

import (
	"fmt"

	"github.com/pwnedgod/codecable/ops"
)

// XmapCodec adapts a Codec[A, T] to a Codec[B, T] through a fallible decode
// conversion and an infallible encode conversion.
type XmapCodec[A, B, T any] struct {
	codec Codec[A, T]
	to    func(A) (B, error)
	from  func(B) A
}

func Xmap[A, B, T any](codec Codec[A, T], to func(A) (B, error), from func(B) A) *XmapCodec[A, B, T] {
	if codec == nil || to == nil || from == nil {
		panic("codec and conversions can't be nil")
	}
	return &XmapCodec[A, B, T]{codec: codec, to: to, from: from}
}

func (c *XmapCodec[A, B, T]) Decode(o ops.Ops[T], input T) Result[B] {
	return FlatMap(c.codec.Decode(o, input), func(a A) Result[B] {
		b, err := c.to(a)
		if err != nil {
			return Failure[B](err)
		}
		return Success(b)
	})
}

func (c *XmapCodec[A, B, T]) Encode(value B, o ops.Ops[T], prefix T) Result[T] {
	return c.codec.Encode(c.from(value), o, prefix)
}

func (c *XmapCodec[A, B, T]) String() string {
	return fmt.Sprintf("Xmap[%v]", c.codec)
}
