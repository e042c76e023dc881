package codecable

import (
	"fmt"

	"github.com/pwnedgod/codecable/ops"
)

type (
	stringCodec[T any]  struct{}
	intCodec[T any]     struct{}
	float64Codec[T any] struct{}
	boolCodec[T any]    struct{}
)

func String[T any]() Codec[string, T] {
	return stringCodec[T]{}
}

func Int[T any]() Codec[int, T] {
	return intCodec[T]{}
}

func Float64[T any]() Codec[float64, T] {
	return float64Codec[T]{}
}

func Bool[T any]() Codec[bool, T] {
	return boolCodec[T]{}
}

func (stringCodec[T]) Decode(o ops.Ops[T], input T) Result[string] {
	return primitiveResult(o.GetString(input))
}

func (stringCodec[T]) Encode(value string, o ops.Ops[T], prefix T) Result[T] {
	return primitiveOnto(o, prefix, o.CreateString(value))
}

func (stringCodec[T]) String() string {
	return "String"
}

func (intCodec[T]) Decode(o ops.Ops[T], input T) Result[int] {
	n, err := o.GetInt(input)
	return primitiveResult(int(n), err)
}

func (intCodec[T]) Encode(value int, o ops.Ops[T], prefix T) Result[T] {
	return primitiveOnto(o, prefix, o.CreateInt(int64(value)))
}

func (intCodec[T]) String() string {
	return "Int"
}

func (float64Codec[T]) Decode(o ops.Ops[T], input T) Result[float64] {
	return primitiveResult(o.GetFloat(input))
}

func (float64Codec[T]) Encode(value float64, o ops.Ops[T], prefix T) Result[T] {
	return primitiveOnto(o, prefix, o.CreateFloat(value))
}

func (float64Codec[T]) String() string {
	return "Float64"
}

func (boolCodec[T]) Decode(o ops.Ops[T], input T) Result[bool] {
	return primitiveResult(o.GetBool(input))
}

func (boolCodec[T]) Encode(value bool, o ops.Ops[T], prefix T) Result[T] {
	return primitiveOnto(o, prefix, o.CreateBool(value))
}

func (boolCodec[T]) String() string {
	return "Bool"
}

func primitiveResult[A any](v A, err error) Result[A] {
	if err != nil {
		return Failure[A](err)
	}
	return Success(v)
}

// primitiveOnto returns v if prefix is empty. Primitives can't be merged into
// an existing value.
func primitiveOnto[T any](o ops.Ops[T], prefix, v T) Result[T] {
	if o.Kind(prefix) != ops.KindEmpty {
		return Failure[T](fmt.Errorf("%w: %s", ErrPrefixNotEmpty, o.Stringify(prefix)))
	}
	return Success(v)
}
