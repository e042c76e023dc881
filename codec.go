package codecable

import (
	"iter"
	"reflect"
	"slices"

	"github.com/pwnedgod/codecable/ops"
)

type (
	// Codec converts values of type A to and from the native values T of a
	// format. Decoding never panics on bad input; failures are reported
	// through the Result.
	Codec[A, T any] interface {
		Decode(o ops.Ops[T], input T) Result[A]

		// Encode writes value onto prefix, which is usually o.Empty().
		Encode(value A, o ops.Ops[T], prefix T) Result[T]
	}

	// Keyable advertises the legal key set of a key-compressible map. The
	// sequence must be restartable.
	Keyable[T any] interface {
		Keys(o ops.Ops[T]) iter.Seq[T]
	}

	KeysFunc[T any] func(o ops.Ops[T]) iter.Seq[T]

	equaler interface {
		Equal(other any) bool
	}
)

func (f KeysFunc[T]) Keys(o ops.Ops[T]) iter.Seq[T] {
	return f(o)
}

// StringKeys advertises a fixed set of string keys.
func StringKeys[T any](keys ...string) Keyable[T] {
	keys = slices.Clone(keys)
	return KeysFunc[T](func(o ops.Ops[T]) iter.Seq[T] {
		return func(yield func(T) bool) {
			for _, k := range keys {
				if !yield(o.CreateString(k)) {
					return
				}
			}
		}
	})
}

// EncodeStart encodes value onto an empty prefix.
func EncodeStart[A, T any](c Codec[A, T], value A, o ops.Ops[T]) Result[T] {
	return c.Encode(value, o, o.Empty())
}

// codecEqual compares sub-codecs. Codecs with an Equal method decide for
// themselves; otherwise comparable codecs are compared with ==.
func codecEqual(a, b any) bool {
	if e, ok := a.(equaler); ok {
		return e.Equal(b)
	}
	if a == nil || b == nil {
		return a == b
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
