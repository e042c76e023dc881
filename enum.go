package codecable

import (
	"fmt"

	"github.com/pwnedgod/codecable/ops"
)

// EnumCodec reads and writes one of a fixed set of values. Values are written
// by name, or by their index in the set when the format compresses maps.
type EnumCodec[E comparable, T any] struct {
	values  []E
	names   []string
	byName  map[string]int
	byValue map[E]int
}

var _ Codec[string, any] = (*EnumCodec[string, any])(nil)

// Enum builds an enum codec over values. Names must be unique.
func Enum[E comparable, T any](name func(E) string, values ...E) *EnumCodec[E, T] {
	if name == nil {
		panic("name function can't be nil")
	}

	c := &EnumCodec[E, T]{
		values:  values,
		names:   make([]string, len(values)),
		byName:  make(map[string]int, len(values)),
		byValue: make(map[E]int, len(values)),
	}
	for i, v := range values {
		n := name(v)
		if _, ok := c.byName[n]; ok {
			panic(fmt.Sprintf("duplicate enum name %q", n))
		}
		c.names[i] = n
		c.byName[n] = i
		c.byValue[v] = i
	}
	return c
}

// StringerEnum builds an enum codec named by the values' String method.
func StringerEnum[E interface {
	comparable
	fmt.Stringer
}, T any](values ...E) *EnumCodec[E, T] {
	return Enum[E, T](func(e E) string { return e.String() }, values...)
}

func (c *EnumCodec[E, T]) Decode(o ops.Ops[T], input T) Result[E] {
	if o.CompressMaps() {
		n, err := o.GetInt(input)
		if err != nil {
			return Failure[E](err)
		}
		if n < 0 || n >= int64(len(c.values)) {
			return Failure[E](fmt.Errorf("%w id: %d", ErrUnknownEnum, n))
		}
		return Success(c.values[n])
	}

	s, err := o.GetString(input)
	if err != nil {
		return Failure[E](err)
	}
	i, ok := c.byName[s]
	if !ok {
		return Failure[E](fmt.Errorf("%w string: %s", ErrUnknownEnum, s))
	}
	return Success(c.values[i])
}

func (c *EnumCodec[E, T]) Encode(value E, o ops.Ops[T], prefix T) Result[T] {
	i, ok := c.byValue[value]
	if !ok {
		return Failure[T](fmt.Errorf("%w value: %v", ErrUnknownEnum, value))
	}
	if o.CompressMaps() {
		return primitiveOnto(o, prefix, o.CreateInt(int64(i)))
	}
	return primitiveOnto(o, prefix, o.CreateString(c.names[i]))
}

func (c *EnumCodec[E, T]) String() string {
	return "Enum"
}
