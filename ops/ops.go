package ops

import (
	"errors"
	"iter"
)

var (
	ErrNotList   = errors.New("codecable: not a list")
	ErrNotMap    = errors.New("codecable: not a map")
	ErrWrongType = errors.New("codecable: wrong type")
	ErrMalformed = errors.New("codecable: malformed input")
)

type (
	Kind int

	// Pair is a raw key/value entry of a map-shaped value.
	Pair[T any] struct {
		Key   T
		Value T
	}

	// Ops is the capability set of one concrete format, parameterized over the
	// format's native value type.
	Ops[T any] interface {
		Kind(v T) Kind

		Empty() T

		CreateString(s string) T
		GetString(v T) (string, error)

		CreateInt(n int64) T
		GetInt(v T) (int64, error)

		CreateFloat(f float64) T
		GetFloat(v T) (float64, error)

		CreateBool(b bool) T
		GetBool(v T) (bool, error)

		CreateList(values []T) T
		// Returns ErrNotList if v is not list-shaped.
		GetList(v T) (iter.Seq[T], error)

		CreateMap(pairs []Pair[T]) T
		// Returns ErrNotMap if v is not map-shaped. Entries are yielded in the
		// order the format stores them.
		GetMap(v T) (iter.Seq2[T, T], error)

		// Appends values to prefix, which must be empty or a list.
		MergeToList(prefix T, values ...T) (T, error)

		// Appends pairs to prefix, which must be empty or a map.
		MergeToMap(prefix T, pairs ...Pair[T]) (T, error)

		// Whether key-compressible maps should be written as plain value lists.
		CompressMaps() bool

		// Human readable rendering of v, used in diagnostics.
		Stringify(v T) string
	}

	// Format is an Ops that can also move its native values to and from bytes.
	Format[T any] interface {
		Ops[T]

		Marshal(v T) ([]byte, error)
		Unmarshal(data []byte) (T, error)
	}
)

const (
	KindEmpty Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Entries collects the pairs of a map-shaped value.
func Entries[T any](o Ops[T], v T) ([]Pair[T], error) {
	seq, err := o.GetMap(v)
	if err != nil {
		return nil, err
	}

	var pairs []Pair[T]
	for k, v := range seq {
		pairs = append(pairs, Pair[T]{Key: k, Value: v})
	}
	return pairs, nil
}
