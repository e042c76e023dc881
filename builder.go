package codecable

import "github.com/pwnedgod/codecable/ops"

type (
	// listBuilder accumulates encoded list entries. A failed entry fails the
	// build but later entries are still encoded so that every error surfaces.
	listBuilder[T any] struct {
		ops    ops.Ops[T]
		result Result[[]T]
	}

	mapBuilder[T any] struct {
		ops    ops.Ops[T]
		result Result[[]ops.Pair[T]]
	}
)

func newListBuilder[T any](o ops.Ops[T]) *listBuilder[T] {
	return &listBuilder[T]{ops: o, result: Success([]T{})}
}

func (b *listBuilder[T]) add(r Result[T]) {
	b.result = Apply2(b.result, r, func(values []T, v T) []T {
		return append(values, v)
	})
}

// fail marks the build as failed without adding an entry.
func (b *listBuilder[T]) fail(err error) {
	b.result = Apply2(b.result, Failure[struct{}](err), func(values []T, _ struct{}) []T {
		return values
	})
}

func (b *listBuilder[T]) build(prefix T) Result[T] {
	return FlatMap(b.result, func(values []T) Result[T] {
		merged, err := b.ops.MergeToList(prefix, values...)
		if err != nil {
			return Failure[T](err)
		}
		return Success(merged)
	})
}

func newMapBuilder[T any](o ops.Ops[T]) *mapBuilder[T] {
	return &mapBuilder[T]{ops: o, result: Success([]ops.Pair[T]{})}
}

func (b *mapBuilder[T]) add(key, value Result[T]) {
	entry := Apply2(key, value, func(k, v T) ops.Pair[T] {
		return ops.Pair[T]{Key: k, Value: v}
	})
	b.result = Apply2(b.result, entry, func(pairs []ops.Pair[T], p ops.Pair[T]) []ops.Pair[T] {
		return append(pairs, p)
	})
}

func (b *mapBuilder[T]) build(prefix T) Result[T] {
	return FlatMap(b.result, func(pairs []ops.Pair[T]) Result[T] {
		merged, err := b.ops.MergeToMap(prefix, pairs...)
		if err != nil {
			return Failure[T](err)
		}
		return Success(merged)
	})
}
