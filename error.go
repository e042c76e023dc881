package codecable

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicate         = errors.New("codecable: duplicate")
	ErrKeyNotAdvertised  = errors.New("codecable: key not advertised")
	ErrPrefixNotEmpty    = errors.New("codecable: prefix not empty")
	ErrUnknownEnum       = errors.New("codecable: unknown enum")
	ErrMissingField      = errors.New("codecable: missing field")
	ErrTooManyCompressed = errors.New("codecable: more values than advertised keys")
)

// CollectionError is the error of a collection decode that did not fully
// succeed. It carries the errors of the individual entries and the raw
// entries that failed, were duplicates, or were never read.
type CollectionError[T any] struct {
	Collection  string
	Diagnostics *Diagnostics[T]
	entryErr    error
}

func (e *CollectionError[T]) Error() string {
	msg := e.Collection
	if e.entryErr != nil {
		msg = fmt.Sprintf("%s: %s", e.Collection, e.entryErr.Error())
	}
	if e.Diagnostics.Empty() {
		return msg
	}
	return msg + ";" + e.Diagnostics.String()
}

func (e *CollectionError[T]) Unwrap() error {
	return e.entryErr
}
