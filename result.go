package codecable

import (
	"strings"

	"github.com/hashicorp/go-multierror"
)

type (
	Status int

	// Result is the outcome of a decode or encode. A full success carries a
	// value and no error. A partial success carries a value and a non-fatal
	// error. A failure carries an error and, optionally, a partial value that
	// holds whatever could be read.
	Result[A any] struct {
		status  Status
		value   A
		present bool
		err     error
	}
)

const (
	StatusSuccess Status = iota
	StatusPartial
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	case StatusFailure:
		return "failure"
	}
	return "unknown"
}

func Success[A any](value A) Result[A] {
	return Result[A]{status: StatusSuccess, value: value, present: true}
}

// SuccessWithError returns a partial success. A nil err yields a full success.
func SuccessWithError[A any](value A, err error) Result[A] {
	if err == nil {
		return Success(value)
	}
	return Result[A]{status: StatusPartial, value: value, present: true, err: err}
}

func Failure[A any](err error) Result[A] {
	return Result[A]{status: StatusFailure, err: err}
}

func FailureWithPartial[A any](partial A, err error) Result[A] {
	return Result[A]{status: StatusFailure, value: partial, present: true, err: err}
}

func (r Result[A]) Status() Status {
	return r.status
}

// IsSuccess reports a full success, without any attached error.
func (r Result[A]) IsSuccess() bool {
	return r.status == StatusSuccess
}

func (r Result[A]) IsFailure() bool {
	return r.status == StatusFailure
}

func (r Result[A]) Err() error {
	return r.err
}

// Value returns the value of a full or partial success.
func (r Result[A]) Value() (A, bool) {
	if r.status == StatusFailure {
		var zero A
		return zero, false
	}
	return r.value, true
}

// Partial returns the value regardless of status, if there is one.
func (r Result[A]) Partial() (A, bool) {
	return r.value, r.present
}

// Get returns the best-effort value together with the error, if any.
func (r Result[A]) Get() (A, error) {
	return r.value, r.err
}

func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	out := Result[B]{status: r.status, present: r.present, err: r.err}
	if r.present {
		out.value = f(r.value)
	}
	return out
}

// FlatMap feeds the value of r, partial or not, into f. The outcome keeps the
// more severe status of the two steps and both errors.
func FlatMap[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	if !r.present {
		return Failure[B](r.err)
	}

	next := f(r.value)
	return Result[B]{
		status:  max(r.status, next.status),
		value:   next.value,
		present: next.present,
		err:     mergeErrors(r.err, next.err),
	}
}

// Apply2 combines two independent results. Both errors are kept and the value
// is only present when both inputs have one.
func Apply2[A, B, C any](ra Result[A], rb Result[B], f func(A, B) C) Result[C] {
	out := Result[C]{
		status: max(ra.status, rb.status),
		err:    mergeErrors(ra.err, rb.err),
	}
	if ra.present && rb.present {
		out.value = f(ra.value, rb.value)
		out.present = true
	}
	return out
}

func mergeErrors(errs ...error) error {
	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	switch {
	case merr == nil:
		return nil
	case len(merr.Errors) == 1:
		return merr.Errors[0]
	}

	merr.ErrorFormat = joinErrors
	return merr
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
