package store

import "fmt"

type (
	baseError struct {
		category    string
		message     string
		previousErr error
	}

	preActionError struct {
		baseError
	}

	postActionError[A any] struct {
		baseError
		result ActionResult[A]
	}
)

const (
	categoryKey   = "key"
	categoryGet   = "get"
	categoryLock  = "lock"
	categoryStore = "store"
)

func newPreActionError(category string, message string, previousErr error) *preActionError {
	return &preActionError{
		baseError: baseError{
			category:    category,
			message:     message,
			previousErr: previousErr,
		},
	}
}

func newPostActionError[A any](category string, message string, result ActionResult[A], previousErr error) *postActionError[A] {
	return &postActionError[A]{
		baseError: baseError{
			category:    category,
			message:     message,
			previousErr: previousErr,
		},
		result: result,
	}
}

func (e baseError) Error() string {
	return fmt.Sprintf("%s (%s)", e.message, e.previousErr.Error())
}

func (e baseError) Unwrap() error {
	return e.previousErr
}
