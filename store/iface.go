package store

import (
	"context"
	"crypto/sha1"
	"fmt"
	"time"

	"github.com/pwnedgod/codecable"
	"github.com/vmihailenco/msgpack/v5"
)

type (
	ActionFunc[A any] func(ctx context.Context) (ActionResult[A], error)

	// UpdateFunc receives the stored value, or the zero value if found is
	// false, and returns the value to store.
	UpdateFunc[A any] func(ctx context.Context, current A, found bool) (A, error)

	PreActionErrorHandlerFunc[A any] func(ctx context.Context, args PreActionErrorHandlerArgs[A]) (A, error)

	PostActionErrorHandlerFunc[A any] func(ctx context.Context, args PostActionErrorHandlerArgs[A]) (A, error)

	PreActionErrorHandlerArgs[A any] struct {
		Key         any
		Action      ActionFunc[A]
		ErrCategory string
		Err         error
	}

	PostActionErrorHandlerArgs[A any] struct {
		Key         any
		Action      ActionFunc[A]
		Result      ActionResult[A]
		ErrCategory string
		Err         error
	}

	ActionResult[A any] struct {
		// Whether to store the returned value.
		Cache bool

		// The TTL of the stored value. If set to zero, defaults to the actor settings.
		TTL time.Duration

		Value A
	}

	Actor[A any] interface {
		// Set default TTL of stored values.
		SetTTL(ttl time.Duration) Actor[A]

		// Set context for action and adapter.
		SetContext(context.Context) Actor[A]

		// Set whether a stored value that only partially decodes is served.
		// When unset such values are treated as missing and overwritten.
		SetAcceptPartial(bool) Actor[A]

		// Set error handler for handling unconventional errors thrown before action (get in store and lock).
		//
		// Value and error returned by the handler will be forwarded as a return value for Actor.Do.
		SetPreActionErrorHandler(PreActionErrorHandlerFunc[A]) Actor[A]

		// Set error handler for handling unconventional errors thrown after action (store).
		//
		// Value and error returned by the handler will be forwarded as a return value for Actor.Do.
		SetPostActionErrorHandler(PostActionErrorHandlerFunc[A]) Actor[A]

		// Encode and store value under the given key.
		Save(key any, value A) error

		// Load and decode the value of the given key. A stored value that is
		// damaged is returned as a partial result. A missing key fails with
		// adapter.ErrNotFound.
		Load(key any) codecable.Result[A]

		// Invalidate the value of the given key.
		Invalidate(key any) error

		// Read, modify and store the value of the given key while holding its lock.
		Update(key any, fn UpdateFunc[A]) (A, error)

		// Perform an action.
		// The action will not be executed again if the key exists in store.
		Do(key any, action ActionFunc[A]) (A, error)
	}

	Keyable interface {
		Key() (string, error)
	}

	KeyableMap map[string]any
)

func (m KeyableMap) Key() (string, error) {
	hash := sha1.New()
	enc := msgpack.NewEncoder(hash)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(map[string]any(m)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
