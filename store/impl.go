package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pwnedgod/codecable"
	"github.com/pwnedgod/codecable/adapter"
	"github.com/pwnedgod/codecable/logger"
	"github.com/pwnedgod/codecable/ops"
)

type (
	// Manager holds the dependencies shared by the actors created with On.
	Manager struct {
		adapter adapter.Adapter
		logger  logger.Logger
	}

	defaultActor[A, T any] struct {
		m                    *Manager
		codec                codecable.Codec[A, T]
		format               ops.Format[T]
		name                 string
		ttl                  time.Duration
		ctx                  context.Context
		acceptPartial        bool
		preActionErrHandler  PreActionErrorHandlerFunc[A]
		postActionErrHandler PostActionErrorHandlerFunc[A]
	}
)

const (
	TTLDefault = time.Duration(10) * time.Minute
)

// errUnusable marks a stored value that decoded too poorly to be served.
var errUnusable = errors.New("codecable: stored value unusable")

func NewManager(adapter adapter.Adapter, logger logger.Logger) *Manager {
	return &Manager{
		adapter: adapter,
		logger:  logger,
	}
}

// On creates an actor storing values of A through codec, serialized with
// format. The name will be used as a base for the storage key.
func On[A, T any](m *Manager, name string, codec codecable.Codec[A, T], format ops.Format[T]) Actor[A] {
	if codec == nil || format == nil {
		panic("codec and format can't be nil")
	}
	return &defaultActor[A, T]{
		m:                    m,
		codec:                codec,
		format:               format,
		name:                 name,
		ttl:                  TTLDefault,
		ctx:                  context.Background(),
		preActionErrHandler:  DefaultPreActionErrorHandler[A],
		postActionErrHandler: DefaultPostActionErrorHandler[A],
	}
}

func (a *defaultActor[A, T]) SetTTL(ttl time.Duration) Actor[A] {
	if ttl < 0 {
		ttl = 0
	}
	a.ttl = ttl
	return a
}

func (a *defaultActor[A, T]) SetContext(ctx context.Context) Actor[A] {
	a.ctx = ctx
	return a
}

func (a *defaultActor[A, T]) SetAcceptPartial(accept bool) Actor[A] {
	a.acceptPartial = accept
	return a
}

func (a *defaultActor[A, T]) SetPreActionErrorHandler(errHandler PreActionErrorHandlerFunc[A]) Actor[A] {
	if errHandler == nil {
		panic("nil handler")
	}

	a.preActionErrHandler = errHandler
	return a
}

func (a *defaultActor[A, T]) SetPostActionErrorHandler(errHandler PostActionErrorHandlerFunc[A]) Actor[A] {
	if errHandler == nil {
		panic("nil handler")
	}

	a.postActionErrHandler = errHandler
	return a
}

func (a defaultActor[A, T]) Save(kv any, value A) error {
	key, err := a.getKey(kv)
	if err != nil {
		return err
	}
	return a.storeValue(key, a.ttl, value)
}

func (a defaultActor[A, T]) Load(kv any) codecable.Result[A] {
	key, err := a.getKey(kv)
	if err != nil {
		return codecable.Failure[A](err)
	}

	r, err := a.load(key)
	if err != nil {
		return codecable.Failure[A](err)
	}
	return r
}

func (a defaultActor[A, T]) Invalidate(kv any) error {
	key, err := a.getKey(kv)
	if err != nil {
		return err
	}

	// No need for lock.
	return a.m.adapter.Delete(a.ctx, key)
}

func (a defaultActor[A, T]) Update(kv any, fn UpdateFunc[A]) (A, error) {
	var zero A

	key, err := a.getKey(kv)
	if err != nil {
		return zero, err
	}

	lock, err := a.obtainLock(key)
	if err != nil {
		return zero, err
	}
	defer a.releaseLock(key, lock)

	current, found := zero, false
	r, err := a.load(key)
	switch {
	case errors.Is(err, adapter.ErrNotFound):
	case err != nil:
		return zero, err
	default:
		// Whatever survived decoding is handed on and rewritten cleanly.
		current, found = r.Partial()
		if !r.IsSuccess() {
			a.m.logger.Error("updating degraded value", key, r.Err())
		}
	}

	next, err := fn(a.ctx, current, found)
	if err != nil {
		return zero, err
	}

	if err := a.storeValue(key, a.ttl, next); err != nil {
		return zero, err
	}
	return next, nil
}

func (a defaultActor[A, T]) Do(kv any, action ActionFunc[A]) (A, error) {
	value, err := a.handle(kv, action)
	if err != nil {
		var preErr *preActionError
		if errors.As(err, &preErr) {
			return a.handlePreActionError(kv, action, preErr)
		}

		var postErr *postActionError[A]
		if errors.As(err, &postErr) {
			return a.handlePostActionError(kv, action, postErr)
		}

		// Error from action.
		var zero A
		return zero, err
	}

	return value, nil
}

func (a defaultActor[A, T]) handlePreActionError(kv any, action ActionFunc[A], preErr *preActionError) (A, error) {
	a.m.logger.Error(preErr)

	args := PreActionErrorHandlerArgs[A]{
		Key:         kv,
		Action:      action,
		ErrCategory: preErr.category,
		Err:         preErr.Unwrap(),
	}
	return a.preActionErrHandler(a.ctx, args)
}

func (a defaultActor[A, T]) handlePostActionError(kv any, action ActionFunc[A], postErr *postActionError[A]) (A, error) {
	a.m.logger.Error(postErr)

	args := PostActionErrorHandlerArgs[A]{
		Key:         kv,
		Action:      action,
		Result:      postErr.result,
		ErrCategory: postErr.category,
		Err:         postErr.Unwrap(),
	}
	return a.postActionErrHandler(a.ctx, args)
}

func (a defaultActor[A, T]) handle(kv any, action ActionFunc[A]) (A, error) {
	var zero A

	key, err := a.getKey(kv)
	if err != nil {
		return zero, newPreActionError(categoryKey, "error while creating key", err)
	}

	value, err := a.getValue(key)
	if err == nil {
		// Pre-lock value get.
		return value, nil
	}
	if !isMiss(err) {
		return zero, newPreActionError(categoryGet, "error while getting value", err)
	}

	// To speed up future requests, only attempt the lock if the value is missing.
	lock, err := a.obtainLock(key)
	if err != nil {
		return zero, newPreActionError(categoryLock, "error while attempting to lock", err)
	}
	defer a.releaseLock(key, lock)

	// Check for a second time.
	// This is required because one or more processes/threads might have already reached the locking stage.
	value, err = a.getValue(key)
	if err == nil {
		// Post-lock value get.
		return value, nil
	}
	if !isMiss(err) {
		return zero, newPreActionError(categoryGet, "error while getting value", err)
	}

	a.m.logger.Debug("perform action", key)

	result, err := action(a.ctx)
	if err != nil {
		return zero, err
	}

	if result.Cache {
		ttl := result.TTL
		if ttl <= 0 {
			ttl = a.ttl
		}
		if err := a.storeValue(key, ttl, result.Value); err != nil {
			return zero, newPostActionError(categoryStore, "error while storing value", result, err)
		}
	} else {
		a.m.logger.Debug("not storing", key)
	}

	return result.Value, nil
}

func (a defaultActor[A, T]) obtainLock(key string) (adapter.Lock, error) {
	lockKey := "lock###" + key

	lock, err := a.m.adapter.ObtainLock(a.ctx, lockKey)
	if err != nil {
		return nil, err
	}
	a.m.logger.Debug("lock acquired", lockKey)
	return lock, nil
}

func (a defaultActor[A, T]) releaseLock(key string, lock adapter.Lock) {
	lockKey := "lock###" + key

	if err := lock.Release(a.ctx); err != nil {
		a.m.logger.Error("lock release failed", lockKey, err)
		return
	}
	a.m.logger.Debug("lock released", lockKey)
}

func (a defaultActor[A, T]) getKey(v any) (string, error) {
	key, err := makeKey(v)
	if err != nil {
		return "", err
	}

	a.m.logger.Debug("name", a.name, "key", key)

	// Prefix the key string with name.
	return a.name + "###" + key, nil
}

// load reads and decodes the value of key. Errors are reserved for the
// adapter; bytes that do not parse decode as a failure without partial.
func (a defaultActor[A, T]) load(key string) (codecable.Result[A], error) {
	data, err := a.m.adapter.Get(a.ctx, key)
	if err != nil {
		return codecable.Result[A]{}, err
	}

	a.m.logger.Debug("get value", key)

	native, err := a.format.Unmarshal(data)
	if err != nil {
		return codecable.Failure[A](err), nil
	}
	return a.codec.Decode(a.format, native), nil
}

// getValue returns a servable value of key. Missing and unusable values are
// both reported as misses.
func (a defaultActor[A, T]) getValue(key string) (A, error) {
	var zero A

	r, err := a.load(key)
	if err != nil {
		return zero, err
	}

	if r.IsSuccess() {
		return r.Get()
	}

	if value, ok := r.Partial(); ok && a.acceptPartial {
		a.m.logger.Error("serving degraded value", key, r.Err())
		return value, nil
	}

	a.m.logger.Error("discarding degraded value", key, r.Err())
	return zero, fmt.Errorf("%w: %w", errUnusable, r.Err())
}

func (a defaultActor[A, T]) storeValue(key string, ttl time.Duration, value A) error {
	r := codecable.EncodeStart[A, T](a.codec, value, a.format)
	native, ok := r.Value()
	if !ok {
		return r.Err()
	}
	if r.Err() != nil {
		a.m.logger.Error("storing degraded value", key, r.Err())
	}

	data, err := a.format.Marshal(native)
	if err != nil {
		return err
	}

	a.m.logger.Debug("store value", key)

	return a.m.adapter.Set(a.ctx, key, ttl, data)
}

func isMiss(err error) bool {
	return errors.Is(err, adapter.ErrNotFound) || errors.Is(err, errUnusable)
}

func makeKey(key any) (string, error) {
	if keyable, ok := key.(Keyable); ok {
		return keyable.Key()
	}

	// Naive way to obtain string from a value with an unknown type.
	return fmt.Sprintf("%v", key), nil
}

func DefaultPreActionErrorHandler[A any](ctx context.Context, args PreActionErrorHandlerArgs[A]) (A, error) {
	// Allow the action to execute in case of errors made when hitting the store.
	// Does not store the result.
	result, err := args.Action(ctx)
	if err != nil {
		var zero A
		return zero, err
	}

	return result.Value, nil
}

func DefaultPostActionErrorHandler[A any](ctx context.Context, args PostActionErrorHandlerArgs[A]) (A, error) {
	// Ignore error and immediately return value without error.
	return args.Result.Value, nil
}
