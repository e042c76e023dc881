package codecable_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/pwnedgod/codecable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errFirst  = errors.New("first")
	errSecond = errors.New("second")
)

func TestResult_States(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := codecable.Success(1)
		assert.Equal(t, codecable.StatusSuccess, r.Status())
		assert.True(t, r.IsSuccess())
		assert.False(t, r.IsFailure())
		assert.NoError(t, r.Err())

		v, ok := r.Value()
		assert.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("partial", func(t *testing.T) {
		r := codecable.SuccessWithError(2, errFirst)
		assert.Equal(t, codecable.StatusPartial, r.Status())
		assert.False(t, r.IsSuccess())
		assert.False(t, r.IsFailure())

		v, ok := r.Value()
		assert.True(t, ok)
		assert.Equal(t, 2, v)
		assert.ErrorIs(t, r.Err(), errFirst)
	})

	t.Run("partial without error", func(t *testing.T) {
		assert.True(t, codecable.SuccessWithError(2, nil).IsSuccess())
	})

	t.Run("failure", func(t *testing.T) {
		r := codecable.Failure[int](errFirst)
		assert.True(t, r.IsFailure())

		_, ok := r.Value()
		assert.False(t, ok)
		_, ok = r.Partial()
		assert.False(t, ok)
	})

	t.Run("failure with partial", func(t *testing.T) {
		r := codecable.FailureWithPartial(3, errFirst)
		assert.True(t, r.IsFailure())

		_, ok := r.Value()
		assert.False(t, ok)

		v, ok := r.Partial()
		assert.True(t, ok)
		assert.Equal(t, 3, v)

		v, err := r.Get()
		assert.Equal(t, 3, v)
		assert.ErrorIs(t, err, errFirst)
	})

	assert.Equal(t, "success", codecable.StatusSuccess.String())
	assert.Equal(t, "partial", codecable.StatusPartial.String())
	assert.Equal(t, "failure", codecable.StatusFailure.String())
}

func TestResult_Map(t *testing.T) {
	double := func(n int) int { return n * 2 }

	r := codecable.Map(codecable.SuccessWithError(2, errFirst), double)
	assert.Equal(t, codecable.StatusPartial, r.Status())
	v, _ := r.Partial()
	assert.Equal(t, 4, v)

	r = codecable.Map(codecable.FailureWithPartial(3, errFirst), double)
	assert.True(t, r.IsFailure())
	v, ok := r.Partial()
	assert.True(t, ok)
	assert.Equal(t, 6, v)

	r = codecable.Map(codecable.Failure[int](errFirst), double)
	_, ok = r.Partial()
	assert.False(t, ok)
}

func TestResult_FlatMap(t *testing.T) {
	parse := func(s string) codecable.Result[int] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return codecable.Failure[int](err)
		}
		return codecable.Success(n)
	}

	r := codecable.FlatMap(codecable.Success("4"), parse)
	require.True(t, r.IsSuccess())

	r = codecable.FlatMap(codecable.SuccessWithError("4", errFirst), parse)
	assert.Equal(t, codecable.StatusPartial, r.Status())
	assert.ErrorIs(t, r.Err(), errFirst)

	r = codecable.FlatMap(codecable.SuccessWithError("x", errFirst), parse)
	assert.True(t, r.IsFailure())
	assert.ErrorIs(t, r.Err(), errFirst)
	assert.ErrorIs(t, r.Err(), strconv.ErrSyntax)

	// A partial of a failure is carried on but the outcome stays a failure.
	r = codecable.FlatMap(codecable.FailureWithPartial("5", errFirst), parse)
	assert.True(t, r.IsFailure())
	v, ok := r.Partial()
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	r = codecable.FlatMap(codecable.Failure[string](errFirst), parse)
	assert.True(t, r.IsFailure())
	_, ok = r.Partial()
	assert.False(t, ok)
}

func TestResult_Apply2(t *testing.T) {
	sum := func(a, b int) int { return a + b }

	r := codecable.Apply2(codecable.Success(1), codecable.Success(2), sum)
	v, err := r.Get()
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	r = codecable.Apply2(codecable.SuccessWithError(1, errFirst), codecable.Success(2), sum)
	assert.Equal(t, codecable.StatusPartial, r.Status())

	r = codecable.Apply2(codecable.Failure[int](errFirst), codecable.Failure[int](errSecond), sum)
	assert.True(t, r.IsFailure())
	assert.EqualError(t, r.Err(), "first; second")
	assert.ErrorIs(t, r.Err(), errFirst)
	assert.ErrorIs(t, r.Err(), errSecond)
	_, ok := r.Partial()
	assert.False(t, ok)

	r = codecable.Apply2(codecable.FailureWithPartial(1, errFirst), codecable.Success(2), sum)
	assert.True(t, r.IsFailure())
	v, ok = r.Partial()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}
