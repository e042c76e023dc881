package codecable_test

import (
	"testing"

	"github.com/pwnedgod/codecable"
	"github.com/pwnedgod/codecable/ops"
	"github.com/pwnedgod/codecable/ops/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJSON(t *testing.T, s string) any {
	t.Helper()

	v, err := json.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func bucket[T any](t *testing.T, err error, o ops.Ops[T], name string) string {
	t.Helper()

	var cerr *codecable.CollectionError[T]
	require.ErrorAs(t, err, &cerr)

	v, ok := cerr.Diagnostics.Get(name)
	require.True(t, ok, "missing bucket %q", name)
	return o.Stringify(v)
}

func diagnostics[T any](t *testing.T, err error) *codecable.Diagnostics[T] {
	t.Helper()

	var cerr *codecable.CollectionError[T]
	require.ErrorAs(t, err, &cerr)
	return cerr.Diagnostics
}

func TestSetCodec_Decode(t *testing.T) {
	o := json.New()

	cases := []struct {
		name            string
		input           string
		options         []codecable.Option
		expectedStatus  codecable.Status
		expectedValue   codecable.Set[string]
		expectedBuckets map[string]string
	}{
		{
			name:           "clean",
			input:          `["test1", "test2", "test3", "test4"]`,
			expectedStatus: codecable.StatusSuccess,
			expectedValue:  codecable.NewSet("test1", "test2", "test3", "test4"),
		},
		{
			name:           "dropped duplicate",
			input:          `["test1", "test1", "test3", "test4"]`,
			expectedStatus: codecable.StatusPartial,
			expectedValue:  codecable.NewSet("test1", "test3", "test4"),
			expectedBuckets: map[string]string{
				codecable.BucketDuplicates: `["test1"]`,
			},
		},
		{
			name:           "failed duplicate",
			input:          `["test1", "test1", "test3", "test4"]`,
			options:        []codecable.Option{codecable.WithFailOnDuplicate(true)},
			expectedStatus: codecable.StatusFailure,
			expectedValue:  codecable.NewSet("test1", "test3", "test4"),
			expectedBuckets: map[string]string{
				codecable.BucketFailed:     `["test1"]`,
				codecable.BucketDuplicates: `["test1"]`,
			},
		},
		{
			name:  "failed duplicate stops",
			input: `["test1", "test1", "test3", "test4"]`,
			options: []codecable.Option{
				codecable.WithFailOnDuplicate(true),
				codecable.WithStopOnFirstFailure(true),
			},
			expectedStatus: codecable.StatusFailure,
			expectedValue:  codecable.NewSet("test1"),
			expectedBuckets: map[string]string{
				codecable.BucketFailed:     `["test1"]`,
				codecable.BucketDuplicates: `["test1"]`,
				codecable.BucketUnread:     `["test3","test4"]`,
			},
		},
		{
			name:  "dropped duplicate does not stop",
			input: `["test1", "test1", "test3", "test4"]`,
			options: []codecable.Option{
				codecable.WithStopOnFirstFailure(true),
			},
			expectedStatus: codecable.StatusPartial,
			expectedValue:  codecable.NewSet("test1", "test3", "test4"),
			expectedBuckets: map[string]string{
				codecable.BucketDuplicates: `["test1"]`,
			},
		},
		{
			name:           "wrong element type",
			input:          `["test1", 4, "test3", "test4"]`,
			expectedStatus: codecable.StatusFailure,
			expectedValue:  codecable.NewSet("test1", "test3", "test4"),
			expectedBuckets: map[string]string{
				codecable.BucketFailed: `[4]`,
			},
		},
		{
			name:           "wrong element type stops",
			input:          `["test1", 4, "test3", "test4"]`,
			options:        []codecable.Option{codecable.WithStopOnFirstFailure(true)},
			expectedStatus: codecable.StatusFailure,
			expectedValue:  codecable.NewSet("test1"),
			expectedBuckets: map[string]string{
				codecable.BucketFailed: `[4]`,
				codecable.BucketUnread: `["test3","test4"]`,
			},
		},
		{
			name:           "failures and duplicates",
			input:          `[1, "a", {"x": 1}, "a", "b"]`,
			expectedStatus: codecable.StatusFailure,
			expectedValue:  codecable.NewSet("a", "b"),
			expectedBuckets: map[string]string{
				codecable.BucketFailed:     `[1,{"x":1}]`,
				codecable.BucketDuplicates: `["a"]`,
			},
		},
		{
			name:           "empty",
			input:          `[]`,
			expectedStatus: codecable.StatusSuccess,
			expectedValue:  codecable.NewSet[string](),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			codec := codecable.SetOf(codecable.String[any](), c.options...)

			r := codec.Decode(o, parseJSON(t, c.input))
			assert.Equal(t, c.expectedStatus, r.Status())

			value, ok := r.Partial()
			require.True(t, ok)
			assert.Equal(t, c.expectedValue, value)

			if len(c.expectedBuckets) == 0 {
				assert.NoError(t, r.Err())
				return
			}

			d := diagnostics[any](t, r.Err())
			assert.Len(t, d.Names(), len(c.expectedBuckets))
			for name, expected := range c.expectedBuckets {
				assert.Equal(t, expected, bucket[any](t, r.Err(), o, name), name)
			}
		})
	}
}

func TestSetCodec_DecodeNotAList(t *testing.T) {
	codec := codecable.SetOf(codecable.String[any]())

	r := codec.Decode(json.New(), parseJSON(t, `{"a": 1}`))
	assert.True(t, r.IsFailure())
	assert.ErrorIs(t, r.Err(), ops.ErrNotList)

	_, ok := r.Partial()
	assert.False(t, ok)
}

func TestSetCodec_ErrorMessage(t *testing.T) {
	codec := codecable.SetOf(codecable.String[any]())

	r := codec.Decode(json.New(), parseJSON(t, `["test1", "test1"]`))
	assert.EqualError(t, r.Err(), `set: codecable: duplicate element: "test1"; duplicates: ["test1"]`)
	assert.ErrorIs(t, r.Err(), codecable.ErrDuplicate)
}

func TestSetCodec_Encode(t *testing.T) {
	o := json.New()
	codec := codecable.SetOf(codecable.String[any]())

	encoded, err := codecable.EncodeStart[codecable.Set[string], any](codec, codecable.NewSet("a", "b", "c"), o).Get()
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"a", "b", "c"}, encoded)

	merged, err := codec.Encode(codecable.NewSet("b"), o, []any{"a"}).Get()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, merged)

	r := codec.Encode(codecable.NewSet("b"), o, "not a list")
	assert.True(t, r.IsFailure())
	assert.ErrorIs(t, r.Err(), ops.ErrNotList)
}

func TestSetCodec_EncodeFailure(t *testing.T) {
	o := json.New()
	colors := codecable.Enum[string, any](func(s string) string { return s }, "red", "green")
	codec := codecable.SetOf[string, any](colors)

	r := codecable.EncodeStart[codecable.Set[string], any](codec, codecable.NewSet("red", "blue"), o)
	assert.True(t, r.IsFailure())
	assert.ErrorIs(t, r.Err(), codecable.ErrUnknownEnum)
}

func TestSetCodec_Nested(t *testing.T) {
	o := json.New()
	codec := codecable.UnboundedMapOf(codecable.String[any](), codecable.Codec[codecable.Set[string], any](codecable.SetOf(codecable.String[any]())))

	r := codec.Decode(o, parseJSON(t, `{"a": ["x", "x"], "b": ["y", 1], "c": 2}`))
	assert.True(t, r.IsFailure())

	value, ok := r.Partial()
	require.True(t, ok)
	assert.Equal(t, map[string]codecable.Set[string]{
		"a": codecable.NewSet("x"),
	}, value)
	assert.Equal(t, `{"b":["y",1],"c":2}`, bucket[any](t, r.Err(), o, codecable.BucketFailed))
}

func TestSetCodec_EqualIgnoresPolicy(t *testing.T) {
	a := codecable.SetOf(codecable.String[any]())
	b := codecable.SetOf(codecable.String[any](), codecable.WithFailOnDuplicate(true), codecable.WithStopOnFirstFailure(true))
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))

	red := codecable.Enum[string, any](func(s string) string { return s }, "red")
	blue := codecable.Enum[string, any](func(s string) string { return s }, "blue")
	assert.False(t, codecable.SetOf[string, any](red).Equal(codecable.SetOf[string, any](blue)))
	assert.False(t, a.Equal("SetCodec"))

	assert.Equal(t, "SetCodec[String]", a.String())
}
