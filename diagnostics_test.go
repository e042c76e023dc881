package codecable_test

import (
	"bytes"
	"testing"

	"github.com/pwnedgod/codecable"
	"github.com/pwnedgod/codecable/logger/std"
	"github.com/pwnedgod/codecable/ops"
	"github.com/pwnedgod/codecable/ops/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	o := json.New()

	d := codecable.NewDiagnostics[any](o)
	assert.True(t, d.Empty())
	assert.Equal(t, "", d.String())

	d.AddList(codecable.BucketFailed, []any{int64(4)}).
		AddList(codecable.BucketDuplicates, nil).
		AddMap(codecable.BucketDuplicateKeys, []ops.Pair[any]{{Key: "a", Value: int64(2)}}).
		AddList(codecable.BucketUnread, []any{"test3", "test4"})

	assert.False(t, d.Empty())
	assert.Equal(t, []string{codecable.BucketFailed, codecable.BucketDuplicateKeys, codecable.BucketUnread}, d.Names())
	assert.Equal(t, ` failed inputs: [4], duplicate keys: {"a":2}, unread inputs: ["test3","test4"]`, d.String())

	_, ok := d.Get(codecable.BucketDuplicates)
	assert.False(t, ok)

	v, ok := d.Get(codecable.BucketUnread)
	assert.True(t, ok)
	assert.Equal(t, []any{"test3", "test4"}, v)
}

// Diagnostics of a failed decode hold every raw entry exactly once across
// the failed and unread buckets.
func TestDiagnostics_AccountForEveryEntry(t *testing.T) {
	o := json.New()
	codec := codecable.SetOf(codecable.String[any](), codecable.WithStopOnFirstFailure(true))

	r := codec.Decode(o, parseJSON(t, `["test1", 4, "test3", "test4"]`))
	assert.EqualError(t, r.Err(), `set: codecable: wrong type: not a string: 4; failed inputs: [4], unread inputs: ["test3","test4"]`)

	d := diagnostics[any](t, r.Err())
	assert.Equal(t, ` failed inputs: [4], unread inputs: ["test3","test4"]`, d.String())

	value, _ := r.Partial()
	failed, _ := d.Get(codecable.BucketFailed)
	unread, _ := d.Get(codecable.BucketUnread)
	assert.Equal(t, 4, value.Len()+len(failed.([]any))+len(unread.([]any)))
}

func TestDiagnostics_Nil(t *testing.T) {
	var d *codecable.Diagnostics[any]

	assert.True(t, d.Empty())
	assert.Nil(t, d.Names())
	assert.Equal(t, "", d.String())
	assert.Nil(t, d.Value())

	_, ok := d.Get(codecable.BucketFailed)
	assert.False(t, ok)
}

func TestDiagnostics_StableRendering(t *testing.T) {
	o := json.New()
	codec := codecable.UnboundedBiMapOf(codecable.String[any](), codecable.String[any]())
	input := `{"k1": "v1", "k2": 2, "k3": "v1", "k4": "v2", "k5": "v1", "k6": "v2"}`

	first := codec.Decode(o, parseJSON(t, input))
	second := codec.Decode(o, parseJSON(t, input))
	require.Error(t, first.Err())

	d := diagnostics[any](t, first.Err())
	rendered := d.String()
	assert.Equal(t, ` failed inputs: {"k2":2}, duplicate values: {"v1":["k1","k3","k5"],"v2":["k4","k6"]}`, rendered)
	assert.Equal(t, rendered, d.String())
	assert.Equal(t, o.Stringify(d.Value()), o.Stringify(d.Value()))

	assert.Equal(t, first.Err().Error(), first.Err().Error())
	assert.Equal(t, first.Err().Error(), second.Err().Error())
}

func TestDiagnostics_LogsBucketNames(t *testing.T) {
	var out bytes.Buffer
	l := std.NewWriterLogger(&out, &out, true)
	codec := codecable.SetOf(codecable.String[any](), codecable.WithLogger(l))

	codec.Decode(json.New(), parseJSON(t, `["a", "a"]`))
	assert.Equal(t, "DEBUG decode degraded set [duplicates]\n", out.String())

	out.Reset()
	codec.Decode(json.New(), parseJSON(t, `[1, "b"]`))
	assert.Equal(t, "DEBUG decode failed set [failed inputs]\n", out.String())

	out.Reset()
	codec.Decode(json.New(), parseJSON(t, `["a"]`))
	assert.Empty(t, out.String())
}
