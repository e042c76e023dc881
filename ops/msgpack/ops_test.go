package msgpack_test

import (
	"testing"

	"github.com/pwnedgod/codecable/ops"
	"github.com/pwnedgod/codecable/ops/msgpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vmsgpack "github.com/vmihailenco/msgpack/v5"
)

func marshal(t *testing.T, v any) vmsgpack.RawMessage {
	t.Helper()

	data, err := vmsgpack.Marshal(v)
	require.NoError(t, err)

	raw, err := msgpack.New().Unmarshal(data)
	require.NoError(t, err)
	return raw
}

func TestOps_Kind(t *testing.T) {
	o := msgpack.New()

	cases := []struct {
		value    any
		expected ops.Kind
	}{
		{nil, ops.KindEmpty},
		{true, ops.KindBool},
		{7, ops.KindInt},
		{-7, ops.KindInt},
		{uint8(200), ops.KindInt},
		{int64(1) << 40, ops.KindInt},
		{1.5, ops.KindFloat},
		{float32(1.5), ops.KindFloat},
		{"x", ops.KindString},
		{[]int{1}, ops.KindList},
		{map[string]int{"a": 1}, ops.KindMap},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, o.Kind(marshal(t, c.value)), "%#v", c.value)
	}
	assert.Equal(t, ops.KindEmpty, o.Kind(nil))
}

func TestOps_Primitives(t *testing.T) {
	o := msgpack.New()

	n, err := o.GetInt(marshal(t, uint8(200)))
	require.NoError(t, err)
	assert.Equal(t, int64(200), n)

	n, err = o.GetInt(o.CreateInt(-3))
	require.NoError(t, err)
	assert.Equal(t, int64(-3), n)

	f, err := o.GetFloat(marshal(t, float32(1.5)))
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	s, err := o.GetString(o.CreateString("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = o.GetBool(o.CreateString("true"))
	assert.ErrorIs(t, err, ops.ErrWrongType)
}

func TestOps_Collections(t *testing.T) {
	o := msgpack.New()

	m := o.CreateMap([]ops.Pair[vmsgpack.RawMessage]{
		{Key: o.CreateString("a"), Value: o.CreateInt(1)},
		{Key: o.CreateString("a"), Value: o.CreateList([]vmsgpack.RawMessage{o.CreateString("x"), nil})},
	})

	pairs, err := ops.Entries[vmsgpack.RawMessage](o, m)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, o.CreateString("a"), pairs[1].Key)

	assert.Equal(t, `{"a":1}`, o.Stringify(o.CreateMap(pairs[:1])))
	assert.Equal(t, `["x",null]`, o.Stringify(pairs[1].Value))

	_, err = o.GetList(m)
	assert.ErrorIs(t, err, ops.ErrNotList)

	_, err = o.GetMap(pairs[1].Value)
	assert.ErrorIs(t, err, ops.ErrNotMap)
}

func TestOps_Merge(t *testing.T) {
	o := msgpack.New()

	list, err := o.MergeToList(nil, o.CreateInt(1))
	require.NoError(t, err)
	list, err = o.MergeToList(list, o.CreateInt(2))
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, o.Stringify(list))

	_, err = o.MergeToList(o.CreateInt(1), o.CreateInt(2))
	assert.ErrorIs(t, err, ops.ErrNotList)
}

func TestOps_OversizedLength(t *testing.T) {
	o := msgpack.New()

	cases := []struct {
		name  string
		input vmsgpack.RawMessage
	}{
		{"array32 header only", vmsgpack.RawMessage{0xdd, 0xff, 0xff, 0xff, 0xff}},
		{"truncated fixarray", vmsgpack.RawMessage{0x93, 0x01}},
		{"map32 header only", vmsgpack.RawMessage{0xdf, 0xff, 0xff, 0xff, 0xff}},
		{"truncated fixmap", vmsgpack.RawMessage{0x82, 0x01, 0x01, 0x02}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var err error
			if o.Kind(c.input) == ops.KindMap {
				_, err = o.GetMap(c.input)
			} else {
				_, err = o.GetList(c.input)
			}
			assert.ErrorIs(t, err, ops.ErrMalformed)
		})
	}
}

func TestFormat_Unmarshal(t *testing.T) {
	o := msgpack.New()

	v := marshal(t, map[string]any{"x": []any{"a", 1}})
	data, err := o.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, []byte(v), data)
	assert.Equal(t, `{"x":["a",1]}`, o.Stringify(v))

	_, err = o.Unmarshal(nil)
	assert.ErrorIs(t, err, ops.ErrMalformed)
}
