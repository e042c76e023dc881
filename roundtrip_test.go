package codecable_test

import (
	"testing"

	"github.com/pwnedgod/codecable"
	"github.com/pwnedgod/codecable/ops"
	"github.com/pwnedgod/codecable/ops/cbor"
	"github.com/pwnedgod/codecable/ops/json"
	"github.com/pwnedgod/codecable/ops/msgpack"
	"github.com/pwnedgod/codecable/ops/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip encodes value, moves it through bytes and decodes it again.
func roundTrip[A, T any](t *testing.T, f ops.Format[T], c codecable.Codec[A, T], value A) A {
	t.Helper()

	native, err := codecable.EncodeStart[A, T](c, value, f).Get()
	require.NoError(t, err)

	data, err := f.Marshal(native)
	require.NoError(t, err)

	parsed, err := f.Unmarshal(data)
	require.NoError(t, err)

	r := c.Decode(f, parsed)
	require.True(t, r.IsSuccess(), "decode: %v", r.Err())

	decoded, _ := r.Value()
	return decoded
}

func testRoundTrips[T any](t *testing.T, f ops.Format[T]) {
	t.Run("set", func(t *testing.T) {
		value := codecable.NewSet("test1", "test2", "test3")
		assert.Equal(t, value, roundTrip[codecable.Set[string], T](t, f, codecable.SetOf(codecable.String[T]()), value))
	})

	t.Run("map", func(t *testing.T) {
		value := map[string]int{"a": 1, "b": -2, "c": 1 << 40}
		assert.Equal(t, value, roundTrip[map[string]int, T](t, f, codecable.UnboundedMapOf(codecable.String[T](), codecable.Int[T]()), value))
	})

	t.Run("simple map", func(t *testing.T) {
		codec := codecable.SimpleMapOf(codecable.String[T](), codecable.Float64[T](), codecable.StringKeys[T]("x", "y", "z"))
		value := map[string]float64{"x": 1.5, "z": -0.25}
		assert.Equal(t, value, roundTrip[map[string]float64, T](t, f, codec, value))
	})

	t.Run("bimap", func(t *testing.T) {
		value, err := codecable.BiMapOf(map[string]int{"one": 1, "two": 2})
		require.NoError(t, err)

		codec := codecable.UnboundedBiMapOf(codecable.String[T](), codecable.Int[T]())
		assert.Equal(t, value.Map(), roundTrip[*codecable.BiMap[string, int], T](t, f, codec, value).Map())
	})

	t.Run("list map", func(t *testing.T) {
		value := map[int]bool{1: true, 2: false}
		assert.Equal(t, value, roundTrip[map[int]bool, T](t, f, codecable.ListMapOf(codecable.Int[T](), codecable.Bool[T]()), value))
	})

	t.Run("key list map", func(t *testing.T) {
		value := map[int]string{1: "odd", 2: "even", 3: "odd", 4: "even", 5: "odd"}
		assert.Equal(t, value, roundTrip[map[int]string, T](t, f, codecable.KeyListMapOf(codecable.Int[T](), codecable.String[T]()), value))
	})

	t.Run("enum", func(t *testing.T) {
		codec := codecable.SetOf[color, T](codecable.StringerEnum[color, T](red, green, blue))
		value := codecable.NewSet(red, blue)
		assert.Equal(t, value, roundTrip[codecable.Set[color], T](t, f, codec, value))
	})

	t.Run("nested", func(t *testing.T) {
		inner := codecable.Codec[codecable.Set[string], T](codecable.SetOf(codecable.String[T]()))
		codec := codecable.UnboundedMapOf(codecable.String[T](), inner)
		value := map[string]codecable.Set[string]{
			"a": codecable.NewSet("x", "y"),
			"b": codecable.NewSet[string](),
		}
		assert.Equal(t, value, roundTrip[map[string]codecable.Set[string], T](t, f, codec, value))
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("json", func(t *testing.T) { testRoundTrips[any](t, json.New()) })
	t.Run("json compressed", func(t *testing.T) { testRoundTrips[any](t, json.NewCompressed()) })
	t.Run("yaml", func(t *testing.T) { testRoundTrips(t, yaml.New()) })
	t.Run("cbor", func(t *testing.T) { testRoundTrips(t, cbor.New()) })
	t.Run("msgpack", func(t *testing.T) { testRoundTrips(t, msgpack.New()) })
}
