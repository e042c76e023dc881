package json

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/pwnedgod/codecable/ops"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the native representation of a JSON object. Member order is kept
// as read.
type Object = orderedmap.OrderedMap[string, any]

type jsonOps struct {
	compressed bool
}

// New returns the JSON format. Native values are nil, string, bool, int64,
// float64, json.Number, []any, *Object and map[string]any.
func New() ops.Format[any] {
	return &jsonOps{}
}

// NewCompressed returns the JSON format that writes key-compressible maps as
// plain value lists.
func NewCompressed() ops.Format[any] {
	return &jsonOps{compressed: true}
}

// NewObject builds an Object from alternating keys and values.
func NewObject(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("odd number of key/value arguments")
	}

	obj := orderedmap.New[string, any]()
	for i := 0; i < len(kv); i += 2 {
		obj.Set(kv[i].(string), kv[i+1])
	}
	return obj
}

func (o jsonOps) Kind(v any) ops.Kind {
	switch t := v.(type) {
	case nil:
		return ops.KindEmpty
	case string:
		return ops.KindString
	case bool:
		return ops.KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return ops.KindInt
	case float32, float64:
		return ops.KindFloat
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return ops.KindInt
		}
		return ops.KindFloat
	case []any:
		return ops.KindList
	case *Object, map[string]any:
		return ops.KindMap
	}
	return -1
}

func (o jsonOps) Empty() any {
	return nil
}

func (o jsonOps) CreateString(s string) any {
	return s
}

func (o jsonOps) GetString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", o.wrongType("string", v)
	}
	return s, nil
}

func (o jsonOps) CreateInt(n int64) any {
	return n
}

func (o jsonOps) GetInt(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case float64:
		if t == math.Trunc(t) {
			return int64(t), nil
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
	}
	return 0, o.wrongType("int", v)
}

func (o jsonOps) CreateFloat(f float64) any {
	return f
}

func (o jsonOps) GetFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, nil
		}
	default:
		if n, err := o.GetInt(v); err == nil {
			return float64(n), nil
		}
	}
	return 0, o.wrongType("float", v)
}

func (o jsonOps) CreateBool(b bool) any {
	return b
}

func (o jsonOps) GetBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, o.wrongType("bool", v)
	}
	return b, nil
}

func (o jsonOps) CreateList(values []any) any {
	list := make([]any, len(values))
	copy(list, values)
	return list
}

func (o jsonOps) GetList(v any) (iter.Seq[any], error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ops.ErrNotList, o.Stringify(v))
	}
	return slices.Values(list), nil
}

func (o jsonOps) CreateMap(pairs []ops.Pair[any]) any {
	obj := orderedmap.New[string, any]()
	for _, p := range pairs {
		obj.Set(o.keyString(p.Key), p.Value)
	}
	return obj
}

func (o jsonOps) GetMap(v any) (iter.Seq2[any, any], error) {
	switch t := v.(type) {
	case *Object:
		return func(yield func(any, any) bool) {
			for p := t.Oldest(); p != nil; p = p.Next() {
				if !yield(p.Key, p.Value) {
					return
				}
			}
		}, nil
	case map[string]any:
		// Plain Go maps carry no order; sort for determinism.
		return func(yield func(any, any) bool) {
			for _, k := range slices.Sorted(maps.Keys(t)) {
				if !yield(k, t[k]) {
					return
				}
			}
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ops.ErrNotMap, o.Stringify(v))
}

func (o jsonOps) MergeToList(prefix any, values ...any) (any, error) {
	if prefix == nil {
		return o.CreateList(values), nil
	}

	list, ok := prefix.([]any)
	if !ok {
		return prefix, fmt.Errorf("%w: cannot merge into %s", ops.ErrNotList, o.Stringify(prefix))
	}
	return append(slices.Clone(list), values...), nil
}

func (o jsonOps) MergeToMap(prefix any, pairs ...ops.Pair[any]) (any, error) {
	if prefix == nil {
		return o.CreateMap(pairs), nil
	}

	existing, err := ops.Entries[any](o, prefix)
	if err != nil {
		return prefix, fmt.Errorf("%w: cannot merge into %s", ops.ErrNotMap, o.Stringify(prefix))
	}
	return o.CreateMap(append(existing, pairs...)), nil
}

func (o jsonOps) CompressMaps() bool {
	return o.compressed
}

func (o jsonOps) Stringify(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func (o jsonOps) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (o jsonOps) Unmarshal(data []byte) (any, error) {
	return Parse(data)
}

func (o jsonOps) keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return o.Stringify(k)
}

func (o jsonOps) wrongType(expected string, v any) error {
	return fmt.Errorf("%w: not a %s: %s", ops.ErrWrongType, expected, o.Stringify(v))
}
