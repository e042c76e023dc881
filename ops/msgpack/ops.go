package msgpack

import (
	"bytes"
	"fmt"
	"iter"
	"slices"

	"github.com/pwnedgod/codecable/ops"
	"github.com/pwnedgod/codecable/ops/json"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

type msgpackOps struct {
}

// New returns the MessagePack format. Native values are single encoded
// MessagePack items. Lists and maps are split into their raw items, so entries
// handed to diagnostics are the exact input bytes.
func New() ops.Format[msgpack.RawMessage] {
	return &msgpackOps{}
}

var nilRaw = msgpack.RawMessage{msgpcode.Nil}

func (o msgpackOps) Kind(v msgpack.RawMessage) ops.Kind {
	if len(v) == 0 {
		return ops.KindEmpty
	}

	c := v[0]
	switch {
	case c == msgpcode.Nil:
		return ops.KindEmpty
	case c == msgpcode.False || c == msgpcode.True:
		return ops.KindBool
	case msgpcode.IsFixedNum(c), c >= msgpcode.Uint8 && c <= msgpcode.Int64:
		return ops.KindInt
	case c == msgpcode.Float || c == msgpcode.Double:
		return ops.KindFloat
	case msgpcode.IsString(c):
		return ops.KindString
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		return ops.KindList
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		return ops.KindMap
	}
	return -1
}

func (o msgpackOps) Empty() msgpack.RawMessage {
	return nilRaw
}

func (o msgpackOps) CreateString(s string) msgpack.RawMessage {
	return mustMarshal(s)
}

func (o msgpackOps) GetString(v msgpack.RawMessage) (string, error) {
	if o.Kind(v) != ops.KindString {
		return "", o.wrongType("string", v)
	}

	var s string
	if err := msgpack.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return s, nil
}

func (o msgpackOps) CreateInt(n int64) msgpack.RawMessage {
	return mustMarshal(n)
}

func (o msgpackOps) GetInt(v msgpack.RawMessage) (int64, error) {
	if o.Kind(v) != ops.KindInt {
		return 0, o.wrongType("int", v)
	}

	var n int64
	if err := msgpack.Unmarshal(v, &n); err != nil {
		return 0, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return n, nil
}

func (o msgpackOps) CreateFloat(f float64) msgpack.RawMessage {
	return mustMarshal(f)
}

func (o msgpackOps) GetFloat(v msgpack.RawMessage) (float64, error) {
	switch o.Kind(v) {
	case ops.KindInt:
		n, err := o.GetInt(v)
		return float64(n), err
	case ops.KindFloat:
		var f float64
		if err := msgpack.Unmarshal(v, &f); err != nil {
			return 0, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
		}
		return f, nil
	}
	return 0, o.wrongType("float", v)
}

func (o msgpackOps) CreateBool(b bool) msgpack.RawMessage {
	return mustMarshal(b)
}

func (o msgpackOps) GetBool(v msgpack.RawMessage) (bool, error) {
	if o.Kind(v) != ops.KindBool {
		return false, o.wrongType("bool", v)
	}
	return v[0] == msgpcode.True, nil
}

func (o msgpackOps) CreateList(values []msgpack.RawMessage) msgpack.RawMessage {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	// Writes into a bytes.Buffer cannot fail.
	_ = enc.EncodeArrayLen(len(values))
	for _, v := range values {
		_ = enc.Encode(normalize(v))
	}
	return buf.Bytes()
}

func (o msgpackOps) GetList(v msgpack.RawMessage) (iter.Seq[msgpack.RawMessage], error) {
	if o.Kind(v) != ops.KindList {
		return nil, fmt.Errorf("%w: %s", ops.ErrNotList, o.Stringify(v))
	}

	dec := msgpack.NewDecoder(bytes.NewReader(v))
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}

	// Every item takes at least one byte.
	if n > len(v) {
		return nil, fmt.Errorf("%w: %d list elements in %d bytes", ops.ErrMalformed, n, len(v))
	}

	var values []msgpack.RawMessage
	for i := 0; i < n; i++ {
		raw, err := dec.DecodeRaw()
		if err != nil {
			return nil, fmt.Errorf("%w: list element %d: %s", ops.ErrMalformed, i, err.Error())
		}
		values = append(values, raw)
	}
	return slices.Values(values), nil
}

func (o msgpackOps) CreateMap(pairs []ops.Pair[msgpack.RawMessage]) msgpack.RawMessage {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	_ = enc.EncodeMapLen(len(pairs))
	for _, p := range pairs {
		_ = enc.Encode(normalize(p.Key))
		_ = enc.Encode(normalize(p.Value))
	}
	return buf.Bytes()
}

func (o msgpackOps) GetMap(v msgpack.RawMessage) (iter.Seq2[msgpack.RawMessage, msgpack.RawMessage], error) {
	if o.Kind(v) != ops.KindMap {
		return nil, fmt.Errorf("%w: %s", ops.ErrNotMap, o.Stringify(v))
	}

	dec := msgpack.NewDecoder(bytes.NewReader(v))
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}

	if n > len(v)/2 {
		return nil, fmt.Errorf("%w: %d map entries in %d bytes", ops.ErrMalformed, n, len(v))
	}

	var pairs []ops.Pair[msgpack.RawMessage]
	for i := 0; i < n; i++ {
		key, err := dec.DecodeRaw()
		if err != nil {
			return nil, fmt.Errorf("%w: map key %d: %s", ops.ErrMalformed, i, err.Error())
		}
		value, err := dec.DecodeRaw()
		if err != nil {
			return nil, fmt.Errorf("%w: map value %d: %s", ops.ErrMalformed, i, err.Error())
		}
		pairs = append(pairs, ops.Pair[msgpack.RawMessage]{Key: key, Value: value})
	}

	return func(yield func(msgpack.RawMessage, msgpack.RawMessage) bool) {
		for _, p := range pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}, nil
}

func (o msgpackOps) MergeToList(prefix msgpack.RawMessage, values ...msgpack.RawMessage) (msgpack.RawMessage, error) {
	if o.Kind(prefix) == ops.KindEmpty {
		return o.CreateList(values), nil
	}

	seq, err := o.GetList(prefix)
	if err != nil {
		return prefix, err
	}
	return o.CreateList(append(slices.Collect(seq), values...)), nil
}

func (o msgpackOps) MergeToMap(prefix msgpack.RawMessage, pairs ...ops.Pair[msgpack.RawMessage]) (msgpack.RawMessage, error) {
	if o.Kind(prefix) == ops.KindEmpty {
		return o.CreateMap(pairs), nil
	}

	existing, err := ops.Entries[msgpack.RawMessage](o, prefix)
	if err != nil {
		return prefix, err
	}
	return o.CreateMap(append(existing, pairs...)), nil
}

func (o msgpackOps) CompressMaps() bool {
	return false
}

// Stringify renders v as JSON so binary entries stay readable in diagnostics.
func (o msgpackOps) Stringify(v msgpack.RawMessage) string {
	jsonOps := json.New()
	converted, err := ops.Convert[msgpack.RawMessage, any](o, jsonOps, v)
	if err != nil {
		return fmt.Sprintf("<msgpack %x>", []byte(v))
	}
	return jsonOps.Stringify(converted)
}

func (o msgpackOps) Marshal(v msgpack.RawMessage) ([]byte, error) {
	return slices.Clone(normalize(v)), nil
}

func (o msgpackOps) Unmarshal(data []byte) (msgpack.RawMessage, error) {
	raw, err := msgpack.NewDecoder(bytes.NewReader(data)).DecodeRaw()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return raw, nil
}

func (o msgpackOps) wrongType(expected string, v msgpack.RawMessage) error {
	return fmt.Errorf("%w: not a %s: %s", ops.ErrWrongType, expected, o.Stringify(v))
}

func normalize(v msgpack.RawMessage) msgpack.RawMessage {
	if len(v) == 0 {
		return nilRaw
	}
	return v
}

func mustMarshal(v any) msgpack.RawMessage {
	data, err := msgpack.Marshal(v)
	if err != nil {
		panic("msgpack: encoding primitive failed: " + err.Error())
	}
	return data
}
