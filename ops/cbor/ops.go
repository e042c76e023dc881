package cbor

import (
	"fmt"
	"iter"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/pwnedgod/codecable/ops"
)

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2): smallest integer encoding, no indefinite-length items.
// Containers are assembled by hand and keep their entry order.
var encMode cbor.EncMode

// decMode accepts standard CBOR, including indefinite-length containers.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

type cborOps struct {
}

// New returns the CBOR format. Native values are single encoded CBOR data
// items.
func New() ops.Format[cbor.RawMessage] {
	return &cborOps{}
}

var nullRaw = cbor.RawMessage{0xf6}

func (o cborOps) Kind(v cbor.RawMessage) ops.Kind {
	if len(v) == 0 {
		return ops.KindEmpty
	}

	switch major, ai := v[0]>>5, v[0]&0x1f; major {
	case majorUint, majorNegInt:
		return ops.KindInt
	case majorText:
		return ops.KindString
	case majorArray:
		return ops.KindList
	case majorMap:
		return ops.KindMap
	case majorSimple:
		switch ai {
		case simpleFalse, simpleTrue:
			return ops.KindBool
		case simpleNull, simpleUndefined:
			return ops.KindEmpty
		case aiFloat16, aiFloat32, aiFloat64:
			return ops.KindFloat
		}
	}
	return -1
}

func (o cborOps) Empty() cbor.RawMessage {
	return nullRaw
}

func (o cborOps) CreateString(s string) cbor.RawMessage {
	return mustMarshal(s)
}

func (o cborOps) GetString(v cbor.RawMessage) (string, error) {
	if o.Kind(v) != ops.KindString {
		return "", o.wrongType("string", v)
	}

	var s string
	if err := decMode.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return s, nil
}

func (o cborOps) CreateInt(n int64) cbor.RawMessage {
	return mustMarshal(n)
}

func (o cborOps) GetInt(v cbor.RawMessage) (int64, error) {
	if o.Kind(v) != ops.KindInt {
		return 0, o.wrongType("int", v)
	}

	var n int64
	if err := decMode.Unmarshal(v, &n); err != nil {
		return 0, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return n, nil
}

func (o cborOps) CreateFloat(f float64) cbor.RawMessage {
	return mustMarshal(f)
}

func (o cborOps) GetFloat(v cbor.RawMessage) (float64, error) {
	switch o.Kind(v) {
	case ops.KindInt:
		n, err := o.GetInt(v)
		return float64(n), err
	case ops.KindFloat:
		var f float64
		if err := decMode.Unmarshal(v, &f); err != nil {
			return 0, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
		}
		return f, nil
	}
	return 0, o.wrongType("float", v)
}

func (o cborOps) CreateBool(b bool) cbor.RawMessage {
	return mustMarshal(b)
}

func (o cborOps) GetBool(v cbor.RawMessage) (bool, error) {
	if o.Kind(v) != ops.KindBool {
		return false, o.wrongType("bool", v)
	}
	return v[0]&0x1f == simpleTrue, nil
}

func (o cborOps) CreateList(values []cbor.RawMessage) cbor.RawMessage {
	buf := appendHead(nil, majorArray, uint64(len(values)))
	for _, v := range values {
		buf = append(buf, normalize(v)...)
	}
	return buf
}

func (o cborOps) GetList(v cbor.RawMessage) (iter.Seq[cbor.RawMessage], error) {
	if o.Kind(v) != ops.KindList {
		return nil, fmt.Errorf("%w: %s", ops.ErrNotList, o.Stringify(v))
	}

	items, err := readItems(v, 1)
	if err != nil {
		return nil, err
	}
	return slices.Values(items), nil
}

func (o cborOps) CreateMap(pairs []ops.Pair[cbor.RawMessage]) cbor.RawMessage {
	buf := appendHead(nil, majorMap, uint64(len(pairs)))
	for _, p := range pairs {
		buf = append(buf, normalize(p.Key)...)
		buf = append(buf, normalize(p.Value)...)
	}
	return buf
}

func (o cborOps) GetMap(v cbor.RawMessage) (iter.Seq2[cbor.RawMessage, cbor.RawMessage], error) {
	if o.Kind(v) != ops.KindMap {
		return nil, fmt.Errorf("%w: %s", ops.ErrNotMap, o.Stringify(v))
	}

	items, err := readItems(v, 2)
	if err != nil {
		return nil, err
	}

	return func(yield func(cbor.RawMessage, cbor.RawMessage) bool) {
		for i := 0; i+1 < len(items); i += 2 {
			if !yield(items[i], items[i+1]) {
				return
			}
		}
	}, nil
}

func (o cborOps) MergeToList(prefix cbor.RawMessage, values ...cbor.RawMessage) (cbor.RawMessage, error) {
	if o.Kind(prefix) == ops.KindEmpty {
		return o.CreateList(values), nil
	}

	seq, err := o.GetList(prefix)
	if err != nil {
		return prefix, err
	}
	return o.CreateList(append(slices.Collect(seq), values...)), nil
}

func (o cborOps) MergeToMap(prefix cbor.RawMessage, pairs ...ops.Pair[cbor.RawMessage]) (cbor.RawMessage, error) {
	if o.Kind(prefix) == ops.KindEmpty {
		return o.CreateMap(pairs), nil
	}

	existing, err := ops.Entries[cbor.RawMessage](o, prefix)
	if err != nil {
		return prefix, err
	}
	return o.CreateMap(append(existing, pairs...)), nil
}

func (o cborOps) CompressMaps() bool {
	return false
}

// Stringify renders v in CBOR diagnostic notation (RFC 8949 §8).
func (o cborOps) Stringify(v cbor.RawMessage) string {
	diag, err := cbor.Diagnose(normalize(v))
	if err != nil {
		return fmt.Sprintf("h'%x'", []byte(v))
	}
	return diag
}

func (o cborOps) Marshal(v cbor.RawMessage) ([]byte, error) {
	return slices.Clone(normalize(v)), nil
}

func (o cborOps) Unmarshal(data []byte) (cbor.RawMessage, error) {
	var raw cbor.RawMessage
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return raw, nil
}

func (o cborOps) wrongType(expected string, v cbor.RawMessage) error {
	return fmt.Errorf("%w: not a %s: %s", ops.ErrWrongType, expected, o.Stringify(v))
}

func normalize(v cbor.RawMessage) cbor.RawMessage {
	if len(v) == 0 {
		return nullRaw
	}
	return v
}

func mustMarshal(v any) cbor.RawMessage {
	data, err := encMode.Marshal(v)
	if err != nil {
		panic("cbor: encoding primitive failed: " + err.Error())
	}
	return data
}
