package cbor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/pwnedgod/codecable/ops"
)

const (
	majorUint   byte = 0
	majorNegInt byte = 1
	majorText   byte = 3
	majorArray  byte = 4
	majorMap    byte = 5
	majorSimple byte = 7

	simpleFalse     byte = 20
	simpleTrue      byte = 21
	simpleNull      byte = 22
	simpleUndefined byte = 23

	aiFloat16    byte = 25
	aiFloat32    byte = 26
	aiFloat64    byte = 27
	aiIndefinite byte = 31

	breakCode byte = 0xff
)

// appendHead writes the initial byte and argument of a data item.
func appendHead(buf []byte, major byte, n uint64) []byte {
	m := major << 5
	switch {
	case n < 24:
		return append(buf, m|byte(n))
	case n <= math.MaxUint8:
		return append(buf, m|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(buf, m|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(buf, m|26), uint32(n))
	}
	return binary.BigEndian.AppendUint64(append(buf, m|27), n)
}

// readHead parses the argument of the container at the start of data. For
// indefinite-length containers indefinite is true and n is zero.
func readHead(data []byte) (n uint64, indefinite bool, rest []byte, err error) {
	if len(data) == 0 {
		return 0, false, nil, fmt.Errorf("%w: empty CBOR item", ops.ErrMalformed)
	}

	ai := data[0] & 0x1f
	rest = data[1:]

	switch {
	case ai < 24:
		return uint64(ai), false, rest, nil
	case ai == aiIndefinite:
		return 0, true, rest, nil
	case ai > 27:
		return 0, false, nil, fmt.Errorf("%w: reserved additional information %d", ops.ErrMalformed, ai)
	}

	size := 1 << (ai - 24)
	if len(rest) < size {
		return 0, false, nil, fmt.Errorf("%w: truncated CBOR head", ops.ErrMalformed)
	}

	switch size {
	case 1:
		n = uint64(rest[0])
	case 2:
		n = uint64(binary.BigEndian.Uint16(rest))
	case 4:
		n = uint64(binary.BigEndian.Uint32(rest))
	default:
		n = binary.BigEndian.Uint64(rest)
	}
	return n, false, rest[size:], nil
}

// readItems splits the content of an array (per = 1) or map (per = 2) into
// its raw data items.
func readItems(data []byte, per uint64) ([]cbor.RawMessage, error) {
	n, indefinite, rest, err := readHead(data)
	if err != nil {
		return nil, err
	}
	// Every item takes at least one byte.
	if !indefinite && n > uint64(len(rest))/per {
		return nil, fmt.Errorf("%w: truncated CBOR container", ops.ErrMalformed)
	}

	var items []cbor.RawMessage
	for i := uint64(0); indefinite || i < n*per; i++ {
		if indefinite && len(rest) > 0 && rest[0] == breakCode {
			break
		}
		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: truncated CBOR container", ops.ErrMalformed)
		}

		var item cbor.RawMessage
		rest, err = decMode.UnmarshalFirst(rest, &item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %s", ops.ErrMalformed, i, err.Error())
		}
		items = append(items, item)
	}

	if uint64(len(items))%per != 0 {
		return nil, fmt.Errorf("%w: odd number of map items", ops.ErrMalformed)
	}
	return items, nil
}
