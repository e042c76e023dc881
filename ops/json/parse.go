package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pwnedgod/codecable/ops"
	"github.com/tidwall/jsonc"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Parse reads a single JSON document into its native representation. Comments
// and trailing commas are accepted. Objects keep their member order and
// numbers are kept as json.Number. A repeated member name keeps the position
// of its first occurrence and the value of its last, so codecs never see the
// repeat; use the yaml format when repeated keys must be reported.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ops.ErrMalformed)
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			list := make([]any, 0)
			for dec.More() {
				e, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, e)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
			}
			return list, nil

		case '{':
			obj := orderedmap.New[string, any]()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("%w: object key %v", ops.ErrMalformed, keyTok)
				}

				e, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, e)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
			}
			return obj, nil
		}
		return nil, fmt.Errorf("%w: unexpected %v", ops.ErrMalformed, t)

	default:
		// string, bool, json.Number or nil
		return t, nil
	}
}
