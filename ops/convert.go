package ops

import "fmt"

// Convert re-creates v, a value of the from format, in the to format.
// Values of a kind the source cannot read back are reported as ErrMalformed.
func Convert[T, U any](from Ops[T], to Ops[U], v T) (U, error) {
	switch kind := from.Kind(v); kind {
	case KindEmpty:
		return to.Empty(), nil

	case KindString:
		s, err := from.GetString(v)
		if err != nil {
			return to.Empty(), err
		}
		return to.CreateString(s), nil

	case KindInt:
		n, err := from.GetInt(v)
		if err != nil {
			return to.Empty(), err
		}
		return to.CreateInt(n), nil

	case KindFloat:
		f, err := from.GetFloat(v)
		if err != nil {
			return to.Empty(), err
		}
		return to.CreateFloat(f), nil

	case KindBool:
		b, err := from.GetBool(v)
		if err != nil {
			return to.Empty(), err
		}
		return to.CreateBool(b), nil

	case KindList:
		seq, err := from.GetList(v)
		if err != nil {
			return to.Empty(), err
		}

		var values []U
		for e := range seq {
			c, err := Convert(from, to, e)
			if err != nil {
				return to.Empty(), err
			}
			values = append(values, c)
		}
		return to.CreateList(values), nil

	case KindMap:
		seq, err := from.GetMap(v)
		if err != nil {
			return to.Empty(), err
		}

		var pairs []Pair[U]
		for k, e := range seq {
			ck, err := Convert(from, to, k)
			if err != nil {
				return to.Empty(), err
			}
			ce, err := Convert(from, to, e)
			if err != nil {
				return to.Empty(), err
			}
			pairs = append(pairs, Pair[U]{Key: ck, Value: ce})
		}
		return to.CreateMap(pairs), nil

	default:
		return to.Empty(), fmt.Errorf("%w: unsupported kind %s", ErrMalformed, kind)
	}
}
