package yaml

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/pwnedgod/codecable/ops"
	"gopkg.in/yaml.v3"
)

const (
	tagNull  = "!!null"
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
	tagSeq   = "!!seq"
	tagMap   = "!!map"
)

type yamlOps struct {
}

// New returns the YAML format. Native values are yaml.v3 nodes, so mappings
// keep their key order and repeated keys are visible to map codecs.
func New() ops.Format[*yaml.Node] {
	return &yamlOps{}
}

// resolve unwraps documents and aliases.
func resolve(v *yaml.Node) *yaml.Node {
	for v != nil {
		switch {
		case v.Kind == yaml.DocumentNode && len(v.Content) > 0:
			v = v.Content[0]
		case v.Kind == yaml.AliasNode && v.Alias != nil:
			v = v.Alias
		default:
			return v
		}
	}
	return nil
}

func (o yamlOps) Kind(v *yaml.Node) ops.Kind {
	v = resolve(v)
	if v == nil {
		return ops.KindEmpty
	}

	switch v.Kind {
	case yaml.SequenceNode:
		return ops.KindList
	case yaml.MappingNode:
		return ops.KindMap
	case yaml.ScalarNode:
		switch v.ShortTag() {
		case tagNull:
			return ops.KindEmpty
		case tagStr:
			return ops.KindString
		case tagInt:
			return ops.KindInt
		case tagFloat:
			return ops.KindFloat
		case tagBool:
			return ops.KindBool
		}
	case yaml.DocumentNode:
		return ops.KindEmpty
	}
	return -1
}

func (o yamlOps) Empty() *yaml.Node {
	return scalar(tagNull, "null")
}

func (o yamlOps) CreateString(s string) *yaml.Node {
	return scalar(tagStr, s)
}

func (o yamlOps) GetString(v *yaml.Node) (string, error) {
	if o.Kind(v) != ops.KindString {
		return "", o.wrongType("string", v)
	}
	return resolve(v).Value, nil
}

func (o yamlOps) CreateInt(n int64) *yaml.Node {
	return scalar(tagInt, strconv.FormatInt(n, 10))
}

func (o yamlOps) GetInt(v *yaml.Node) (int64, error) {
	if o.Kind(v) != ops.KindInt {
		return 0, o.wrongType("int", v)
	}

	var n int64
	if err := resolve(v).Decode(&n); err != nil {
		return 0, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return n, nil
}

func (o yamlOps) CreateFloat(f float64) *yaml.Node {
	return scalar(tagFloat, strconv.FormatFloat(f, 'g', -1, 64))
}

func (o yamlOps) GetFloat(v *yaml.Node) (float64, error) {
	switch o.Kind(v) {
	case ops.KindInt, ops.KindFloat:
		var f float64
		if err := resolve(v).Decode(&f); err != nil {
			return 0, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
		}
		return f, nil
	}
	return 0, o.wrongType("float", v)
}

func (o yamlOps) CreateBool(b bool) *yaml.Node {
	return scalar(tagBool, strconv.FormatBool(b))
}

func (o yamlOps) GetBool(v *yaml.Node) (bool, error) {
	if o.Kind(v) != ops.KindBool {
		return false, o.wrongType("bool", v)
	}

	var b bool
	if err := resolve(v).Decode(&b); err != nil {
		return false, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	return b, nil
}

func (o yamlOps) CreateList(values []*yaml.Node) *yaml.Node {
	content := make([]*yaml.Node, 0, len(values))
	for _, v := range values {
		content = append(content, o.orEmpty(v))
	}
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq, Content: content}
}

func (o yamlOps) GetList(v *yaml.Node) (iter.Seq[*yaml.Node], error) {
	if o.Kind(v) != ops.KindList {
		return nil, fmt.Errorf("%w: %s", ops.ErrNotList, o.Stringify(v))
	}
	return slices.Values(resolve(v).Content), nil
}

func (o yamlOps) CreateMap(pairs []ops.Pair[*yaml.Node]) *yaml.Node {
	content := make([]*yaml.Node, 0, 2*len(pairs))
	for _, p := range pairs {
		content = append(content, o.orEmpty(p.Key), o.orEmpty(p.Value))
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap, Content: content}
}

func (o yamlOps) GetMap(v *yaml.Node) (iter.Seq2[*yaml.Node, *yaml.Node], error) {
	if o.Kind(v) != ops.KindMap {
		return nil, fmt.Errorf("%w: %s", ops.ErrNotMap, o.Stringify(v))
	}

	content := resolve(v).Content
	if len(content)%2 != 0 {
		return nil, fmt.Errorf("%w: odd mapping content", ops.ErrMalformed)
	}

	return func(yield func(*yaml.Node, *yaml.Node) bool) {
		for i := 0; i < len(content); i += 2 {
			if !yield(content[i], content[i+1]) {
				return
			}
		}
	}, nil
}

func (o yamlOps) MergeToList(prefix *yaml.Node, values ...*yaml.Node) (*yaml.Node, error) {
	if o.Kind(prefix) == ops.KindEmpty {
		return o.CreateList(values), nil
	}

	seq, err := o.GetList(prefix)
	if err != nil {
		return prefix, err
	}
	return o.CreateList(append(slices.Collect(seq), values...)), nil
}

func (o yamlOps) MergeToMap(prefix *yaml.Node, pairs ...ops.Pair[*yaml.Node]) (*yaml.Node, error) {
	if o.Kind(prefix) == ops.KindEmpty {
		return o.CreateMap(pairs), nil
	}

	existing, err := ops.Entries[*yaml.Node](o, prefix)
	if err != nil {
		return prefix, err
	}
	return o.CreateMap(append(existing, pairs...)), nil
}

func (o yamlOps) CompressMaps() bool {
	return false
}

// Stringify renders v as single-line flow YAML.
func (o yamlOps) Stringify(v *yaml.Node) string {
	v = resolve(v)
	if v == nil {
		return "null"
	}

	flow := *v
	flow.Style |= yaml.FlowStyle
	data, err := yaml.Marshal(&flow)
	if err != nil {
		return v.Value
	}
	return strings.TrimSpace(string(data))
}

func (o yamlOps) Marshal(v *yaml.Node) ([]byte, error) {
	return yaml.Marshal(o.orEmpty(v))
}

func (o yamlOps) Unmarshal(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ops.ErrMalformed, err.Error())
	}
	if v := resolve(&doc); v != nil && v.Kind != yaml.DocumentNode {
		return v, nil
	}
	return o.Empty(), nil
}

func (o yamlOps) orEmpty(v *yaml.Node) *yaml.Node {
	if v == nil {
		return o.Empty()
	}
	return v
}

func (o yamlOps) wrongType(expected string, v *yaml.Node) error {
	return fmt.Errorf("%w: not a %s: %s", ops.ErrWrongType, expected, o.Stringify(v))
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
