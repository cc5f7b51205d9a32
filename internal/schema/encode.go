package schema

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EncodeDeterministic marshals a normalized document tree to YAML with
// mapping keys sorted at every level. yaml.Marshal of a plain map walks
// it in random order; building the node tree by hand is what makes two
// appends of the same content produce identical files.
func EncodeDeterministic(doc map[string]any) ([]byte, error) {
	node, err := buildNode(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return data, nil
}

func buildNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(val, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(val, 'g', -1, 64)}, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range val {
			n, err := buildNode(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			n, err := buildNode(val[k])
			if err != nil {
				return nil, fmt.Errorf("%q: %w", k, err)
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				n,
			)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T (normalize first)", v)
	}
}
