// Package schema owns the schema document: its typed in-memory form, the
// YAML file it persists to, the recursive merge that is its only write
// operation, and the structural gate fragments pass through before they
// may merge.
//
// Two representations coexist on purpose. The raw form (map[string]any)
// is what merge operates on — merge must preserve sections and rule keys
// it does not understand. The typed Document is what the validator
// consumes: enum rules are lifted out of the "<field>_enum" key
// convention at decode time, so validation never inspects key suffixes.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFragment marks a schema fragment rejected before merge. The
// schema file is untouched when this is returned.
var ErrInvalidFragment = errors.New("schema: invalid fragment")

// Document is the typed schema. All sections are optional; the zero
// value (or a missing file) validates every graph successfully.
type Document struct {
	Types         map[string]TypeRule
	Relations     map[string]RelationRule
	RelationOrder []string
	Constraints   []Constraint
}

// TypeRule constrains properties of one entity type.
type TypeRule struct {
	Required  []string
	Forbidden []string
	Enums     []EnumRule
}

// EnumRule allows a closed set of string values for one property.
// Lifted from "<field>_enum" keys in declaration order.
type EnumRule struct {
	Field   string
	Allowed []string
}

// RelationRule constrains one relation type. Cardinality keeps the
// declared spelling for error messages; use NormalizeCardinality for
// semantics.
type RelationRule struct {
	FromTypes   []string
	ToTypes     []string
	Cardinality string
	Acyclic     bool
}

// Constraint is a free-form global rule. Only the start/end date rule
// family is machine-enforced; everything else is documentation.
type Constraint struct {
	Type     string
	Relation string
	Rule     string
}

// Cardinality is the canonical cardinality form.
type Cardinality string

const (
	CardinalityOneToOne  Cardinality = "one_to_one"
	CardinalityOneToMany Cardinality = "one_to_many"
	CardinalityManyToOne Cardinality = "many_to_one"
)

// NormalizeCardinality maps declared spellings (either separator, any
// case) onto the canonical form. ok is false for anything unrecognized,
// which the validator treats as no constraint.
func NormalizeCardinality(s string) (Cardinality, bool) {
	c := Cardinality(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch c {
	case CardinalityOneToOne, CardinalityOneToMany, CardinalityManyToOne:
		return c, true
	}
	return "", false
}

// ConstrainsSource reports whether each From id may appear on at most
// one relation of the type.
func (c Cardinality) ConstrainsSource() bool {
	return c == CardinalityOneToOne || c == CardinalityManyToOne
}

// ConstrainsTarget reports whether each To id may appear on at most one
// relation of the type.
func (c Cardinality) ConstrainsTarget() bool {
	return c == CardinalityOneToOne || c == CardinalityOneToMany
}

const enumKeySuffix = "_enum"

// DecodeDocument builds the typed form from a parsed YAML node. Document
// order of the relations section and of enum keys is preserved — the
// validator's output order depends on it. Unknown sections and unknown
// rule keys are ignored here and survive on disk untouched.
func DecodeDocument(root *yaml.Node) (*Document, error) {
	doc := &Document{
		Types:     map[string]TypeRule{},
		Relations: map[string]RelationRule{},
	}

	node := root
	if node == nil || node.Kind == 0 {
		return doc, nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return doc, nil
		}
		node = node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return doc, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema document: top level is %s, want mapping", nodeKind(node))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "types":
			if err := decodeTypes(value, doc); err != nil {
				return nil, err
			}
		case "relations":
			if err := decodeRelations(value, doc); err != nil {
				return nil, err
			}
		case "constraints":
			if err := decodeConstraints(value, doc); err != nil {
				return nil, err
			}
		default:
			// unknown section, preserved on disk, nothing to decode
		}
	}
	return doc, nil
}

func decodeTypes(node *yaml.Node, doc *Document) error {
	if isNullNode(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("schema section \"types\": %s, want mapping", nodeKind(node))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		rule, err := decodeTypeRule(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
		doc.Types[name] = rule
	}
	return nil
}

func decodeTypeRule(node *yaml.Node) (TypeRule, error) {
	var rule TypeRule
	if isNullNode(node) {
		return rule, nil
	}
	if node.Kind != yaml.MappingNode {
		return rule, fmt.Errorf("rule is %s, want mapping", nodeKind(node))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch {
		case key == "required":
			if err := value.Decode(&rule.Required); err != nil {
				return rule, fmt.Errorf("required: %w", err)
			}
		case key == "forbidden_properties":
			if err := value.Decode(&rule.Forbidden); err != nil {
				return rule, fmt.Errorf("forbidden_properties: %w", err)
			}
		case strings.HasSuffix(key, enumKeySuffix) && len(key) > len(enumKeySuffix):
			var allowed []string
			if err := value.Decode(&allowed); err != nil {
				return rule, fmt.Errorf("%s: %w", key, err)
			}
			rule.Enums = append(rule.Enums, EnumRule{
				Field:   strings.TrimSuffix(key, enumKeySuffix),
				Allowed: allowed,
			})
		default:
			// free-form annotation, not a machine rule
		}
	}
	return rule, nil
}

func decodeRelations(node *yaml.Node, doc *Document) error {
	if isNullNode(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("schema section \"relations\": %s, want mapping", nodeKind(node))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		rule, err := decodeRelationRule(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("relation %q: %w", name, err)
		}
		if _, seen := doc.Relations[name]; !seen {
			doc.RelationOrder = append(doc.RelationOrder, name)
		}
		doc.Relations[name] = rule
	}
	return nil
}

func decodeRelationRule(node *yaml.Node) (RelationRule, error) {
	var rule RelationRule
	if isNullNode(node) {
		return rule, nil
	}
	if node.Kind != yaml.MappingNode {
		return rule, fmt.Errorf("rule is %s, want mapping", nodeKind(node))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "from_types":
			if err := value.Decode(&rule.FromTypes); err != nil {
				return rule, fmt.Errorf("from_types: %w", err)
			}
		case "to_types":
			if err := value.Decode(&rule.ToTypes); err != nil {
				return rule, fmt.Errorf("to_types: %w", err)
			}
		case "cardinality":
			if err := value.Decode(&rule.Cardinality); err != nil {
				return rule, fmt.Errorf("cardinality: %w", err)
			}
		case "acyclic":
			if err := value.Decode(&rule.Acyclic); err != nil {
				return rule, fmt.Errorf("acyclic: %w", err)
			}
		default:
		}
	}
	return rule, nil
}

func decodeConstraints(node *yaml.Node, doc *Document) error {
	if isNullNode(node) {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("schema section \"constraints\": %s, want sequence", nodeKind(node))
	}
	for idx, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("constraint %d: %s, want mapping", idx, nodeKind(item))
		}
		var c Constraint
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, value := item.Content[i].Value, item.Content[i+1]
			var err error
			switch key {
			case "type":
				err = value.Decode(&c.Type)
			case "relation":
				err = value.Decode(&c.Relation)
			case "rule":
				err = value.Decode(&c.Rule)
			}
			if err != nil {
				return fmt.Errorf("constraint %d: %s: %w", idx, key, err)
			}
		}
		doc.Constraints = append(doc.Constraints, c)
	}
	return nil
}

func isNullNode(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty node"
	}
}
