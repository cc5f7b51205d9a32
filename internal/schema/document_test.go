package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseDocument(t *testing.T, src string) *Document {
	t.Helper()
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &root))
	doc, err := DecodeDocument(&root)
	require.NoError(t, err)
	return doc
}

func TestDecodeDocumentFull(t *testing.T) {
	doc := parseDocument(t, `
types:
  task:
    required: [name, status]
    forbidden_properties: [password]
    status_enum: [todo, doing, done]
relations:
  blocks:
    from_types: [task]
    to_types: [task]
    acyclic: true
  assigned_to:
    from_types: [task]
    to_types: [person]
    cardinality: many_to_one
constraints:
  - type: event
    rule: end must be after start
  - relation: blocks
    rule: acyclic
`)

	task, ok := doc.Types["task"]
	require.True(t, ok)
	assert.Equal(t, []string{"name", "status"}, task.Required)
	assert.Equal(t, []string{"password"}, task.Forbidden)
	require.Len(t, task.Enums, 1)
	assert.Equal(t, "status", task.Enums[0].Field)
	assert.Equal(t, []string{"todo", "doing", "done"}, task.Enums[0].Allowed)

	blocks, ok := doc.Relations["blocks"]
	require.True(t, ok)
	assert.True(t, blocks.Acyclic)
	assert.Equal(t, []string{"task"}, blocks.FromTypes)

	assigned, ok := doc.Relations["assigned_to"]
	require.True(t, ok)
	assert.Equal(t, "many_to_one", assigned.Cardinality)

	require.Len(t, doc.Constraints, 2)
	assert.Equal(t, "event", doc.Constraints[0].Type)
	assert.Equal(t, "blocks", doc.Constraints[1].Relation)
}

func TestDecodeDocumentRelationOrder(t *testing.T) {
	doc := parseDocument(t, `
relations:
  zeta: {acyclic: true}
  alpha: {acyclic: true}
  mid: {acyclic: true}
`)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.RelationOrder,
		"relation order must follow the document, not the map")
}

func TestDecodeDocumentEnumOrder(t *testing.T) {
	doc := parseDocument(t, `
types:
  task:
    status_enum: [todo, done]
    priority_enum: [low, high]
`)

	task := doc.Types["task"]
	require.Len(t, task.Enums, 2)
	assert.Equal(t, "status", task.Enums[0].Field)
	assert.Equal(t, "priority", task.Enums[1].Field)
}

func TestDecodeDocumentBareEnumKeyNotLifted(t *testing.T) {
	// a key that is exactly "_enum" has no field name to lift
	doc := parseDocument(t, `
types:
  task:
    _enum: [a, b]
`)

	assert.Empty(t, doc.Types["task"].Enums)
}

func TestDecodeDocumentEmptyInput(t *testing.T) {
	doc := parseDocument(t, "")
	assert.Empty(t, doc.Types)
	assert.Empty(t, doc.Relations)
	assert.Empty(t, doc.Constraints)
}

func TestDecodeDocumentNullSections(t *testing.T) {
	doc := parseDocument(t, `
types:
relations:
constraints:
`)
	assert.Empty(t, doc.Types)
	assert.Empty(t, doc.Relations)
}

func TestDecodeDocumentUnknownSectionIgnored(t *testing.T) {
	doc := parseDocument(t, `
notes: free-form commentary the validator never reads
types:
  task:
    required: [name]
`)

	assert.Contains(t, doc.Types, "task")
}

func TestDecodeDocumentProseRuleKeysIgnored(t *testing.T) {
	doc := parseDocument(t, `
types:
  task:
    description: something humans read
    required: [name]
relations:
  blocks:
    description: another note
    acyclic: true
`)

	assert.Equal(t, []string{"name"}, doc.Types["task"].Required)
	assert.True(t, doc.Relations["blocks"].Acyclic)
}

func TestDecodeDocumentScalarTopLevelRejected(t *testing.T) {
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`just a string`), &root))

	_, err := DecodeDocument(&root)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mapping")
}

func TestDecodeDocumentSequenceSectionRejected(t *testing.T) {
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("types:\n  - a\n  - b\n"), &root))

	_, err := DecodeDocument(&root)
	assert.Error(t, err)
}

func TestNormalizeCardinality(t *testing.T) {
	tests := []struct {
		in   string
		want Cardinality
		ok   bool
	}{
		{"one_to_one", CardinalityOneToOne, true},
		{"one-to-one", CardinalityOneToOne, true},
		{"One_To_Many", CardinalityOneToMany, true},
		{" many_to_one ", CardinalityManyToOne, true},
		{"many-to-many", "", false},
		{"", "", false},
		{"unbounded", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeCardinality(tt.in)
		assert.Equal(t, tt.ok, ok, "ok for %q", tt.in)
		assert.Equal(t, tt.want, got, "value for %q", tt.in)
	}
}

func TestCardinalitySides(t *testing.T) {
	assert.True(t, CardinalityOneToOne.ConstrainsSource())
	assert.True(t, CardinalityOneToOne.ConstrainsTarget())

	assert.True(t, CardinalityManyToOne.ConstrainsSource())
	assert.False(t, CardinalityManyToOne.ConstrainsTarget())

	assert.False(t, CardinalityOneToMany.ConstrainsSource())
	assert.True(t, CardinalityOneToMany.ConstrainsTarget())
}
