package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warpz0ne/openclaw/internal/graph"
	"github.com/warpz0ne/openclaw/internal/props"
	"github.com/warpz0ne/openclaw/internal/schema"
)

var fixedTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func entityRecord(id, typ string, properties props.Object) graph.Record {
	return graph.CreateRecord{
		Entity: graph.Entity{
			ID:         id,
			Type:       typ,
			Properties: properties,
			Created:    fixedTime,
			Updated:    fixedTime,
		},
		Timestamp: fixedTime,
	}
}

func relationRecord(from, rel, to string) graph.Record {
	return graph.RelateRecord{From: from, Rel: rel, To: to, Timestamp: fixedTime}
}

func relationDoc(name string, rule schema.RelationRule) *schema.Document {
	return &schema.Document{
		Types:         map[string]schema.TypeRule{},
		Relations:     map[string]schema.RelationRule{name: rule},
		RelationOrder: []string{name},
	}
}

func TestGraphNilInputs(t *testing.T) {
	assert.Empty(t, Graph(nil, &schema.Document{}))
	assert.Empty(t, Graph(graph.Replay(nil), nil))
}

func TestGraphEmptyDocumentValidatesEverything(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{"anything": props.String("goes")}),
	})

	violations := Graph(snap, &schema.Document{})
	assert.Empty(t, violations)
}

func TestRequiredPropertyMissing(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {Required: []string{"name"}}},
	}

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeRequiredMissing, violations[0].Code)
	assert.Equal(t, "task_1: missing required property 'name'", violations[0].String())
}

func TestRequiredPropertyPresent(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{"name": props.String("Ship")}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {Required: []string{"name"}}},
	}

	assert.Empty(t, Graph(snap, doc))
}

func TestRequiredChecksOnlyPresence(t *testing.T) {
	// an explicit null satisfies required; the rule is about keys
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{"name": props.Null{}}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {Required: []string{"name"}}},
	}

	assert.Empty(t, Graph(snap, doc))
}

func TestForbiddenPropertyPresent(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("user_1", "user", props.Object{"password": props.String("hunter2")}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"user": {Forbidden: []string{"password"}}},
	}

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeForbiddenPresent, violations[0].Code)
	assert.Equal(t, "user_1: contains forbidden property 'password'", violations[0].String())
}

func TestEnumViolationNamesAllowedSetAndValue(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{"status": props.String("pending")}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {
			Enums: []schema.EnumRule{{Field: "status", Allowed: []string{"open", "closed"}}},
		}},
	}

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeEnumViolation, violations[0].Code)
	assert.Equal(t, "task_1: 'status' must be one of [open closed], got 'pending'", violations[0].String())
}

func TestEnumAllowedValuePasses(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{"status": props.String("open")}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {
			Enums: []schema.EnumRule{{Field: "status", Allowed: []string{"open", "closed"}}},
		}},
	}

	assert.Empty(t, Graph(snap, doc))
}

func TestEnumAbsentAndEmptyValuesPass(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{}),
		entityRecord("task_2", "task", props.Object{"status": props.String("")}),
		entityRecord("task_3", "task", props.Object{"status": props.Null{}}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {
			Enums: []schema.EnumRule{{Field: "status", Allowed: []string{"open", "closed"}}},
		}},
	}

	assert.Empty(t, Graph(snap, doc))
}

func TestEnumNonStringValueViolates(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", props.Object{"status": props.Int(5)}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {
			Enums: []schema.EnumRule{{Field: "status", Allowed: []string{"open", "closed"}}},
		}},
	}

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, "task_1: 'status' must be one of [open closed], got '5'", violations[0].String())
}

func TestUnknownEntityTypeSkipsPropertyChecks(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("thing_1", "thing", props.Object{"password": props.String("x")}),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{"task": {Forbidden: []string{"password"}}},
	}

	assert.Empty(t, Graph(snap, doc))
}

func TestRelationMissingEndpointReportedAndExcluded(t *testing.T) {
	// the dangling relation is reported once, and must not count toward
	// cardinality for its source
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", nil),
		entityRecord("person_1", "person", nil),
		relationRecord("task_1", "assigned_to", "ghost_1"),
		relationRecord("task_1", "assigned_to", "person_1"),
	})
	doc := relationDoc("assigned_to", schema.RelationRule{Cardinality: "one_to_one"})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeMissingEndpoint, violations[0].Code)
	assert.Equal(t, "assigned_to: relation references missing entity (task_1 -> ghost_1)", violations[0].String())
}

func TestRelationSourceTypeChecked(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("note_1", "note", nil),
		entityRecord("person_1", "person", nil),
		relationRecord("note_1", "assigned_to", "person_1"),
	})
	doc := relationDoc("assigned_to", schema.RelationRule{
		FromTypes: []string{"task"},
		ToTypes:   []string{"person"},
	})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeSourceTypeInvalid, violations[0].Code)
	assert.Equal(t, "assigned_to: from entity note_1 type note not in [task]", violations[0].String())
}

func TestRelationTargetTypeChecked(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("task_1", "task", nil),
		entityRecord("note_1", "note", nil),
		relationRecord("task_1", "assigned_to", "note_1"),
	})
	doc := relationDoc("assigned_to", schema.RelationRule{
		FromTypes: []string{"task"},
		ToTypes:   []string{"person"},
	})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeTargetTypeInvalid, violations[0].Code)
	assert.Equal(t, "assigned_to: to entity note_1 type note not in [person]", violations[0].String())
}

func TestRelationUndeclaredTypeListsUnconstrained(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "anything", nil),
		entityRecord("b", "whatever", nil),
		relationRecord("a", "links", "b"),
	})
	doc := relationDoc("links", schema.RelationRule{})

	assert.Empty(t, Graph(snap, doc))
}

func TestCardinalityOneToManyAllowsFanOut(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("x", "task", nil),
		entityRecord("y", "person", nil),
		entityRecord("z", "person", nil),
		relationRecord("x", "assigned_to", "y"),
		relationRecord("x", "assigned_to", "z"),
	})
	doc := relationDoc("assigned_to", schema.RelationRule{Cardinality: "one_to_many"})

	assert.Empty(t, Graph(snap, doc))
}

func TestCardinalityOneToManyRejectsSharedTarget(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("x", "task", nil),
		entityRecord("a", "task", nil),
		entityRecord("y", "person", nil),
		relationRecord("x", "assigned_to", "y"),
		relationRecord("a", "assigned_to", "y"),
	})
	doc := relationDoc("assigned_to", schema.RelationRule{Cardinality: "one_to_many"})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeTargetCardinality, violations[0].Code)
	assert.Equal(t, "assigned_to: to entity y violates cardinality one_to_many", violations[0].String())
}

func TestCardinalityManyToOneConstrainsSources(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("x", "task", nil),
		entityRecord("y", "person", nil),
		entityRecord("z", "person", nil),
		relationRecord("x", "assigned_to", "y"),
		relationRecord("x", "assigned_to", "z"),
	})
	doc := relationDoc("assigned_to", schema.RelationRule{Cardinality: "many_to_one"})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeSourceCardinality, violations[0].Code)
	assert.Equal(t, "assigned_to: from entity x violates cardinality many_to_one", violations[0].String())
}

func TestCardinalityOneToOneReportsSourcesBeforeTargets(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "task", nil),
		entityRecord("b", "task", nil),
		entityRecord("c", "task", nil),
		relationRecord("a", "pairs_with", "b"),
		relationRecord("a", "pairs_with", "c"),
		relationRecord("b", "pairs_with", "c"),
	})
	doc := relationDoc("pairs_with", schema.RelationRule{Cardinality: "one_to_one"})

	violations := Graph(snap, doc)
	require.Len(t, violations, 2)
	assert.Equal(t, CodeSourceCardinality, violations[0].Code)
	assert.Equal(t, "pairs_with: from entity a violates cardinality one_to_one", violations[0].String())
	assert.Equal(t, CodeTargetCardinality, violations[1].Code)
	assert.Equal(t, "pairs_with: to entity c violates cardinality one_to_one", violations[1].String())
}

func TestCardinalityHyphenSpellingEnforced(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("x", "task", nil),
		entityRecord("y", "person", nil),
		entityRecord("z", "person", nil),
		relationRecord("x", "assigned_to", "y"),
		relationRecord("x", "assigned_to", "z"),
	})
	doc := relationDoc("assigned_to", schema.RelationRule{Cardinality: "many-to-one"})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, "assigned_to: from entity x violates cardinality many-to-one", violations[0].String(),
		"message keeps the spelling the schema declared")
}

func TestCardinalityManyToManyUnenforced(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("x", "task", nil),
		entityRecord("y", "person", nil),
		entityRecord("z", "person", nil),
		relationRecord("x", "tagged", "y"),
		relationRecord("x", "tagged", "z"),
		relationRecord("z", "tagged", "y"),
	})
	doc := relationDoc("tagged", schema.RelationRule{Cardinality: "many_to_many"})

	assert.Empty(t, Graph(snap, doc))
}

func TestRelationTypesCheckedInDeclarationOrder(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "task", nil),
		relationRecord("a", "zeta", "ghost_z"),
		relationRecord("a", "alpha", "ghost_a"),
	})
	doc := &schema.Document{
		Types: map[string]schema.TypeRule{},
		Relations: map[string]schema.RelationRule{
			"zeta":  {},
			"alpha": {},
		},
		RelationOrder: []string{"zeta", "alpha"},
	}

	violations := Graph(snap, doc)
	require.Len(t, violations, 2)
	assert.Equal(t, "zeta", violations[0].Subject)
	assert.Equal(t, "alpha", violations[1].Subject)
}

func TestRelationRuleWithoutOrderStillChecked(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "task", nil),
		relationRecord("a", "links", "ghost"),
	})
	doc := &schema.Document{
		Relations: map[string]schema.RelationRule{"links": {}},
	}

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeMissingEndpoint, violations[0].Code)
}

func TestAcyclicCleanChainPasses(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "task", nil),
		entityRecord("b", "task", nil),
		entityRecord("c", "task", nil),
		relationRecord("a", "depends_on", "b"),
		relationRecord("b", "depends_on", "c"),
	})
	doc := relationDoc("depends_on", schema.RelationRule{Acyclic: true})

	assert.Empty(t, Graph(snap, doc))
}

func TestAcyclicCycleReported(t *testing.T) {
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "task", nil),
		entityRecord("b", "task", nil),
		entityRecord("c", "task", nil),
		relationRecord("a", "depends_on", "b"),
		relationRecord("b", "depends_on", "c"),
		relationRecord("c", "depends_on", "a"),
	})
	doc := relationDoc("depends_on", schema.RelationRule{Acyclic: true})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
	assert.Equal(t, CodeCycleDetected, violations[0].Code)
	assert.Equal(t, "depends_on: cyclic dependency detected", violations[0].String())
}

func TestAcyclicReportedOncePerRelationType(t *testing.T) {
	// two disjoint cycles, still one violation for the type
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "task", nil),
		entityRecord("b", "task", nil),
		entityRecord("c", "task", nil),
		entityRecord("d", "task", nil),
		relationRecord("a", "depends_on", "b"),
		relationRecord("b", "depends_on", "a"),
		relationRecord("c", "depends_on", "d"),
		relationRecord("d", "depends_on", "c"),
	})
	doc := relationDoc("depends_on", schema.RelationRule{Acyclic: true})

	violations := Graph(snap, doc)
	require.Len(t, violations, 1)
}

func TestAcyclicIgnoresDanglingEdges(t *testing.T) {
	// the cycle only closes through a deleted entity; dropping the
	// dangling edges leaves a clean chain, and the dangling reports
	// stand on their own
	snap := graph.Replay([]graph.Record{
		entityRecord("a", "task", nil),
		entityRecord("b", "task", nil),
		relationRecord("a", "depends_on", "b"),
		relationRecord("b", "depends_on", "gone"),
		relationRecord("gone", "depends_on", "a"),
	})
	doc := relationDoc("depends_on", schema.RelationRule{Acyclic: true})

	violations := Graph(snap, doc)
	require.Len(t, violations, 2)
	assert.Equal(t, CodeMissingEndpoint, violations[0].Code)
	assert.Equal(t, CodeMissingEndpoint, violations[1].Code)
}

func TestViolationStrings(t *testing.T) {
	violations := []Violation{
		{Code: CodeRequiredMissing, Subject: "task_1", Message: "missing required property 'name'"},
		{Code: CodeCycleDetected, Subject: "depends_on", Message: "cyclic dependency detected"},
	}

	assert.Equal(t, []string{
		"task_1: missing required property 'name'",
		"depends_on: cyclic dependency detected",
	}, Strings(violations))
}
