// Package validate checks a materialized graph snapshot against a schema
// document. Violations are data, not errors: one pass walks the whole
// graph and reports everything it finds, in a deterministic order -
// entity property checks first, then per-relation-type checks in schema
// order, then global constraints. An empty result means the graph is
// valid. Only unreadable inputs are errors, and those never originate
// here.
package validate

import (
	"fmt"
	"sort"

	"github.com/warpz0ne/openclaw/internal/graph"
	"github.com/warpz0ne/openclaw/internal/props"
	"github.com/warpz0ne/openclaw/internal/schema"
)

// Violation codes (V100-V199)
const (
	// entity property checks (V100-V109)
	CodeRequiredMissing  = "V101" // required property absent
	CodeForbiddenPresent = "V102" // forbidden property present
	CodeEnumViolation    = "V103" // value outside the allowed set

	// relation checks (V110-V119)
	CodeMissingEndpoint   = "V110" // relation endpoint not in the live mapping
	CodeSourceTypeInvalid = "V111" // source entity type outside from_types
	CodeTargetTypeInvalid = "V112" // target entity type outside to_types
	CodeSourceCardinality = "V113" // source id on too many relations
	CodeTargetCardinality = "V114" // target id on too many relations
	CodeCycleDetected     = "V115" // acyclic relation type contains a cycle

	// global constraints (V120-V129)
	CodeDateOrder  = "V120" // end precedes start
	CodeDateFormat = "V121" // start/end not parseable as a timestamp
)

// Violation is one broken schema rule. Subject is the entity id for
// property and date checks and the relation type for relation checks.
type Violation struct {
	Code    string `json:"code"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// String renders the violation the way reports print it.
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Subject, v.Message)
}

// Strings renders a violation list for display, one line per violation.
func Strings(violations []Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.String()
	}
	return out
}

// Graph validates a snapshot against a schema document and returns every
// violation found. A nil or empty document validates everything. The
// result order is stable for a given snapshot and document: entities in
// creation order, relation types in schema declaration order, relations
// in log order, constraints in declaration order.
func Graph(snap *graph.Snapshot, doc *schema.Document) []Violation {
	var violations []Violation
	if snap == nil || doc == nil {
		return violations
	}

	violations = append(violations, checkEntityProperties(snap, doc)...)
	violations = append(violations, checkRelationRules(snap, doc)...)
	violations = append(violations, checkGlobalConstraints(snap, doc)...)
	return violations
}

// checkEntityProperties enforces required, forbidden_properties, and
// enum rules for every live entity whose type has a rule.
func checkEntityProperties(snap *graph.Snapshot, doc *schema.Document) []Violation {
	var violations []Violation

	for _, e := range snap.Entities() {
		rule, ok := doc.Types[e.Type]
		if !ok {
			continue
		}

		for _, prop := range rule.Required {
			if _, ok := e.Properties[prop]; !ok {
				violations = append(violations, Violation{
					Code:    CodeRequiredMissing,
					Subject: e.ID,
					Message: fmt.Sprintf("missing required property '%s'", prop),
				})
			}
		}

		for _, prop := range rule.Forbidden {
			if _, ok := e.Properties[prop]; ok {
				violations = append(violations, Violation{
					Code:    CodeForbiddenPresent,
					Subject: e.ID,
					Message: fmt.Sprintf("contains forbidden property '%s'", prop),
				})
			}
		}

		for _, enum := range rule.Enums {
			value, ok := e.Properties[enum.Field]
			if !ok || !props.Truthy(value) {
				// absent and empty-ish values pass; required catches
				// absence if the schema wants it
				continue
			}
			if s, ok := value.(props.String); ok && contains(enum.Allowed, string(s)) {
				continue
			}
			violations = append(violations, Violation{
				Code:    CodeEnumViolation,
				Subject: e.ID,
				Message: fmt.Sprintf("'%s' must be one of %v, got '%s'", enum.Field, enum.Allowed, displayValue(value)),
			})
		}
	}
	return violations
}

// checkRelationRules walks relation types in schema declaration order.
// For each type: referential integrity first - a relation with a missing
// endpoint is reported once and drops out of the type, cardinality, and
// cycle checks that follow.
func checkRelationRules(snap *graph.Snapshot, doc *schema.Document) []Violation {
	var violations []Violation

	for _, relType := range orderedRelationTypes(doc) {
		rule := doc.Relations[relType]
		rels := snap.RelationsOfType(relType)

		resolved := make([]graph.Relation, 0, len(rels))
		for _, rel := range rels {
			from, fromOK := snap.Entity(rel.From)
			to, toOK := snap.Entity(rel.To)
			if !fromOK || !toOK {
				violations = append(violations, Violation{
					Code:    CodeMissingEndpoint,
					Subject: relType,
					Message: fmt.Sprintf("relation references missing entity (%s -> %s)", rel.From, rel.To),
				})
				continue
			}
			resolved = append(resolved, rel)

			if len(rule.FromTypes) > 0 && !contains(rule.FromTypes, from.Type) {
				violations = append(violations, Violation{
					Code:    CodeSourceTypeInvalid,
					Subject: relType,
					Message: fmt.Sprintf("from entity %s type %s not in %v", rel.From, from.Type, rule.FromTypes),
				})
			}
			if len(rule.ToTypes) > 0 && !contains(rule.ToTypes, to.Type) {
				violations = append(violations, Violation{
					Code:    CodeTargetTypeInvalid,
					Subject: relType,
					Message: fmt.Sprintf("to entity %s type %s not in %v", rel.To, to.Type, rule.ToTypes),
				})
			}
		}

		violations = append(violations, checkCardinality(relType, rule, resolved)...)

		if rule.Acyclic && hasCycle(resolved) {
			violations = append(violations, Violation{
				Code:    CodeCycleDetected,
				Subject: relType,
				Message: "cyclic dependency detected",
			})
		}
	}
	return violations
}

// orderedRelationTypes yields relation type names in declaration order.
// Names present in the Relations map but missing from RelationOrder
// (hand-built documents) follow in sorted order so they are still
// checked, deterministically.
func orderedRelationTypes(doc *schema.Document) []string {
	ordered := make([]string, 0, len(doc.Relations))
	seen := make(map[string]bool, len(doc.Relations))
	for _, name := range doc.RelationOrder {
		if _, ok := doc.Relations[name]; ok && !seen[name] {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}

	var extra []string
	for name := range doc.Relations {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(ordered, extra...)
}

// checkCardinality counts relation occurrences per source id and per
// target id. one_to_one and many_to_one cap sources at one relation
// each; one_to_one and one_to_many cap targets. Source violations come
// first. The message carries the cardinality as the schema spelled it.
func checkCardinality(relType string, rule schema.RelationRule, rels []graph.Relation) []Violation {
	cardinality, enforced := schema.NormalizeCardinality(rule.Cardinality)
	if !enforced {
		return nil
	}

	var violations []Violation
	if cardinality.ConstrainsSource() {
		for _, id := range overloadedIDs(rels, func(r graph.Relation) string { return r.From }) {
			violations = append(violations, Violation{
				Code:    CodeSourceCardinality,
				Subject: relType,
				Message: fmt.Sprintf("from entity %s violates cardinality %s", id, rule.Cardinality),
			})
		}
	}
	if cardinality.ConstrainsTarget() {
		for _, id := range overloadedIDs(rels, func(r graph.Relation) string { return r.To }) {
			violations = append(violations, Violation{
				Code:    CodeTargetCardinality,
				Subject: relType,
				Message: fmt.Sprintf("to entity %s violates cardinality %s", id, rule.Cardinality),
			})
		}
	}
	return violations
}

// overloadedIDs returns the ids appearing on more than one relation, in
// first-appearance order.
func overloadedIDs(rels []graph.Relation, end func(graph.Relation) string) []string {
	counts := make(map[string]int, len(rels))
	var order []string
	for _, rel := range rels {
		id := end(rel)
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	var overloaded []string
	for _, id := range order {
		if counts[id] > 1 {
			overloaded = append(overloaded, id)
		}
	}
	return overloaded
}

func contains(list []string, s string) bool {
	for _, member := range list {
		if member == s {
			return true
		}
	}
	return false
}

// displayValue renders a property value for a violation message: strings
// bare, everything else in its canonical JSON form.
func displayValue(v props.Value) string {
	if s, ok := v.(props.String); ok {
		return string(s)
	}
	data, err := props.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
