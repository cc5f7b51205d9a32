package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/warpz0ne/openclaw/internal/graph"
	"github.com/warpz0ne/openclaw/internal/props"
	"github.com/warpz0ne/openclaw/internal/schema"
)

// checkGlobalConstraints walks the constraints section in declaration
// order. Only one textual rule family is machine-enforced: rule text
// mentioning both "start" and "end" (any case), scoped to the
// constraint's entity type, requires end >= start for entities carrying
// both properties. A relation constraint whose rule is "acyclic" is a
// deliberate no-op - the relation rules section already enforces it, the
// constraint form just lets schema authors state it where they like.
// Everything else is prose and ignored.
func checkGlobalConstraints(snap *graph.Snapshot, doc *schema.Document) []Violation {
	var violations []Violation

	for _, constraint := range doc.Constraints {
		rule := strings.ToLower(strings.TrimSpace(constraint.Rule))

		if constraint.Type != "" && strings.Contains(rule, "start") && strings.Contains(rule, "end") {
			violations = append(violations, checkDateOrder(snap, constraint.Type)...)
		}
	}
	return violations
}

// checkDateOrder enforces end >= start for every entity of the type
// whose properties carry non-empty start and end values. A value that
// does not parse as a timestamp is itself a violation.
func checkDateOrder(snap *graph.Snapshot, entityType string) []Violation {
	var violations []Violation

	for _, e := range snap.ByType(entityType) {
		start, startOK := e.Properties["start"]
		end, endOK := e.Properties["end"]
		if !startOK || !endOK || !props.Truthy(start) || !props.Truthy(end) {
			continue
		}

		startT, err := parseTimestamp(start)
		if err == nil {
			var endT time.Time
			endT, err = parseTimestamp(end)
			if err == nil {
				if endT.Before(startT) {
					violations = append(violations, Violation{
						Code:    CodeDateOrder,
						Subject: e.ID,
						Message: "end must be >= start",
					})
				}
				continue
			}
		}
		violations = append(violations, Violation{
			Code:    CodeDateFormat,
			Subject: e.ID,
			Message: "invalid datetime format in start/end",
		})
	}
	return violations
}

// timestampLayouts are tried in order. Offset forms first, then naive
// date-times with optional fractional seconds, then the short forms.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimestamp(v props.Value) (time.Time, error) {
	s, ok := v.(props.String)
	if !ok {
		return time.Time{}, fmt.Errorf("not a timestamp string")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, string(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", string(s))
}
