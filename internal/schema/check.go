package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed document.cue
var documentCUE string

// CheckFragment unifies a normalized fragment with the embedded
// #Document definition and reports every structural complaint at once:
// wrong section shapes, non-string rule lists, unknown top-level
// sections, cardinality spellings outside the allowed set. A fragment
// that passes may still declare rules the validator does not enforce —
// prose stays legal.
//
// A fresh evaluation context per call keeps concurrent callers
// independent; the definition is small enough that compiling it each
// time costs nothing worth caching.
func CheckFragment(fragment map[string]any) error {
	ctx := cuecontext.New()

	compiled := ctx.CompileString(documentCUE, cue.Filename("document.cue"))
	if err := compiled.Err(); err != nil {
		return fmt.Errorf("compile document definition: %w", err)
	}
	def := compiled.LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Document: %w", err)
	}

	val := ctx.Encode(fragment)
	if err := val.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFragment, err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w:\n%s", ErrInvalidFragment, cueerrors.Details(err, nil))
	}
	return nil
}
