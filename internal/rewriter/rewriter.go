// Package rewriter applies resolved substitutions back onto statement text.
// Unmapped and ambiguous spans are left untouched, so the output stays
// syntactically complete and diffable against the input.
package rewriter

import (
	"sort"

	"sql-remap/internal/model"
)

// Apply patches stmt with every MAPPED outcome's replacement at its span.
// Substitutions are applied rightmost-first so earlier offsets stay valid.
// The result is deterministic for a given (stmt, outcomes) pair.
func Apply(stmt string, outcomes []model.Outcome) string {
	type edit struct {
		span model.Span
		text string
	}

	var edits []edit
	for _, o := range outcomes {
		if o.Kind != model.KindMapped || o.Replacement == "" {
			continue
		}
		edits = append(edits, edit{span: o.Span, text: o.Replacement})
	}
	if len(edits) == 0 {
		return stmt
	}

	sort.Slice(edits, func(i, j int) bool {
		return edits[i].span.Start > edits[j].span.Start
	})

	out := stmt
	for _, e := range edits {
		out = out[:e.span.Start] + e.text + out[e.span.End:]
	}
	return out
}
