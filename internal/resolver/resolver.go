// Package resolver performs alias-scoped lookups of extracted references
// against the mapping table. Every reference yields exactly one outcome;
// ambiguity is reported, never auto-resolved.
package resolver

import (
	"errors"
	"fmt"
	"strings"

	"sql-remap/internal/extractor"
	"sql-remap/internal/mapping"
	"sql-remap/internal/model"
)

// Resolver resolves one statement's extraction against a read-only mapping
// table. Catalog, when set, prefixes rewritten table identifiers with the
// target warehouse catalog.
type Resolver struct {
	table   *mapping.Table
	catalog string
}

func New(table *mapping.Table, catalog string) *Resolver {
	return &Resolver{table: table, catalog: catalog}
}

// sourceState carries a table source together with its table-level mapping,
// built once per statement and immutable afterwards.
type sourceState struct {
	src    model.TableSource
	entry  mapping.Entry
	mapped bool
}

// Resolve produces one outcome per table source followed by one per column
// reference, both in source order.
func (r *Resolver) Resolve(ex *extractor.Extraction) []model.Outcome {
	outcomes := make([]model.Outcome, 0, len(ex.Sources)+len(ex.Columns))

	states := make([]sourceState, len(ex.Sources))
	for i, src := range ex.Sources {
		st := sourceState{src: src}
		entry, err := r.table.LookupTable(src.DB, src.Schema, src.Table)
		if err == nil {
			st.entry = entry
			st.mapped = true
			outcomes = append(outcomes, model.Outcome{
				Kind:        model.KindMapped,
				IsTable:     true,
				Legacy:      src.Qualified(),
				Target:      r.tableTarget(entry),
				Span:        src.Span,
				Replacement: r.tableTarget(entry),
				Comment:     comment(entry),
			})
		} else {
			out := model.Outcome{
				Kind:    model.KindUnmapped,
				IsTable: true,
				Legacy:  src.Qualified(),
				Span:    src.Span,
				Reason:  fmt.Sprintf("table %s: %v", src.Qualified(), err),
			}
			if errors.Is(err, mapping.ErrNoTarget) {
				out.Comment = comment(entry)
			}
			outcomes = append(outcomes, out)
		}
		states[i] = st
	}

	for _, ref := range ex.Columns {
		outcomes = append(outcomes, r.resolveColumn(ref, states))
	}

	return outcomes
}

func (r *Resolver) resolveColumn(ref model.ColumnRef, states []sourceState) model.Outcome {
	out := model.Outcome{Legacy: ref.Qualified(), Span: ref.Span}
	col := ref.Column()

	candidates := candidatesFor(ref, states)
	if len(candidates) == 0 {
		out.Kind = model.KindUnmapped
		out.Reason = fmt.Sprintf("no table source in scope matches qualifier %q", ref.Qualifier().Text)
		return out
	}

	// A candidate matches when its table is itself mapped and the mapping
	// table has an entry for (table, column). Unmapped tables poison their
	// columns: there is no point resolving columns of a table we cannot
	// rename.
	type match struct {
		state sourceState
		entry mapping.Entry
	}
	var matches []match
	poisoned := false
	var lookupErr error
	for _, st := range candidates {
		if !st.mapped {
			poisoned = true
			continue
		}
		entry, err := r.table.LookupColumn(st.src.DB, st.src.Schema, st.src.Table, col.Text)
		if err != nil {
			lookupErr = err
			if errors.Is(err, mapping.ErrNoTarget) {
				// the row exists but has no target yet; its comment usually
				// says what to do instead
				out.Comment = comment(entry)
			}
			continue
		}
		matches = append(matches, match{state: st, entry: entry})
	}

	switch {
	case len(matches) == 1:
		m := matches[0]
		out.Kind = model.KindMapped
		out.Target = r.columnTarget(m.state, m.entry)
		out.Replacement = r.replacement(ref, m.state, m.entry)
		out.Comment = comment(m.entry)
	case len(matches) > 1:
		out.Kind = model.KindAmbiguous
		for _, m := range matches {
			out.Candidates = append(out.Candidates, m.state.src.Qualified())
		}
	default:
		out.Kind = model.KindUnmapped
		switch {
		case poisoned:
			out.Reason = fmt.Sprintf("owning table of column %q has no mapping", col.Text)
		case lookupErr != nil:
			out.Reason = fmt.Sprintf("column %q: %v", col.Text, lookupErr)
		default:
			out.Reason = fmt.Sprintf("no mapping entry for column %q", col.Text)
		}
	}
	return out
}

// candidatesFor narrows the statement scope down to the sources a reference
// could belong to. An alias match pins the owner outright; only when no alias
// matches does the qualifier fall back to legacy table names. Schema/db parts,
// when written out, filter further; a bare column is in scope of every source.
func candidatesFor(ref model.ColumnRef, states []sourceState) []sourceState {
	if len(ref.Parts) == 1 {
		return states
	}

	qualifier := ref.Qualifier().Text
	var schema, db string
	if n := len(ref.Parts); n >= 3 {
		schema = ref.Parts[n-3].Text
	}
	if n := len(ref.Parts); n >= 4 {
		db = ref.Parts[n-4].Text
	}

	match := func(name func(sourceState) string) []sourceState {
		var out []sourceState
		for _, st := range states {
			if !strings.EqualFold(qualifier, name(st)) {
				continue
			}
			if schema != "" && st.src.Schema != "" && !strings.EqualFold(schema, st.src.Schema) {
				continue
			}
			if db != "" && st.src.DB != "" && !strings.EqualFold(db, st.src.DB) {
				continue
			}
			out = append(out, st)
		}
		return out
	}

	if byAlias := match(func(st sourceState) string { return st.src.Alias }); len(byAlias) > 0 {
		return byAlias
	}
	return match(func(st sourceState) string { return st.src.Table })
}

// replacement builds the exact text substituted at the reference's span,
// keeping the bracket-quoting style observed on each original part. Qualified
// references are rewritten to target-table.column; bare ones keep only the
// column.
func (r *Resolver) replacement(ref model.ColumnRef, st sourceState, entry mapping.Entry) string {
	col := styled(targetColumn(entry), ref.Column().Bracketed)
	if len(ref.Parts) == 1 {
		return col
	}
	table := st.entry.TargetTable
	if entry.TargetTable != "" {
		table = entry.TargetTable
	}
	return styled(table, ref.Qualifier().Bracketed) + "." + col
}

func (r *Resolver) tableTarget(entry mapping.Entry) string {
	name := entry.TargetSchema + "." + entry.TargetTable
	if r.catalog != "" {
		return r.catalog + "." + name
	}
	return name
}

func (r *Resolver) columnTarget(st sourceState, entry mapping.Entry) string {
	schema := st.entry.TargetSchema
	if entry.TargetSchema != "" {
		schema = entry.TargetSchema
	}
	table := st.entry.TargetTable
	if entry.TargetTable != "" {
		table = entry.TargetTable
	}
	parts := []string{schema, table, targetColumn(entry)}
	if r.catalog != "" {
		parts = append([]string{r.catalog}, parts...)
	}
	return strings.Join(parts, ".")
}

func targetColumn(entry mapping.Entry) string {
	return strings.TrimSpace(entry.TargetColumn)
}

func styled(name string, bracketed bool) string {
	if bracketed {
		return "[" + name + "]"
	}
	return name
}

func comment(entry mapping.Entry) string {
	c := strings.TrimSpace(entry.Comment)
	if c == "-" {
		return ""
	}
	return c
}
