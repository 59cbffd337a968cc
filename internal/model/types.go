package model

import (
	"fmt"
	"strings"
)

// Span locates a token within the original query text as [Start, End) byte offsets.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Start, s.End)
}

// Part is one component of a dotted identifier chain as it appeared in the text.
// Text never includes the brackets; Bracketed records whether they were present.
type Part struct {
	Text      string
	Bracketed bool
	Span      Span
}

// TableSource represents one item of a FROM/JOIN clause.
// Span covers the dotted db.schema.table chain only, never the alias.
type TableSource struct {
	DB     string
	Schema string
	Table  string
	Alias  string // defaults to Table when no explicit alias is given
	Span   Span
}

// Qualified returns the legacy dotted name, e.g. "DB.S.T".
func (t TableSource) Qualified() string {
	parts := make([]string, 0, 3)
	if t.DB != "" {
		parts = append(parts, t.DB)
	}
	if t.Schema != "" {
		parts = append(parts, t.Schema)
	}
	parts = append(parts, t.Table)
	return strings.Join(parts, ".")
}

// ColumnRef represents one occurrence of a column identifier in the query text.
// Parts holds the full qualified chain ([db.][schema.][qualifier.]column);
// Span covers the whole chain. Immutable once created.
type ColumnRef struct {
	Parts []Part
	Span  Span
}

// Column returns the column component (always the last part).
func (c ColumnRef) Column() Part {
	return c.Parts[len(c.Parts)-1]
}

// Qualifier returns the alias/table component, or an empty Part for bare columns.
func (c ColumnRef) Qualifier() Part {
	if len(c.Parts) < 2 {
		return Part{}
	}
	return c.Parts[len(c.Parts)-2]
}

// Qualified returns the dotted chain as written, without bracket quoting.
func (c ColumnRef) Qualified() string {
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.Text
	}
	return strings.Join(parts, ".")
}

// OutcomeKind classifies the resolution of a single reference
type OutcomeKind string

const (
	KindMapped    OutcomeKind = "MAPPED"
	KindUnmapped  OutcomeKind = "UNMAPPED"
	KindAmbiguous OutcomeKind = "AMBIGUOUS"
)

// Outcome is the resolution result for one table or column reference.
type Outcome struct {
	Kind        OutcomeKind
	IsTable     bool
	Legacy      string // reference as written, dotted
	Target      string // resolved target identifier (MAPPED only)
	Span        Span
	Replacement string   // exact text substituted at Span (MAPPED only)
	Reason      string   // why resolution failed (UNMAPPED only)
	Candidates  []string // matching table sources (AMBIGUOUS only)
	Comment     string   // mapping-file comment, if any
}

// Diagnostic reports a statement-level condition not tied to a single reference.
type Diagnostic struct {
	Statement int // zero-based index within the input batch
	Kind      string
	Message   string
}

const (
	DiagUnparsable = "UNPARSABLE"
	DiagValidate   = "VALIDATE"
)

// ConversionResult is the value returned to callers: the rewritten query plus
// the ordered resolution outcomes. It owns its data independently of the
// engine's working state.
type ConversionResult struct {
	ConvertedQuery string
	Outcomes       []Outcome
	Diagnostics    []Diagnostic
}

// Counts returns the number of mapped, unmapped and ambiguous outcomes.
func (r *ConversionResult) Counts() (mapped, unmapped, ambiguous int) {
	for _, o := range r.Outcomes {
		switch o.Kind {
		case KindMapped:
			mapped++
		case KindUnmapped:
			unmapped++
		case KindAmbiguous:
			ambiguous++
		}
	}
	return
}
