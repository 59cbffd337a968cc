package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// TableSentinel is the Legacy column value marking a table-level rename entry.
const TableSentinel = "*"

var (
	// ErrNotFound means no entry exists for the requested legacy tuple.
	ErrNotFound = errors.New("no mapping entry")
	// ErrNoTarget means an entry exists but carries no usable target identifier.
	// Such entries are treated as absent at lookup time rather than failing the
	// whole conversion.
	ErrNoTarget = errors.New("mapping entry has no target")
	// ErrDuplicateEntry means two rows share the same legacy tuple.
	ErrDuplicateEntry = errors.New("duplicate mapping entry")
)

// Entry is one legacy->target identifier mapping row. All identifier fields are
// matched case-insensitively; Comment is free text.
type Entry struct {
	LegacyDB     string
	LegacySchema string
	LegacyTable  string
	LegacyColumn string // TableSentinel for table-level renames
	TargetSchema string
	TargetTable  string
	TargetColumn string
	Comment      string
}

func (e Entry) legacyKey() string {
	return strings.ToLower(strings.Join(
		[]string{e.LegacyDB, e.LegacySchema, e.LegacyTable, e.LegacyColumn}, "\x00"))
}

// LegacyName returns the dotted legacy identifier for diagnostics.
func (e Entry) LegacyName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.LegacyDB, e.LegacySchema, e.LegacyTable} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if e.LegacyColumn != TableSentinel && e.LegacyColumn != "" {
		parts = append(parts, e.LegacyColumn)
	}
	return strings.Join(parts, ".")
}

// Table is a loaded, validated mapping table. Read-only after New; safe for
// concurrent lookups.
type Table struct {
	entries map[string]Entry
	targets map[string]struct{}
}

// New builds a lookup table from entries. An empty Legacy column is
// canonicalized to the table-level sentinel. A duplicate legacy tuple is a
// load-time error.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make(map[string]Entry, len(entries)),
		targets: make(map[string]struct{}),
	}
	for _, e := range entries {
		if strings.TrimSpace(e.LegacyColumn) == "" {
			e.LegacyColumn = TableSentinel
		}
		k := e.legacyKey()
		if prev, ok := t.entries[k]; ok {
			return nil, fmt.Errorf("%w for %s", ErrDuplicateEntry, prev.LegacyName())
		}
		t.entries[k] = e
		if hasTarget(e.TargetTable) {
			t.targets[strings.ToLower(strings.TrimSpace(e.TargetTable))] = struct{}{}
		}
	}
	return t, nil
}

// Len returns the number of loaded entries.
func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) lookup(db, schema, table, column string) (Entry, error) {
	k := Entry{LegacyDB: db, LegacySchema: schema, LegacyTable: table, LegacyColumn: column}.legacyKey()
	e, ok := t.entries[k]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// LookupTable resolves a table-level rename for the legacy (db, schema, table)
// triple. An entry without a usable target schema or table is reported as
// ErrNoTarget together with the entry, so callers can still surface its Comment.
func (t *Table) LookupTable(db, schema, table string) (Entry, error) {
	e, err := t.lookup(db, schema, table, TableSentinel)
	if err != nil {
		return Entry{}, err
	}
	if !hasTarget(e.TargetSchema) || !hasTarget(e.TargetTable) {
		return e, ErrNoTarget
	}
	return e, nil
}

// LookupColumn resolves a column rename for the full legacy tuple. An entry
// whose target column is empty or "-" is reported as ErrNoTarget, matching the
// mapping file convention for columns with no target equivalent yet.
func (t *Table) LookupColumn(db, schema, table, column string) (Entry, error) {
	e, err := t.lookup(db, schema, table, column)
	if err != nil {
		return Entry{}, err
	}
	if !hasTarget(e.TargetColumn) {
		return e, ErrNoTarget
	}
	return e, nil
}

// IsTargetTable reports whether name is a target table of any mapping entry.
func (t *Table) IsTargetTable(name string) bool {
	_, ok := t.targets[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// hasTarget reports whether a target identifier field carries a real name.
// "-" is the mapping file convention for "no equivalent".
func hasTarget(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != "-"
}
