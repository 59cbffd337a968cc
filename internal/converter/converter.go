// Package converter is the identifier remapping engine: it splits input into
// statements, runs extraction, resolution and rewriting per statement, and
// assembles the ConversionResult.
package converter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"sql-remap/internal/extractor"
	"sql-remap/internal/mapping"
	"sql-remap/internal/model"
	"sql-remap/internal/parser"
	"sql-remap/internal/resolver"
	"sql-remap/internal/rewriter"
)

// ErrNoStatements is returned when the input contains no SQL statements at all.
var ErrNoStatements = errors.New("no SQL statements found in input")

// Options configure a conversion engine.
type Options struct {
	// Catalog, when set, prefixes every rewritten table identifier with the
	// target warehouse catalog.
	Catalog string
	// Validate runs converted statements through the SQL parser and records
	// a diagnostic when one no longer parses. Best effort: statements that
	// still carry bracket quoting are skipped.
	Validate bool
}

// Engine converts queries against one loaded mapping table. It holds no
// per-query state: concurrent Convert calls are safe as long as the mapping
// table is never mutated, which Table guarantees after load.
type Engine struct {
	mapping   *mapping.Table
	resolver  *resolver.Resolver
	validator *parser.SQLParser
	opts      Options
}

func New(table *mapping.Table, opts Options) *Engine {
	e := &Engine{
		mapping:  table,
		resolver: resolver.New(table, opts.Catalog),
		opts:     opts,
	}
	if opts.Validate {
		e.validator = parser.NewSQLParser()
	}
	return e
}

// Convert rewrites every statement of query independently and returns the
// assembled result. Statement separators and all text between statements are
// preserved byte for byte. A statement with no recognizable FROM clause is
// passed through unchanged and recorded as an UNPARSABLE diagnostic.
func (e *Engine) Convert(query string) (*model.ConversionResult, error) {
	stmts := splitStatements(query)
	if len(stmts) == 0 {
		return nil, ErrNoStatements
	}

	result := &model.ConversionResult{}
	var b strings.Builder
	b.Grow(len(query))
	last := 0

	for idx, seg := range stmts {
		b.WriteString(query[last:seg.start])
		last = seg.end

		converted, outcomes, err := e.convertStatement(seg.text)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				Statement: idx,
				Kind:      model.DiagUnparsable,
				Message:   err.Error(),
			})
			b.WriteString(seg.text)
			continue
		}

		// outcome spans are reported against the original input text
		for i := range outcomes {
			outcomes[i].Span.Start += seg.start
			outcomes[i].Span.End += seg.start
		}
		result.Outcomes = append(result.Outcomes, outcomes...)
		b.WriteString(converted)

		if e.validator != nil {
			e.validate(idx, converted, result)
		}
	}

	b.WriteString(query[last:])
	result.ConvertedQuery = b.String()
	return result, nil
}

func (e *Engine) convertStatement(stmt string) (string, []model.Outcome, error) {
	ex, err := extractor.Extract(stmt)
	if err != nil {
		return "", nil, err
	}
	outcomes := e.resolver.Resolve(ex)
	return rewriter.Apply(stmt, outcomes), outcomes, nil
}

func (e *Engine) validate(idx int, stmt string, result *model.ConversionResult) {
	if strings.Contains(stmt, "[") {
		// bracket quoting is beyond the validator's dialect
		return
	}
	node, err := e.validator.Parse(stmt)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
			Statement: idx,
			Kind:      model.DiagValidate,
			Message:   fmt.Sprintf("converted statement does not parse: %v", err),
		})
		return
	}

	// every table the converted statement still references should be a target
	// of the mapping; anything else survived the rewrite unrenamed
	tables := parser.TableNames(node)
	for _, name := range tables {
		if e.mapping.IsTargetTable(name) {
			continue
		}
		result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
			Statement: idx,
			Kind:      model.DiagValidate,
			Message:   fmt.Sprintf("converted statement still references table %q, which is not a mapped target", name),
		})
	}
	log.Debug().
		Int("statement", idx).
		Strs("tables", tables).
		Msg("converted statement validated")
}
