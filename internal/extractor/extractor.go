// Package extractor scans SQL statement text and produces the table sources
// and column references the resolver works on. It deliberately stops short of
// parsing expressions: identifier chains are located and annotated with their
// spans, everything else is skipped.
package extractor

import (
	"errors"

	"sql-remap/internal/model"
)

// ErrNoTableSource is returned when a statement has no recognizable FROM
// clause. Without at least one table source nothing can be resolved.
var ErrNoTableSource = errors.New("no recognizable FROM clause")

// Extraction is the scope model of one statement: its table sources (with
// aliases) and every column reference found outside table-source position.
type Extraction struct {
	Sources []model.TableSource
	Columns []model.ColumnRef
}

// Extract builds the Extraction for a single statement's text. Spans are
// byte offsets into stmt.
func Extract(stmt string) (*Extraction, error) {
	s := &scan{toks: lex(stmt)}
	s.run()
	if len(s.sources) == 0 {
		return nil, ErrNoTableSource
	}
	return &Extraction{Sources: s.sources, Columns: s.columns}, nil
}

type scan struct {
	toks    []token
	i       int
	sources []model.TableSource
	columns []model.ColumnRef

	// prevName is true when the previous significant token ended an
	// identifier chain or a closing paren, so that a bare identifier
	// following it is a column/derived-table alias, not a reference.
	prevName bool
}

func (s *scan) run() {
	for s.i < len(s.toks) {
		t := s.toks[s.i]

		switch {
		case t.isKeyword():
			switch t.keyword() {
			case "FROM":
				s.i++
				s.parseSources(true)
			case "JOIN":
				s.i++
				s.parseSources(false)
			case "AS":
				// select-list alias: the following identifier names the
				// output column, not a reference
				s.i++
				if s.i < len(s.toks) && s.toks[s.i].kind == tokIdent {
					s.i++
				}
			case "INTO", "UPDATE":
				// INSERT INTO t / UPDATE alias: skip the target chain so it
				// is not mistaken for a column reference
				s.i++
				if s.i < len(s.toks) && s.toks[s.i].kind == tokIdent && !s.toks[s.i].isKeyword() {
					s.chain()
				}
			default:
				s.i++
			}
			s.prevName = false

		case t.kind == tokIdent:
			if s.prevName {
				// implicit alias (SELECT a.x total / derived-table alias)
				s.i++
				s.prevName = false
				continue
			}
			parts, star := s.chain()
			if star {
				// a.* expands columns, nothing to remap
				s.prevName = false
				continue
			}
			if s.i < len(s.toks) && s.toks[s.i].isPunct("(") {
				// function call, chain is its name
				s.prevName = false
				continue
			}
			s.columns = append(s.columns, model.ColumnRef{
				Parts: parts,
				Span:  chainSpan(parts),
			})
			s.prevName = true

		case t.isPunct(")"):
			s.i++
			s.prevName = true

		default:
			s.i++
			s.prevName = false
		}
	}
}

// chain consumes a dotted identifier chain starting at the current token and
// returns its parts. star reports a trailing ".*".
func (s *scan) chain() (parts []model.Part, star bool) {
	t := s.toks[s.i]
	parts = append(parts, partOf(t))
	s.i++
	for s.i+1 < len(s.toks) && s.toks[s.i].isPunct(".") {
		next := s.toks[s.i+1]
		if next.isPunct("*") {
			s.i += 2
			return parts, true
		}
		if next.kind != tokIdent {
			break
		}
		parts = append(parts, partOf(next))
		s.i += 2
	}
	return parts, false
}

// parseSources consumes the table sources following FROM (comma-separated
// list) or a single JOIN. A parenthesized subquery is left to the main loop:
// its inner FROM contributes to the same flat scope.
func (s *scan) parseSources(list bool) {
	for {
		if s.i >= len(s.toks) {
			return
		}
		t := s.toks[s.i]
		if t.isPunct("(") || t.kind != tokIdent || t.isKeyword() {
			s.prevName = false
			return
		}

		parts, star := s.chain()
		if star {
			s.prevName = false
			return
		}
		src := sourceFromChain(parts)

		// optional AS, optional alias
		if s.i < len(s.toks) && s.toks[s.i].keyword() == "AS" {
			s.i++
		}
		if s.i < len(s.toks) && s.toks[s.i].kind == tokIdent && !s.toks[s.i].isKeyword() {
			src.Alias = s.toks[s.i].text
			s.i++
		}
		if src.Alias == "" {
			src.Alias = src.Table
		}
		s.sources = append(s.sources, src)

		// table hint, e.g. WITH (NOLOCK)
		if s.i+1 < len(s.toks) && s.toks[s.i].keyword() == "WITH" && s.toks[s.i+1].isPunct("(") {
			s.i += 2
			depth := 1
			for s.i < len(s.toks) && depth > 0 {
				if s.toks[s.i].isPunct("(") {
					depth++
				} else if s.toks[s.i].isPunct(")") {
					depth--
				}
				s.i++
			}
		}

		s.prevName = false
		if list && s.i < len(s.toks) && s.toks[s.i].isPunct(",") {
			s.i++
			continue
		}
		return
	}
}

// sourceFromChain maps a 1-3 part chain onto (db, schema, table),
// right-aligned. Longer chains keep their last three parts.
func sourceFromChain(parts []model.Part) model.TableSource {
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	src := model.TableSource{Span: chainSpan(parts)}
	switch len(parts) {
	case 3:
		src.DB = parts[0].Text
		src.Schema = parts[1].Text
		src.Table = parts[2].Text
	case 2:
		src.Schema = parts[0].Text
		src.Table = parts[1].Text
	case 1:
		src.Table = parts[0].Text
	}
	return src
}

func partOf(t token) model.Part {
	return model.Part{
		Text:      t.text,
		Bracketed: t.bracketed,
		Span:      model.Span{Start: t.start, End: t.end},
	}
}

func chainSpan(parts []model.Part) model.Span {
	return model.Span{
		Start: parts[0].Span.Start,
		End:   parts[len(parts)-1].Span.End,
	}
}
