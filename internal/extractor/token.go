package extractor

import "strings"

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokPunct
)

// token is one lexical unit of the query text. For bracketed identifiers the
// text excludes the brackets while the span includes them, so rewriting can
// reproduce the quoting style verbatim.
type token struct {
	kind      tokenKind
	text      string
	bracketed bool
	start     int
	end       int
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '@' || c == '#' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '$' || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lex splits statement text into tokens, skipping whitespace, line and block
// comments, string literals and numeric literals' internals. It never fails:
// unterminated constructs simply run to end of input.
func lex(s string) []token {
	var toks []token
	i := 0
	n := len(s)

	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++

		case c == '-' && i+1 < n && s[i+1] == '-':
			for i < n && s[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < n && s[i+1] == '*':
			i += 2
			for i < n {
				if s[i] == '*' && i+1 < n && s[i+1] == '/' {
					i += 2
					break
				}
				i++
			}

		case c == '\'' || ((c == 'N' || c == 'n') && i+1 < n && s[i+1] == '\''):
			start := i
			if c != '\'' {
				i++ // N prefix
			}
			i++
			for i < n {
				if s[i] == '\'' {
					if i+1 < n && s[i+1] == '\'' { // escaped quote
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			toks = append(toks, token{kind: tokString, text: s[start:i], start: start, end: i})

		case c == '"':
			// QUOTED_IDENTIFIER strings; not remapped, treated as opaque
			start := i
			i++
			for i < n && s[i] != '"' {
				i++
			}
			if i < n {
				i++
			}
			toks = append(toks, token{kind: tokString, text: s[start:i], start: start, end: i})

		case c == '[':
			start := i
			i++
			for i < n && s[i] != ']' {
				i++
			}
			inner := s[start+1 : i]
			if i < n {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: inner, bracketed: true, start: start, end: i})

		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(s[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: s[start:i], start: start, end: i})

		case isDigit(c):
			start := i
			for i < n && (isDigit(s[i]) || s[i] == '.' || s[i] == 'e' || s[i] == 'E' || s[i] == 'x') {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: s[start:i], start: start, end: i})

		default:
			toks = append(toks, token{kind: tokPunct, text: s[i : i+1], start: i, end: i + 1})
			i++
		}
	}

	return toks
}

// keywords that can never be column or table identifiers when unquoted.
var keywords = map[string]struct{}{}

func init() {
	for _, k := range []string{
		"SELECT", "FROM", "WHERE", "JOIN", "INNER", "LEFT", "RIGHT", "FULL",
		"OUTER", "CROSS", "APPLY", "ON", "AND", "OR", "NOT", "IN", "EXISTS",
		"AS", "GROUP", "BY", "ORDER", "HAVING", "UNION", "ALL", "DISTINCT",
		"TOP", "CASE", "WHEN", "THEN", "ELSE", "END", "IS", "NULL", "LIKE",
		"BETWEEN", "INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE",
		"ASC", "DESC", "WITH", "OVER", "PARTITION", "GO",
	} {
		keywords[k] = struct{}{}
	}
}

func (t token) isKeyword() bool {
	if t.kind != tokIdent || t.bracketed {
		return false
	}
	_, ok := keywords[strings.ToUpper(t.text)]
	return ok
}

func (t token) keyword() string {
	if !t.isKeyword() {
		return ""
	}
	return strings.ToUpper(t.text)
}

func (t token) isPunct(s string) bool {
	return t.kind == tokPunct && t.text == s
}
