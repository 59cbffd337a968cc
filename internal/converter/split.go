package converter

import "regexp"

// segment is one statement's text and its [start, end) bounds in the input.
type segment struct {
	text  string
	start int
	end   int
}

// goLine matches a T-SQL batch separator: GO alone on a line, optionally
// followed by a line comment.
var goLine = regexp.MustCompile(`(?im)^[ \t]*GO[ \t]*(?:--[^\n]*)?\r?$`)

// splitStatements splits input on semicolons and GO lines, honoring string
// literals, bracket quoting and comments. Whitespace-only and comment-only
// pieces are dropped; remaining segments are trimmed so their bounds cover
// statement text exactly.
func splitStatements(input string) []segment {
	var segs []segment
	for _, chunk := range splitOnSemicolons(input) {
		segs = append(segs, splitOnGoLines(input, chunk)...)
	}

	out := segs[:0]
	for _, s := range segs {
		if t, ok := trimSegment(input, s); ok {
			out = append(out, t)
		}
	}
	return out
}

// splitOnSemicolons returns statement bounds between top-level semicolons.
// The terminators themselves belong to the separator region.
func splitOnSemicolons(s string) []segment {
	var segs []segment
	start := 0
	i := 0
	n := len(s)

	for i < n {
		switch c := s[i]; {
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
		case c == '\'':
			i++
			for i < n {
				if s[i] == '\'' {
					if i+1 < n && s[i+1] == '\'' {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
		case c == '"':
			i++
			for i < n && s[i] != '"' {
				i++
			}
			if i < n {
				i++
			}
		case c == '[':
			for i < n && s[i] != ']' {
				i++
			}
			if i < n {
				i++
			}
		case c == ';':
			segs = append(segs, segment{start: start, end: i})
			i++
			start = i
		default:
			i++
		}
	}
	if start < n {
		segs = append(segs, segment{start: start, end: n})
	}
	return segs
}

// splitOnGoLines splits one semicolon-delimited chunk on GO separator lines.
func splitOnGoLines(input string, chunk segment) []segment {
	text := input[chunk.start:chunk.end]
	matches := goLine.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []segment{chunk}
	}

	var segs []segment
	prev := 0
	for _, m := range matches {
		segs = append(segs, segment{start: chunk.start + prev, end: chunk.start + m[0]})
		prev = m[1]
	}
	segs = append(segs, segment{start: chunk.start + prev, end: chunk.end})
	return segs
}

// trimSegment narrows bounds to the statement's actual text and reports
// whether anything beyond whitespace and comments remains.
func trimSegment(input string, s segment) (segment, bool) {
	start, end := s.start, s.end
	for start < end && isSpace(input[start]) {
		start++
	}
	for end > start && isSpace(input[end-1]) {
		end--
	}
	if start >= end || commentOnly(input[start:end]) {
		return segment{}, false
	}
	return segment{text: input[start:end], start: start, end: end}, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// commentOnly reports whether text holds nothing but comments and whitespace.
func commentOnly(text string) bool {
	i := 0
	n := len(text)
	for i < n {
		switch c := text[i]; {
		case isSpace(c):
			i++
		case c == '-' && i+1 < n && text[i+1] == '-':
			for i < n && text[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && text[i+1] == '*':
			i += 2
			for i < n {
				if text[i] == '*' && i+1 < n && text[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
		default:
			return false
		}
	}
	return true
}
