package chunker

import "strings"

// braceChunker scans brace-delimited languages with a running brace-depth
// counter. A declaration keyword opens a chunk; the chunk closes on the
// line where depth returns to zero after having gone positive. One-line
// declarations with the body on the same line produce a chunk of length 1.
// Brace-less declarations (plain variables) stay open until the next
// declaration or end of file.
type braceChunker struct{}

var braceDeclKeywords = []string{
	"func ",
	"function ",
	"async function ",
	"fn ",
	"class ",
	"interface ",
	"struct ",
	"enum ",
	"impl ",
	"type ",
	"const ",
	"let ",
	"var ",
	"export ",
	"public ",
	"private ",
	"protected ",
	"static ",
}

func (braceChunker) Scan(lines []string) []span {
	var spans []span

	open := false
	var openKind Kind
	var start, depth int
	seenBrace := false

	for i, line := range lines {
		lineNo := i + 1
		stripped := strings.TrimSpace(line)

		if kind, ok := braceDeclKind(stripped); ok && (!open || !seenBrace) {
			// A new top-level declaration closes a still-open brace-less
			// chunk on the previous line.
			if open {
				spans = append(spans, span{start: start, end: lineNo - 1, kind: openKind})
			}
			open = true
			openKind = kind
			start = lineNo
			depth = 0
			seenBrace = false
		}

		if !open {
			continue
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if strings.Contains(line, "{") {
			seenBrace = true
		}

		if seenBrace && depth <= 0 {
			spans = append(spans, span{start: start, end: lineNo, kind: openKind})
			open = false
		}
	}

	if open {
		spans = append(spans, span{start: start, end: len(lines), kind: openKind})
	}

	return spans
}

// braceDeclKind classifies a stripped line as a declaration opener.
func braceDeclKind(stripped string) (Kind, bool) {
	matched := false
	for _, kw := range braceDeclKeywords {
		if strings.HasPrefix(stripped, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	switch {
	case containsAny(stripped, "class ", "interface ", "struct ", "enum ", "impl "):
		return KindClass, true
	case containsAny(stripped, "func ", "func(", "function ", "fn ") || strings.Contains(stripped, "("):
		return KindFunction, true
	default:
		return KindVariable, true
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
