package chunker

import "strings"

// indentChunker scans indentation-delimited languages. A definition keyword
// at indentation level L opens a chunk; the chunk closes on the first
// subsequent substantive line whose indentation is <= L. This is a flat
// heuristic scan without an indentation stack: nested definitions close
// their enclosing chunk, so deeply nested code can be mis-chunked. A chunk
// still open at end of file always closes at the last line.
type indentChunker struct{}

var indentDefKeywords = []string{"def ", "async def ", "class "}

func (indentChunker) Scan(lines []string) []span {
	var spans []span

	open := false
	var openKind Kind
	var openIndent, start int

	for i, line := range lines {
		lineNo := i + 1
		stripped := strings.TrimLeft(line, " \t")
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}

		indent := len(line) - len(stripped)

		// Any definition keyword opens a new chunk, even a nested one:
		// there is no indentation stack, so a nested def splits its
		// enclosing definition. Known limitation of the flat scan.
		if kind, ok := indentDefKind(stripped); ok {
			if open {
				spans = append(spans, span{start: start, end: lineNo - 1, kind: openKind})
			}
			open = true
			openKind = kind
			openIndent = indent
			start = lineNo
			continue
		}

		if open && indent <= openIndent {
			// Dedent back to the definition's level ends the chunk on the
			// previous line; the dedented line belongs to the next region.
			spans = append(spans, span{start: start, end: lineNo - 1, kind: openKind})
			open = false
		}
	}

	if open {
		spans = append(spans, span{start: start, end: len(lines), kind: openKind})
	}

	return spans
}

// indentDefKind classifies a stripped line as a definition opener.
func indentDefKind(stripped string) (Kind, bool) {
	for _, kw := range indentDefKeywords {
		if strings.HasPrefix(stripped, kw) {
			if kw == "class " {
				return KindClass, true
			}
			return KindFunction, true
		}
	}
	return "", false
}
