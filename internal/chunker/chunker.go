// Package chunker splits source files into labeled line-range chunks, the
// indexable unit of the vector collection. Splitting is heuristic and
// line-based, not a real parser: each language family gets a scanner that
// approximates top-level definition boundaries, and everything else falls
// back to fixed-size windows. The scanners are isolated behind the
// LanguageChunker interface so a real parser can replace one per language
// without touching the pipeline.
package chunker

import "strings"

// Kind labels what a chunk represents.
type Kind string

const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindVariable  Kind = "variable"
	KindFile      Kind = "file"
	KindCodeBlock Kind = "code-block"
)

// SourceFile is a file handed to the chunker: path relative to the indexed
// root, detected language tag, and raw content. It is read once per pass.
type SourceFile struct {
	Path     string
	Language string
	Content  []byte
}

// Chunk is a contiguous line range of a source file. StartLine and EndLine
// are 1-based and inclusive, with StartLine <= EndLine. Chunks of one file
// are disjoint and cover it in line order; only blank or comment-only runs
// may be skipped.
type Chunk struct {
	FilePath     string
	StartLine    int
	EndLine      int
	Kind         Kind
	Language     string
	Content      string
	ProjectScope string
}

// span is a scanner-internal line range, 1-based inclusive.
type span struct {
	start, end int
	kind       Kind
}

// LanguageChunker finds chunk boundaries in a file's lines. Implementations
// must return spans in ascending, non-overlapping line order; uncovered
// lines are filled in by the caller.
type LanguageChunker interface {
	Scan(lines []string) []span
}

// Chunker splits files using per-language-family scanners.
type Chunker struct {
	windowLines int
}

// New creates a Chunker. windowLines is the fallback window size for
// languages without boundary detection.
func New(windowLines int) *Chunker {
	if windowLines <= 0 {
		windowLines = 100
	}
	return &Chunker{windowLines: windowLines}
}

// indentLanguages use indentation-delimited definitions.
var indentLanguages = map[string]bool{
	"python": true,
}

// braceLanguages use brace-delimited bodies.
var braceLanguages = map[string]bool{
	"go":         true,
	"javascript": true,
	"typescript": true,
	"java":       true,
	"rust":       true,
	"c":          true,
	"cpp":        true,
	"csharp":     true,
	"kotlin":     true,
	"scala":      true,
	"swift":      true,
	"php":        true,
}

// forLanguage selects the scanner for a language tag.
func (c *Chunker) forLanguage(language string) LanguageChunker {
	switch {
	case indentLanguages[language]:
		return &indentChunker{}
	case braceLanguages[language]:
		return &braceChunker{}
	default:
		return &windowChunker{size: c.windowLines}
	}
}

// Parse splits a file into chunks. It never fails: files with no detected
// boundaries degrade to a single file-kind chunk spanning the whole content.
func (c *Chunker) Parse(file SourceFile) []Chunk {
	lines := strings.Split(string(file.Content), "\n")

	// Empty and whitespace-only files become a single file-kind chunk.
	if strings.TrimSpace(string(file.Content)) == "" {
		return []Chunk{{
			FilePath:  file.Path,
			StartLine: 1,
			EndLine:   len(lines),
			Kind:      KindFile,
			Language:  file.Language,
			Content:   string(file.Content),
		}}
	}

	spans := c.forLanguage(file.Language).Scan(lines)
	spans = fillGaps(spans, lines)

	if len(spans) == 0 {
		return []Chunk{{
			FilePath:  file.Path,
			StartLine: 1,
			EndLine:   len(lines),
			Kind:      KindFile,
			Language:  file.Language,
			Content:   string(file.Content),
		}}
	}

	chunks := make([]Chunk, len(spans))
	for i, s := range spans {
		chunks[i] = Chunk{
			FilePath:  file.Path,
			StartLine: s.start,
			EndLine:   s.end,
			Kind:      s.kind,
			Language:  file.Language,
			Content:   strings.Join(lines[s.start-1:s.end], "\n"),
		}
	}
	return chunks
}

// fillGaps emits code-block spans for uncovered line runs that contain at
// least one substantive line. Runs of blank or comment-only lines stay
// unindexed, so the returned spans are disjoint and cover the file up to
// those skipped runs.
func fillGaps(spans []span, lines []string) []span {
	if len(spans) == 0 {
		return spans
	}

	var out []span
	next := 1 // next uncovered line
	for _, s := range spans {
		if s.start > next {
			if gap, ok := gapSpan(next, s.start-1, lines); ok {
				out = append(out, gap)
			}
		}
		out = append(out, s)
		next = s.end + 1
	}
	if next <= len(lines) {
		if gap, ok := gapSpan(next, len(lines), lines); ok {
			out = append(out, gap)
		}
	}
	return out
}

// gapSpan builds a code-block span for lines [start, end] if the run has
// any line that is not blank and not a comment.
func gapSpan(start, end int, lines []string) (span, bool) {
	for i := start; i <= end; i++ {
		if isSubstantive(lines[i-1]) {
			return span{start: start, end: end, kind: KindCodeBlock}, true
		}
	}
	return span{}, false
}

// isSubstantive reports whether a line is neither blank nor a line comment.
func isSubstantive(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return !strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "//")
}

// indentOf returns the count of leading space and tab characters.
func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
