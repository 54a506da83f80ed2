package chunker

import (
	"strings"
	"testing"
)

func parse(t *testing.T, path, language, content string) []Chunk {
	t.Helper()
	return New(100).Parse(SourceFile{Path: path, Language: language, Content: []byte(content)})
}

// assertInvariants checks the line-range invariants every chunk set must
// satisfy: 1 <= start <= end <= line count, ascending and non-overlapping.
func assertInvariants(t *testing.T, chunks []Chunk, lineCount int) {
	t.Helper()
	prevEnd := 0
	for i, c := range chunks {
		if c.StartLine < 1 || c.EndLine > lineCount {
			t.Errorf("chunk %d range %d-%d outside [1, %d]", i, c.StartLine, c.EndLine, lineCount)
		}
		if c.StartLine > c.EndLine {
			t.Errorf("chunk %d has start %d > end %d", i, c.StartLine, c.EndLine)
		}
		if c.StartLine <= prevEnd {
			t.Errorf("chunk %d (start %d) overlaps previous (end %d)", i, c.StartLine, prevEnd)
		}
		prevEnd = c.EndLine
	}
}

func TestPythonFunctionThenTopLevelStatement(t *testing.T) {
	content := "def foo():\n" +
		"    a = 1\n" +
		"    b = 2\n" +
		"    return a + b\n" +
		"print(foo())"

	chunks := parse(t, "app.py", "python", content)
	assertInvariants(t, chunks, 5)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(chunks), chunks)
	}

	fn := chunks[0]
	if fn.Kind != KindFunction {
		t.Errorf("chunk 0 kind = %q, want function", fn.Kind)
	}
	if fn.StartLine != 1 || fn.EndLine != 4 {
		t.Errorf("function chunk lines %d-%d, want 1-4", fn.StartLine, fn.EndLine)
	}
	if !strings.HasPrefix(fn.Content, "def foo():") || !strings.HasSuffix(fn.Content, "return a + b") {
		t.Errorf("function chunk content wrong: %q", fn.Content)
	}

	trailing := chunks[1]
	if trailing.Kind != KindCodeBlock {
		t.Errorf("chunk 1 kind = %q, want code-block", trailing.Kind)
	}
	if trailing.StartLine != 5 || trailing.EndLine != 5 {
		t.Errorf("trailing chunk lines %d-%d, want 5-5", trailing.StartLine, trailing.EndLine)
	}
}

func TestPythonLeadingImportsAndClass(t *testing.T) {
	content := "import os\n" +
		"import sys\n" +
		"\n" +
		"class Greeter:\n" +
		"    def __init__(self):\n" +
		"        self.name = \"hi\"\n"

	chunks := parse(t, "greet.py", "python", content)
	assertInvariants(t, chunks, 7)

	if chunks[0].Kind != KindCodeBlock || chunks[0].StartLine != 1 {
		t.Errorf("leading imports should be a code-block from line 1, got %+v", chunks[0])
	}
	if chunks[1].Kind != KindClass || chunks[1].StartLine != 4 {
		t.Errorf("class chunk should start at line 4, got %+v", chunks[1])
	}
}

func TestPythonNestedDefSplitsEnclosing(t *testing.T) {
	// The flat scan has no indentation stack: a nested def closes the
	// enclosing chunk. This asserts the known heuristic behaviour.
	content := "def outer():\n" +
		"    x = 1\n" +
		"    def inner():\n" +
		"        return 2\n" +
		"    return inner\n"

	chunks := parse(t, "nested.py", "python", content)
	assertInvariants(t, chunks, 6)

	if len(chunks) < 2 {
		t.Fatalf("expected the nested def to split the chunk, got %+v", chunks)
	}
	if chunks[0].StartLine != 1 || chunks[0].EndLine != 2 {
		t.Errorf("outer fragment lines %d-%d, want 1-2", chunks[0].StartLine, chunks[0].EndLine)
	}
	if chunks[1].StartLine != 3 {
		t.Errorf("inner chunk starts at %d, want 3", chunks[1].StartLine)
	}
}

func TestPythonOpenChunkClosesAtEOF(t *testing.T) {
	content := "def tail():\n    return 42"

	chunks := parse(t, "tail.py", "python", content)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Kind != KindFunction || chunks[0].StartLine != 1 || chunks[0].EndLine != 2 {
		t.Errorf("EOF chunk = %+v, want function 1-2", chunks[0])
	}
}

func TestEmptyFileYieldsFileChunk(t *testing.T) {
	chunks := parse(t, "empty.py", "python", "")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Kind != KindFile {
		t.Errorf("kind = %q, want file", chunks[0].Kind)
	}
	if chunks[0].Content != "" {
		t.Errorf("content = %q, want empty", chunks[0].Content)
	}
}

func TestNoBoundariesFallsBackToFileChunk(t *testing.T) {
	content := "x := compute()\ny := x * 2\n"
	chunks := parse(t, "frag.go", "go", content)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1: %+v", len(chunks), chunks)
	}
	if chunks[0].Kind != KindFile {
		t.Errorf("kind = %q, want file", chunks[0].Kind)
	}
	if chunks[0].StartLine != 1 || chunks[0].EndLine != 3 {
		t.Errorf("file chunk lines %d-%d, want 1-3", chunks[0].StartLine, chunks[0].EndLine)
	}
}

func TestBraceOneLineDeclaration(t *testing.T) {
	content := "package main\n" +
		"\n" +
		"import \"fmt\"\n" +
		"\n" +
		"func add(a, b int) int { return a + b }\n" +
		"\n" +
		"func main() {\n" +
		"\tfmt.Println(add(1, 2))\n" +
		"}"

	chunks := parse(t, "main.go", "go", content)
	assertInvariants(t, chunks, 9)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %+v", len(chunks), chunks)
	}

	if chunks[0].Kind != KindCodeBlock || chunks[0].StartLine != 1 || chunks[0].EndLine != 4 {
		t.Errorf("header chunk = %+v, want code-block 1-4", chunks[0])
	}
	if chunks[1].Kind != KindFunction || chunks[1].StartLine != 5 || chunks[1].EndLine != 5 {
		t.Errorf("one-liner chunk = %+v, want function 5-5", chunks[1])
	}
	if chunks[2].Kind != KindFunction || chunks[2].StartLine != 7 || chunks[2].EndLine != 9 {
		t.Errorf("main chunk = %+v, want function 7-9", chunks[2])
	}
}

func TestBraceClassAndVariable(t *testing.T) {
	content := "export const limit = 10;\n" +
		"class Queue {\n" +
		"  push(item) {\n" +
		"    this.items.push(item);\n" +
		"  }\n" +
		"}\n"

	chunks := parse(t, "queue.js", "javascript", content)
	assertInvariants(t, chunks, 7)

	if chunks[0].Kind != KindVariable || chunks[0].StartLine != 1 || chunks[0].EndLine != 1 {
		t.Errorf("variable chunk = %+v, want variable 1-1", chunks[0])
	}
	if chunks[1].Kind != KindClass || chunks[1].StartLine != 2 || chunks[1].EndLine != 6 {
		t.Errorf("class chunk = %+v, want class 2-6", chunks[1])
	}
}

func TestWindowFallbackExactCover(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 250; i++ {
		sb.WriteString("key: value\n")
	}
	// 250 content lines plus the empty line after the trailing newline.
	content := strings.TrimSuffix(sb.String(), "\n")

	chunks := New(100).Parse(SourceFile{Path: "conf.yaml", Language: "yaml", Content: []byte(content)})
	assertInvariants(t, chunks, 250)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	wantRanges := [][2]int{{1, 100}, {101, 200}, {201, 250}}
	for i, want := range wantRanges {
		if chunks[i].StartLine != want[0] || chunks[i].EndLine != want[1] {
			t.Errorf("window %d = %d-%d, want %d-%d", i, chunks[i].StartLine, chunks[i].EndLine, want[0], want[1])
		}
		if chunks[i].Kind != KindCodeBlock {
			t.Errorf("window %d kind = %q", i, chunks[i].Kind)
		}
	}

	// Windows must cover the file exactly, with no gaps.
	next := 1
	for _, c := range chunks {
		if c.StartLine != next {
			t.Errorf("gap before window at line %d", c.StartLine)
		}
		next = c.EndLine + 1
	}
	if next != 251 {
		t.Errorf("windows end at %d, want 251", next)
	}
}

func TestChunkContentMatchesLineRange(t *testing.T) {
	content := "def a():\n    return 1\ndef b():\n    return 2\n"
	lines := strings.Split(content, "\n")

	chunks := parse(t, "two.py", "python", content)
	assertInvariants(t, chunks, len(lines))

	for _, c := range chunks {
		want := strings.Join(lines[c.StartLine-1:c.EndLine], "\n")
		if c.Content != want {
			t.Errorf("chunk %d-%d content %q, want %q", c.StartLine, c.EndLine, c.Content, want)
		}
	}
}
