package walker

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestWalkAllowList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hi')\n")
	writeFile(t, dir, "app.go", "package main\n")
	writeFile(t, dir, "image.png", "not code")
	writeFile(t, dir, "binary.exe", "nope")

	files, err := Walk(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"app.go", "main.py"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk returned %v, want %v", got, want)
	}
}

func TestWalkDenyListDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/app.py", "x = 1\n")
	writeFile(t, dir, "node_modules/lib/index.js", "module.exports = {}\n")
	writeFile(t, dir, ".git/config.ini", "[core]\n")
	writeFile(t, dir, "__pycache__/app.py", "cached\n")
	writeFile(t, dir, "dist/bundle.js", "minified\n")

	files, err := Walk(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"src/app.py"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk returned %v, want %v", got, want)
	}
}

func TestWalkDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.py", "x = 1\n")
	writeFile(t, dir, "a/z.py", "x = 1\n")
	writeFile(t, dir, "a/a.py", "x = 1\n")
	writeFile(t, dir, "c.go", "package c\n")

	first, err := Walk(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	second, err := Walk(Config{RootDir: dir})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"a/a.py", "a/z.py", "b.py", "c.go"}
	if got := relPaths(first); !reflect.DeepEqual(got, want) {
		t.Errorf("first pass order %v, want %v", got, want)
	}
	if !reflect.DeepEqual(relPaths(first), relPaths(second)) {
		t.Error("two passes returned different orders")
	}
}

func TestWalkExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "x = 1\n")
	writeFile(t, dir, "generated/schema.py", "x = 1\n")

	files, err := Walk(Config{RootDir: dir, Exclude: []string{"generated/**"}})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"app.py"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk returned %v, want %v", got, want)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(Config{RootDir: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWalkSkipsBinaryAndOversized(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.py", "x = 1\n")
	writeFile(t, dir, "blob.py", "ab\x00cd")
	writeFile(t, dir, "big.py", strings.Repeat("a", 64))

	files, err := Walk(Config{RootDir: dir, MaxFileSize: 32})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"ok.py"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk returned %v, want %v", got, want)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"main.py":    "python",
		"app.tsx":    "typescript",
		"lib.rs":     "rust",
		"conf.yaml":  "yaml",
		"notes.md":   "markdown",
		"mystery.xy": "unknown",
	}
	for name, want := range cases {
		if got := DetectLanguage(name); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", name, got, want)
		}
	}
}
