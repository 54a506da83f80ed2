package walker

import (
	"path/filepath"
	"strings"
)

// extensionToLanguage maps file extensions to language tags. Extensions not
// present here are outside the indexing allow-list.
var extensionToLanguage = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rs":    "rust",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".clj":   "clojure",
	".sh":    "bash",
	".bash":  "bash",
	".zsh":   "bash",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
	".toml":  "toml",
	".ini":   "ini",
	".cfg":   "ini",
	".conf":  "ini",
	".md":    "markdown",
	".rst":   "rst",
}

// DetectLanguage returns the language tag for a filename, or "unknown"
// when the extension is not recognized.
func DetectLanguage(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}
	return "unknown"
}

// IsIndexable reports whether the file extension is on the allow-list.
func IsIndexable(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := extensionToLanguage[ext]
	return ok
}
