package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// deniedDirs are directory names skipped wholesale during traversal:
// VCS metadata, dependency caches, build outputs, virtual environments.
var deniedDirs = []string{
	".git",
	".svn",
	".hg",
	"__pycache__",
	"node_modules",
	"vendor",
	".venv",
	"venv",
	"env",
	"dist",
	"build",
	".pytest_cache",
	".mypy_cache",
	".ruff_cache",
	"target",
	"bin",
	"obj",
	".idea",
	".vscode",
	".vs",
	".next",
	".codescope",
}

// shouldSkipDir checks whether a directory name matches a deny-list entry.
// Matching subtrees are never descended into.
func shouldSkipDir(name string) bool {
	for _, denied := range deniedDirs {
		if strings.EqualFold(name, denied) {
			return true
		}
	}
	return false
}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks if relPath matches any of the given glob patterns.
// It uses doublestar for ** support and also matches bare filenames.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
