package indexer

import (
	"errors"
	"time"
)

// State names a phase of an indexing run.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Errors returned by Service entry points.
var (
	// ErrBusy is returned when an indexing run is already active for the
	// requested scope.
	ErrBusy = errors.New("indexer: indexing already in progress")

	// ErrRootNotFound is returned when the requested scope is not an
	// existing directory.
	ErrRootNotFound = errors.New("indexer: root directory not found")
)

// Summary counts the outcome of a single indexing run.
type Summary struct {
	FilesTotal      int     `json:"files_total"`
	FilesIndexed    int     `json:"files_indexed"`
	FilesFailed     int     `json:"files_failed"`
	ChunksIndexed   int     `json:"chunks_indexed"`
	ChunksSkipped   int     `json:"chunks_skipped"`
	ChunksFailed    int     `json:"chunks_failed"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Status reports the current or most recent run for a scope.
type Status struct {
	State      State     `json:"state"`
	Scope      string    `json:"scope,omitempty"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Error      string    `json:"error,omitempty"`
	Summary    Summary   `json:"summary"`
}

// Values of CollectionStatus.Status.
const (
	StatusIndexed    = "indexed"
	StatusNotIndexed = "not_indexed"
)

// CollectionStatus reports whether the collection holds any points,
// independent of run history. TotalFiles is the current candidate file
// count for the scope, not the count at indexing time.
type CollectionStatus struct {
	Status       string `json:"status"`
	IndexedCount int    `json:"indexed_count"`
	TotalFiles   int    `json:"total_files"`
}

// ProgressFunc is called after each file is processed.
type ProgressFunc func(processed, total int, currentFile string)
