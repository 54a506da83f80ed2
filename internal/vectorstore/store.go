package vectorstore

import (
	"context"
	"errors"
)

// Errors shared by all store implementations. Callers match these with
// errors.Is to distinguish recoverable conditions from transport failures.
var (
	// ErrCollectionNotFound is returned when an operation targets a
	// collection that has not been created.
	ErrCollectionNotFound = errors.New("vectorstore: collection not found")

	// ErrCollectionMismatch is returned by EnsureCollection when a
	// collection already exists with a different dimensionality.
	ErrCollectionMismatch = errors.New("vectorstore: collection exists with different dimension")

	// ErrDimensionMismatch is returned when a vector's length does not
	// match the collection it is written to or searched against.
	ErrDimensionMismatch = errors.New("vectorstore: vector dimension mismatch")
)

// Payload carries the citation metadata stored alongside each vector.
// Every field round-trips through the backend unchanged.
type Payload struct {
	FilePath     string `json:"file_path"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	Kind         string `json:"kind"`
	Language     string `json:"language"`
	Content      string `json:"content"`
	ProjectScope string `json:"project_scope"`
	ContentHash  string `json:"content_hash"`
}

// Point is a single stored vector with its payload. IDs are stable
// 64-bit values derived from the chunk's location, so re-writing the
// same point overwrites rather than duplicates.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// ScoredPoint is a search hit with its similarity score, higher is better.
type ScoredPoint struct {
	Point
	Score float32
}

// CollectionSpec describes a collection to create or validate.
// All collections use cosine distance.
type CollectionSpec struct {
	Name      string
	Dimension int
}

// Query is a nearest-neighbor search request. An empty ProjectScope
// matches points from every scope.
type Query struct {
	Vector       []float32
	Limit        int
	ProjectScope string
}

// Stats reports basic collection state.
type Stats struct {
	PointCount int
}

// Store is the vector database abstraction. Implementations must make
// Upsert idempotent per point ID and must never return an error for a
// search against an empty collection.
type Store interface {
	// EnsureCollection creates the collection if missing. If it already
	// exists with a matching dimension the call is a no-op; a dimension
	// conflict returns ErrCollectionMismatch.
	EnsureCollection(ctx context.Context, spec CollectionSpec) error

	// Upsert writes points, overwriting any existing point with the same ID.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Retrieve fetches points by ID. IDs with no stored point are simply
	// absent from the result, not an error.
	Retrieve(ctx context.Context, collection string, ids []uint64) ([]Point, error)

	// Search returns up to Limit points ordered by descending similarity.
	// An empty collection yields an empty result.
	Search(ctx context.Context, collection string, q Query) ([]ScoredPoint, error)

	// DeleteCollection removes the collection and all of its points.
	// Deleting a collection that does not exist is not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Stats reports the number of stored points.
	Stats(ctx context.Context, collection string) (Stats, error)

	// Close releases any connections or file handles held by the store.
	Close() error
}
