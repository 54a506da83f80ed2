package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemStore implements Store on an embedded chromem-go database.
// With an empty dataDir the store is purely in-memory; otherwise chromem
// persists every write under the given directory.
type ChromemStore struct {
	db *chromem.DB

	mu   sync.Mutex
	dims map[string]int
}

// NewChromemStore opens an embedded store. dataDir may be empty for an
// in-memory database.
func NewChromemStore(dataDir string) (*ChromemStore, error) {
	var (
		db  *chromem.DB
		err error
	)
	if dataDir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dataDir, false)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	}
	return &ChromemStore{db: db, dims: make(map[string]int)}, nil
}

// noEmbed guards against accidental text queries: every vector written or
// searched here is computed upstream.
func noEmbed(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("vectorstore: embeddings must be precomputed")
}

func (s *ChromemStore) EnsureCollection(_ context.Context, spec CollectionSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.dims[spec.Name]; ok && d != spec.Dimension {
		return fmt.Errorf("collection %q has dimension %d, want %d: %w",
			spec.Name, d, spec.Dimension, ErrCollectionMismatch)
	}
	if _, err := s.db.GetOrCreateCollection(spec.Name, nil, noEmbed); err != nil {
		return fmt.Errorf("ensure collection %q: %w", spec.Name, err)
	}
	s.dims[spec.Name] = spec.Dimension
	return nil
}

func (s *ChromemStore) collection(name string) (*chromem.Collection, int, error) {
	s.mu.Lock()
	dim := s.dims[name]
	s.mu.Unlock()

	col := s.db.GetCollection(name, noEmbed)
	if col == nil {
		return nil, 0, fmt.Errorf("collection %q: %w", name, ErrCollectionNotFound)
	}
	return col, dim, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	col, dim, err := s.collection(collection)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(points))
	for i, p := range points {
		if dim > 0 && len(p.Vector) != dim {
			return fmt.Errorf("point %d has %d dimensions, collection %q wants %d: %w",
				p.ID, len(p.Vector), collection, dim, ErrDimensionMismatch)
		}
		docs[i] = chromem.Document{
			ID:        strconv.FormatUint(p.ID, 10),
			Content:   p.Payload.Content,
			Metadata:  payloadToMetadata(p.Payload),
			Embedding: p.Vector,
		}
	}

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("chromem upsert: %w", err)
	}
	return nil
}

func (s *ChromemStore) Retrieve(ctx context.Context, collection string, ids []uint64) ([]Point, error) {
	col, _, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(ids))
	for _, id := range ids {
		doc, err := col.GetByID(ctx, strconv.FormatUint(id, 10))
		if err != nil {
			// Absent IDs are expected during incremental re-indexing.
			continue
		}
		points = append(points, Point{
			ID:      id,
			Vector:  doc.Embedding,
			Payload: metadataToPayload(doc.Metadata, doc.Content),
		})
	}
	return points, nil
}

func (s *ChromemStore) Search(ctx context.Context, collection string, q Query) ([]ScoredPoint, error) {
	col, dim, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	if dim > 0 && len(q.Vector) != dim {
		return nil, fmt.Errorf("query has %d dimensions, collection %q wants %d: %w",
			len(q.Vector), collection, dim, ErrDimensionMismatch)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return []ScoredPoint{}, nil
	}
	if limit > count {
		limit = count
	}

	var where map[string]string
	if q.ProjectScope != "" {
		where = map[string]string{"project_scope": q.ProjectScope}
	}

	results, err := col.QueryEmbedding(ctx, q.Vector, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]ScoredPoint, len(results))
	for i, r := range results {
		id, _ := strconv.ParseUint(r.ID, 10, 64)
		hits[i] = ScoredPoint{
			Point: Point{
				ID:      id,
				Vector:  r.Embedding,
				Payload: metadataToPayload(r.Metadata, r.Content),
			},
			Score: r.Similarity,
		}
	}

	// Stable order for equal scores so repeated searches agree.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	return hits, nil
}

func (s *ChromemStore) DeleteCollection(_ context.Context, collection string) error {
	if err := s.db.DeleteCollection(collection); err != nil {
		return fmt.Errorf("chromem delete collection: %w", err)
	}
	s.mu.Lock()
	delete(s.dims, collection)
	s.mu.Unlock()
	return nil
}

func (s *ChromemStore) Stats(_ context.Context, collection string) (Stats, error) {
	col, _, err := s.collection(collection)
	if err != nil {
		return Stats{}, err
	}
	return Stats{PointCount: col.Count()}, nil
}

// Close is a no-op for the embedded store; persistence happens per write.
func (s *ChromemStore) Close() error { return nil }

// payloadToMetadata flattens a Payload to the string map chromem stores.
// Content lives in the document body, not the metadata.
func payloadToMetadata(p Payload) map[string]string {
	return map[string]string{
		"file_path":     p.FilePath,
		"start_line":    strconv.Itoa(p.StartLine),
		"end_line":      strconv.Itoa(p.EndLine),
		"kind":          p.Kind,
		"language":      p.Language,
		"project_scope": p.ProjectScope,
		"content_hash":  p.ContentHash,
	}
}

func metadataToPayload(m map[string]string, content string) Payload {
	startLine, _ := strconv.Atoi(m["start_line"])
	endLine, _ := strconv.Atoi(m["end_line"])
	return Payload{
		FilePath:     m["file_path"],
		StartLine:    startLine,
		EndLine:      endLine,
		Kind:         m["kind"],
		Language:     m["language"],
		Content:      content,
		ProjectScope: m["project_scope"],
		ContentHash:  m["content_hash"],
	}
}
