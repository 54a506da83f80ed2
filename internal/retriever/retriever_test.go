package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/codescope-ai/codescope/internal/vectorstore"
)

// fixedEmbedder returns a canned vector per query text.
type fixedEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fixedEmbedder) Dimensions() int { return 3 }
func (f *fixedEmbedder) Name() string    { return "fixed" }

func seededStore(t *testing.T) vectorstore.Store {
	t.Helper()
	ctx := context.Background()

	store, err := vectorstore.NewChromemStore("")
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := store.EnsureCollection(ctx, vectorstore.CollectionSpec{Name: "codebase", Dimension: 3}); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}

	points := []vectorstore.Point{
		{
			ID:     1,
			Vector: []float32{1, 0, 0},
			Payload: vectorstore.Payload{
				FilePath: "auth/login.py", StartLine: 10, EndLine: 24,
				Kind: "function", Language: "python",
				Content: "def login(user): ...", ProjectScope: "/repo/alpha",
			},
		},
		{
			ID:     2,
			Vector: []float32{0, 1, 0},
			Payload: vectorstore.Payload{
				FilePath: "db/pool.go", StartLine: 1, EndLine: 40,
				Kind: "function", Language: "go",
				Content: "func NewPool() {}", ProjectScope: "/repo/beta",
			},
		},
		{
			ID:     3,
			Vector: []float32{0.9, 0.1, 0},
			Payload: vectorstore.Payload{
				FilePath: "auth/session.py", StartLine: 5, EndLine: 30,
				Kind: "class", Language: "python",
				Content: "class Session: ...", ProjectScope: "/repo/alpha",
			},
		},
	}
	if err := store.Upsert(ctx, "codebase", points); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return store
}

func TestSearchRanksBySimilarity(t *testing.T) {
	store := seededStore(t)
	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"how does login work": {1, 0, 0},
	}}
	r := New(embedder, store, "codebase", zap.NewNop())

	chunks, err := r.Search(context.Background(), Request{Query: "how does login work", Limit: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].FilePath != "auth/login.py" {
		t.Errorf("best hit = %s, want auth/login.py", chunks[0].FilePath)
	}
	if chunks[1].FilePath != "auth/session.py" {
		t.Errorf("second hit = %s, want auth/session.py", chunks[1].FilePath)
	}
	if chunks[0].Score < chunks[1].Score {
		t.Errorf("scores not descending: %f then %f", chunks[0].Score, chunks[1].Score)
	}
	if chunks[0].StartLine != 10 || chunks[0].EndLine != 24 {
		t.Errorf("citation lost: %+v", chunks[0])
	}
}

func TestSearchScopeFilter(t *testing.T) {
	store := seededStore(t)
	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"pool": {0, 1, 0},
	}}
	r := New(embedder, store, "codebase", zap.NewNop())

	chunks, err := r.Search(context.Background(), Request{
		Query:        "pool",
		Limit:        10,
		ProjectScope: "/repo/alpha",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, c := range chunks {
		if c.ProjectScope != "/repo/alpha" {
			t.Errorf("chunk from wrong scope: %+v", c)
		}
	}
	if len(chunks) != 2 {
		t.Errorf("expected the 2 alpha chunks, got %d", len(chunks))
	}
}

func TestSearchMissingCollectionIsEmpty(t *testing.T) {
	store, err := vectorstore.NewChromemStore("")
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	embedder := &fixedEmbedder{vectors: map[string][]float32{}}
	r := New(embedder, store, "codebase", zap.NewNop())

	chunks, err := r.Search(context.Background(), Request{Query: "anything"})
	if err != nil {
		t.Fatalf("Search on unindexed collection: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestSearchEmbedErrorPropagates(t *testing.T) {
	store := seededStore(t)
	wantErr := errors.New("model unavailable")
	r := New(&fixedEmbedder{err: wantErr}, store, "codebase", zap.NewNop())

	_, err := r.Search(context.Background(), Request{Query: "anything"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected embedding error to propagate, got %v", err)
	}
}

func TestBuildContext(t *testing.T) {
	chunks := []ScoredChunk{
		{FilePath: "a.py", StartLine: 1, EndLine: 4, Content: "def a(): pass"},
		{FilePath: "b.py", StartLine: 10, EndLine: 12, Content: "def b(): pass"},
	}

	got := BuildContext(chunks)
	if !strings.Contains(got, "File: a.py (lines 1-4)\ndef a(): pass") {
		t.Errorf("missing first citation block:\n%s", got)
	}
	if !strings.Contains(got, "File: b.py (lines 10-12)\ndef b(): pass") {
		t.Errorf("missing second citation block:\n%s", got)
	}

	if BuildContext(nil) != "" {
		t.Error("empty retrieval should produce an empty context")
	}
}
