package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/codescope-ai/codescope/internal/embeddings"
	"github.com/codescope-ai/codescope/internal/vectorstore"
)

// DefaultLimit is the number of chunks returned when the caller does not ask
// for a specific count.
const DefaultLimit = 5

// ScoredChunk is a retrieved chunk with its citation and similarity score.
type ScoredChunk struct {
	FilePath     string  `json:"file_path"`
	StartLine    int     `json:"start_line"`
	EndLine      int     `json:"end_line"`
	Kind         string  `json:"kind"`
	Language     string  `json:"language"`
	Content      string  `json:"content"`
	ProjectScope string  `json:"project_scope,omitempty"`
	Score        float32 `json:"score"`
}

// Request narrows a retrieval. An empty ProjectScope searches every scope
// in the collection.
type Request struct {
	Query        string
	Limit        int
	ProjectScope string
}

// Retriever answers natural-language queries with ranked code chunks.
type Retriever struct {
	embedder   embeddings.Embedder
	store      vectorstore.Store
	collection string
	logger     *zap.Logger
}

// New creates a Retriever over the given collection.
func New(embedder embeddings.Embedder, store vectorstore.Store, collection string, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
		logger:     logger,
	}
}

// Search embeds the query and returns the closest chunks, ranked by
// descending similarity. A query against an empty or missing index yields
// an empty slice, not an error; embedding failures propagate to the caller.
func (r *Retriever) Search(ctx context.Context, req Request) ([]ScoredChunk, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	vectors, err := r.embedder.Embed(ctx, []string{req.Query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.store.Search(ctx, r.collection, vectorstore.Query{
		Vector:       vectors[0],
		Limit:        limit,
		ProjectScope: req.ProjectScope,
	})
	if err != nil {
		// A collection that was never indexed is the same as an empty one.
		if errors.Is(err, vectorstore.ErrCollectionNotFound) {
			return []ScoredChunk{}, nil
		}
		return nil, fmt.Errorf("search collection: %w", err)
	}

	chunks := make([]ScoredChunk, len(hits))
	for i, h := range hits {
		chunks[i] = ScoredChunk{
			FilePath:     h.Payload.FilePath,
			StartLine:    h.Payload.StartLine,
			EndLine:      h.Payload.EndLine,
			Kind:         h.Payload.Kind,
			Language:     h.Payload.Language,
			Content:      h.Payload.Content,
			ProjectScope: h.Payload.ProjectScope,
			Score:        h.Score,
		}
	}

	r.logger.Debug("retrieval",
		zap.String("collection", r.collection),
		zap.Int("limit", limit),
		zap.Int("hits", len(chunks)),
	)
	return chunks, nil
}

// BuildContext renders chunks as a grounding block for a chat model. Each
// chunk is introduced by its citation so answers can point back at code.
func BuildContext(chunks []ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "File: %s (lines %d-%d)\n", c.FilePath, c.StartLine, c.EndLine)
		sb.WriteString(c.Content)
	}
	return sb.String()
}
