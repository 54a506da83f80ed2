package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/codescope-ai/codescope/internal/chunker"
	"github.com/codescope-ai/codescope/internal/config"
	"github.com/codescope-ai/codescope/internal/embeddings"
	"github.com/codescope-ai/codescope/internal/vectorstore"
	"github.com/codescope-ai/codescope/internal/walker"
)

// Service orchestrates indexing runs: walk -> chunk -> embed -> store.
// Runs for the same scope are serialized; a second Start while one is
// active returns ErrBusy.
type Service struct {
	embedder embeddings.Embedder
	store    vectorstore.Store
	chunker  *chunker.Chunker
	cfg      *config.Config
	logger   *zap.Logger

	locks *scopeLocks

	mu   sync.Mutex
	runs map[string]*run
}

type run struct {
	status Status
	cancel context.CancelFunc
}

// NewService creates an indexing service.
func NewService(embedder embeddings.Embedder, store vectorstore.Store, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		chunker:  chunker.New(cfg.WindowLines),
		cfg:      cfg,
		logger:   logger,
		locks:    newScopeLocks(),
		runs:     make(map[string]*run),
	}
}

// Start launches an indexing run in the background and returns once it is
// accepted. Progress is observable through Status. With force set, stored
// content hashes are ignored and every chunk is re-embedded.
func (s *Service) Start(scope string, force bool) error {
	root, err := resolveRoot(scope)
	if err != nil {
		return err
	}
	if !s.locks.acquire(root) {
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.beginRun(root, cancel)

	go func() {
		defer cancel()
		defer s.locks.release(root)
		summary, err := s.index(ctx, root, force, nil)
		s.finishRun(root, summary, err)
	}()
	return nil
}

// Run indexes synchronously, reporting per-file progress through onProgress.
func (s *Service) Run(ctx context.Context, scope string, force bool, onProgress ProgressFunc) (Summary, error) {
	root, err := resolveRoot(scope)
	if err != nil {
		return Summary{}, err
	}
	if !s.locks.acquire(root) {
		return Summary{}, ErrBusy
	}
	defer s.locks.release(root)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.beginRun(root, cancel)

	summary, err := s.index(ctx, root, force, onProgress)
	s.finishRun(root, summary, err)
	return summary, err
}

// Status reports the current or most recent run for a scope. A scope that
// was never indexed reports StateIdle.
func (s *Service) Status(scope string) Status {
	root, err := resolveRoot(scope)
	if err != nil {
		root = scope
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[root]
	if !ok {
		return Status{State: StateIdle, Scope: root}
	}
	return r.status
}

// CollectionStatus reports whether the collection holds any points and how
// many candidate files the scope currently contains. A collection that does
// not exist yet counts as not indexed.
func (s *Service) CollectionStatus(ctx context.Context, scope string) (CollectionStatus, error) {
	cs := CollectionStatus{Status: StatusNotIndexed}

	stats, err := s.store.Stats(ctx, s.cfg.Collection)
	if err != nil && !errors.Is(err, vectorstore.ErrCollectionNotFound) {
		return cs, fmt.Errorf("collection stats: %w", err)
	}
	cs.IndexedCount = stats.PointCount
	if cs.IndexedCount > 0 {
		cs.Status = StatusIndexed
	}

	root, err := resolveRoot(scope)
	if err != nil {
		return cs, err
	}
	files, err := walker.Walk(walker.Config{
		RootDir:     root,
		Include:     s.cfg.Include,
		Exclude:     s.cfg.Exclude,
		MaxFileSize: s.cfg.MaxFileSize,
	})
	if err != nil {
		return cs, err
	}
	cs.TotalFiles = len(files)
	return cs, nil
}

// Clear cancels every active run and drops the collection with all of its
// points.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	for _, r := range s.runs {
		r.cancel()
	}
	s.runs = make(map[string]*run)
	s.mu.Unlock()

	if err := s.store.DeleteCollection(ctx, s.cfg.Collection); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	s.logger.Info("collection cleared", zap.String("collection", s.cfg.Collection))
	return nil
}

func resolveRoot(scope string) (string, error) {
	root, err := filepath.Abs(scope)
	if err != nil {
		return "", fmt.Errorf("resolve scope %q: %w", scope, err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	return root, nil
}

func (s *Service) beginRun(scope string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[scope] = &run{
		status: Status{State: StatePending, Scope: scope, StartedAt: time.Now()},
		cancel: cancel,
	}
}

func (s *Service) markRunning(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.runs[scope]; ok {
		r.status.State = StateRunning
	}
}

func (s *Service) finishRun(scope string, summary Summary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[scope]
	if !ok {
		// Cleared while running.
		return
	}
	r.status.Summary = summary
	r.status.FinishedAt = time.Now()
	if err != nil {
		r.status.State = StateFailed
		r.status.Error = err.Error()
	} else {
		r.status.State = StateCompleted
	}
}

// pipeline accumulates chunks across files so embedding requests go out in
// fixed-size batches regardless of file boundaries.
type pipeline struct {
	svc   *Service
	scope string
	force bool
	sum   Summary
	batch []pendingChunk
}

type pendingChunk struct {
	text  string
	point vectorstore.Point
}

func (s *Service) index(ctx context.Context, scope string, force bool, onProgress ProgressFunc) (Summary, error) {
	start := time.Now()
	s.markRunning(scope)

	p := &pipeline{svc: s, scope: scope, force: force}
	finish := func(err error) (Summary, error) {
		p.sum.DurationSeconds = time.Since(start).Seconds()
		return p.sum, err
	}

	files, err := walker.Walk(walker.Config{
		RootDir:     scope,
		Include:     s.cfg.Include,
		Exclude:     s.cfg.Exclude,
		MaxFileSize: s.cfg.MaxFileSize,
	})
	if err != nil {
		return finish(err)
	}
	p.sum.FilesTotal = len(files)

	spec := vectorstore.CollectionSpec{Name: s.cfg.Collection, Dimension: s.embedder.Dimensions()}
	if err := s.store.EnsureCollection(ctx, spec); err != nil {
		return finish(err)
	}

	s.logger.Info("indexing started",
		zap.String("scope", scope),
		zap.Int("files", len(files)),
		zap.String("collection", s.cfg.Collection),
	)

	for i, f := range files {
		// Cancellation is checked between files, not mid-file.
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if err := p.indexFile(ctx, f); err != nil {
			return finish(err)
		}
		if onProgress != nil {
			onProgress(i+1, len(files), f.RelPath)
		}
	}
	if err := p.flush(ctx); err != nil {
		return finish(err)
	}

	summary, err := finish(nil)
	s.logger.Info("indexing finished",
		zap.String("scope", scope),
		zap.Int("files_indexed", summary.FilesIndexed),
		zap.Int("chunks_indexed", summary.ChunksIndexed),
		zap.Int("chunks_skipped", summary.ChunksSkipped),
		zap.Int("chunks_failed", summary.ChunksFailed),
		zap.Float64("seconds", summary.DurationSeconds),
	)
	return summary, err
}

func (p *pipeline) indexFile(ctx context.Context, f walker.FileInfo) error {
	s := p.svc

	data, err := os.ReadFile(f.Path)
	if err != nil {
		s.logger.Warn("read failed, skipping file", zap.String("file", f.RelPath), zap.Error(err))
		p.sum.FilesFailed++
		return nil
	}

	chunks := s.chunker.Parse(chunker.SourceFile{
		Path:     f.RelPath,
		Language: f.Language,
		Content:  data,
	})

	ids := make([]uint64, len(chunks))
	hashes := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = PointID(f.Path, c.StartLine, c.EndLine)
		hashes[i] = ContentHash(c.Content)
	}

	// Stored hashes tell us which chunks are unchanged since the last run.
	// A forced run skips the comparison and re-embeds everything.
	existing := make(map[uint64]string)
	if !p.force {
		stored, err := s.store.Retrieve(ctx, s.cfg.Collection, ids)
		if err != nil {
			s.logger.Warn("retrieve failed, re-embedding whole file",
				zap.String("file", f.RelPath), zap.Error(err))
		} else {
			for _, pt := range stored {
				existing[pt.ID] = pt.Payload.ContentHash
			}
		}
	}

	for i, c := range chunks {
		if h, ok := existing[ids[i]]; ok && h == hashes[i] {
			p.sum.ChunksSkipped++
			continue
		}
		point := vectorstore.Point{
			ID: ids[i],
			Payload: vectorstore.Payload{
				FilePath:     f.RelPath,
				StartLine:    c.StartLine,
				EndLine:      c.EndLine,
				Kind:         string(c.Kind),
				Language:     c.Language,
				Content:      c.Content,
				ProjectScope: p.scope,
				ContentHash:  hashes[i],
			},
		}
		if err := p.add(ctx, c.Content, point); err != nil {
			return err
		}
	}

	p.sum.FilesIndexed++
	return nil
}

func (p *pipeline) add(ctx context.Context, text string, point vectorstore.Point) error {
	p.batch = append(p.batch, pendingChunk{text: text, point: point})
	if len(p.batch) >= p.svc.batchSize() {
		return p.flush(ctx)
	}
	return nil
}

// flush embeds the pending batch and writes it to the store. An embedding
// failure drops the batch and counts it as failed; a store failure aborts
// the run.
func (p *pipeline) flush(ctx context.Context) error {
	if len(p.batch) == 0 {
		return nil
	}
	s := p.svc

	texts := make([]string, len(p.batch))
	for i, pc := range p.batch {
		texts[i] = pc.text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("embedding batch failed, skipping chunks",
			zap.Int("chunks", len(p.batch)), zap.Error(err))
		p.sum.ChunksFailed += len(p.batch)
		p.batch = p.batch[:0]
		return nil
	}

	points := make([]vectorstore.Point, len(p.batch))
	for i, pc := range p.batch {
		pt := pc.point
		pt.Vector = vectors[i]
		points[i] = pt
	}
	if err := s.store.Upsert(ctx, s.cfg.Collection, points); err != nil {
		return fmt.Errorf("store batch: %w", err)
	}

	p.sum.ChunksIndexed += len(points)
	p.batch = p.batch[:0]
	return nil
}

func (s *Service) batchSize() int {
	if s.cfg.BatchSize > 0 {
		return s.cfg.BatchSize
	}
	return config.DefaultBatchSize
}
