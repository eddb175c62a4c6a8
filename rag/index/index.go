// Package index implements the vector index the router and the
// ingestion pipeline share: an embedding function in front of an
// exhaustive nearest-neighbor search over stored chunks, snapshotted to
// a JSON file after every mutation. Distances are Euclidean (L2), the
// same scale Chroma reports: 0 means identical meaning and larger means
// less related.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/campusbot/collegebot/log"
	"github.com/campusbot/collegebot/rag"
)

// record is a stored chunk with its embedding.
type record struct {
	Doc       rag.Document `json:"doc"`
	Embedding []float32    `json:"embedding"`
}

// FileIndex is a rag.VectorIndex backed by an in-memory table with a
// durable JSON snapshot. Every mutating call rewrites the snapshot via a
// temp file and rename before returning, so a crash never leaves a
// partial file behind.
type FileIndex struct {
	mu       sync.RWMutex
	path     string
	embedder rag.Embedder
	logger   log.Logger
	records  []record
}

var _ rag.VectorIndex = (*FileIndex)(nil)

// Option configures a FileIndex.
type Option func(*FileIndex)

// WithLogger sets the index logger.
func WithLogger(logger log.Logger) Option {
	return func(ix *FileIndex) {
		ix.logger = logger
	}
}

// New creates a FileIndex persisted at path, loading any existing
// snapshot. An empty path keeps the index memory-only (no durability).
func New(path string, embedder rag.Embedder, opts ...Option) (*FileIndex, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	ix := &FileIndex{
		path:     path,
		embedder: embedder,
		logger:   log.NopLogger{},
	}
	for _, opt := range opts {
		opt(ix)
	}

	if path != "" {
		if err := ix.load(); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Upsert embeds and stores the given chunks, then persists the index.
func (ix *FileIndex) Upsert(ctx context.Context, docs []rag.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	embeddings, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(docs))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	// Stage the new table and swap it in only after the snapshot is on
	// disk, so a failed persist leaves no chunk visible to searches.
	updated := make([]record, len(ix.records), len(ix.records)+len(docs))
	copy(updated, ix.records)
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		updated = append(updated, record{Doc: doc, Embedding: embeddings[i]})
	}

	if err := ix.persist(updated); err != nil {
		return err
	}
	ix.records = updated

	ix.logger.Debug("index: upserted %d chunk(s), %d total", len(docs), len(ix.records))
	return nil
}

// SearchWithScore returns the k nearest chunks with their L2 distances,
// closest first.
func (ix *FileIndex) SearchWithScore(ctx context.Context, query string, k int) ([]rag.DocumentWithScore, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	queryEmbedding, err := ix.embedder.EmbedDocument(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.records) == 0 {
		return []rag.DocumentWithScore{}, nil
	}

	results := make([]rag.DocumentWithScore, len(ix.records))
	for i, rec := range ix.records {
		results[i] = rag.DocumentWithScore{
			Document: rec.Doc,
			Distance: l2Distance(queryEmbedding, rec.Embedding),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// RetrieveTopK returns the k nearest chunks without scores.
func (ix *FileIndex) RetrieveTopK(ctx context.Context, query string, k int) ([]rag.Document, error) {
	results, err := ix.SearchWithScore(ctx, query, k)
	if err != nil {
		return nil, err
	}

	docs := make([]rag.Document, len(results))
	for i, result := range results {
		docs[i] = result.Document
	}
	return docs, nil
}

// DeleteBySource removes every chunk whose source equals filename, then
// persists the index.
func (ix *FileIndex) DeleteBySource(ctx context.Context, filename string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	kept := make([]record, 0, len(ix.records))
	removed := 0
	for _, rec := range ix.records {
		if rec.Doc.Source() == filename {
			removed++
			continue
		}
		kept = append(kept, rec)
	}

	if err := ix.persist(kept); err != nil {
		return err
	}
	ix.records = kept

	ix.logger.Debug("index: deleted %d chunk(s) for source %q", removed, filename)
	return nil
}

// ListAllMetadata returns a copy of every stored chunk's metadata.
func (ix *FileIndex) ListAllMetadata(ctx context.Context) ([]map[string]any, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	metadatas := make([]map[string]any, 0, len(ix.records))
	for _, rec := range ix.records {
		metadata := make(map[string]any, len(rec.Doc.Metadata))
		for k, v := range rec.Doc.Metadata {
			metadata[k] = v
		}
		metadatas = append(metadatas, metadata)
	}
	return metadatas, nil
}

// Len returns the number of stored chunks.
func (ix *FileIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

func (ix *FileIndex) load() error {
	data, err := os.ReadFile(ix.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read index %s: %w", ix.path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to decode index %s: %w", ix.path, err)
	}

	ix.records = records
	return nil
}

// persist writes the snapshot atomically. Callers must hold the write lock.
func (ix *FileIndex) persist(records []record) error {
	if ix.path == "" {
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if dir := filepath.Dir(ix.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	tmp := ix.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index snapshot: %w", err)
	}
	if err := os.Rename(tmp, ix.path); err != nil {
		return fmt.Errorf("failed to replace index snapshot: %w", err)
	}
	return nil
}

// l2Distance computes the Euclidean distance between two embeddings.
// Vectors of different lengths are zero-padded.
func l2Distance(a, b []float32) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	var sum float64
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = float64(a[i])
		}
		if i < len(b) {
			bv = float64(b[i])
		}
		diff := av - bv
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
