// Package ingest turns uploaded files into indexed chunks: load by
// extension, split into overlapping segments, stamp caller metadata and
// upsert into the vector index.
package ingest

import (
	"context"
	"path/filepath"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/campusbot/collegebot/log"
	"github.com/campusbot/collegebot/rag"
	"github.com/campusbot/collegebot/rag/loader"
)

// Metadata is the caller-supplied document tagging. Source is the join
// key used for per-document listing and deletion; when empty it
// defaults to the file's base name.
type Metadata struct {
	Source     string
	Department string
	Semester   string
}

// Pipeline ingests documents into a vector index.
type Pipeline struct {
	index        rag.VectorIndex
	chunkSize    int
	chunkOverlap int
	logger       log.Logger
}

// Chunking defaults, balancing retrieval precision against
// context-window cost.
const (
	DefaultChunkSize    = 1600
	DefaultChunkOverlap = 200
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithChunking overrides the chunk size and overlap. Non-positive
// values keep the defaults.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.chunkSize = size
		}
		if overlap > 0 {
			p.chunkOverlap = overlap
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a Pipeline over the given index.
func NewPipeline(index rag.VectorIndex, opts ...Option) *Pipeline {
	p := &Pipeline{
		index:        index,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		logger:       log.NopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest loads, splits, tags and indexes the document at path. It
// reports success as a boolean and never panics; an unsupported
// extension or any load/split/upsert failure yields false. A failed
// upsert is not retried.
func (p *Pipeline) Ingest(ctx context.Context, path string, meta Metadata) bool {
	if !loader.Supported(path) {
		p.logger.Warn("ingest: unsupported file type: %s", filepath.Ext(path))
		return false
	}

	docs, err := loader.LoadFile(ctx, path)
	if err != nil {
		p.logger.Error("ingest: failed to load %s: %v", path, err)
		return false
	}

	chunks, err := p.split(docs)
	if err != nil {
		p.logger.Error("ingest: failed to split %s: %v", path, err)
		return false
	}

	if meta.Source == "" {
		meta.Source = filepath.Base(path)
	}
	for i := range chunks {
		stampMetadata(&chunks[i], meta)
	}

	if err := p.index.Upsert(ctx, chunks); err != nil {
		p.logger.Error("ingest: failed to index %s: %v", path, err)
		return false
	}

	p.logger.Info("ingest: indexed %q as %d chunk(s)", meta.Source, len(chunks))
	return true
}

// split breaks loaded documents into overlapping chunks using the
// recursive character splitter.
func (p *Pipeline) split(docs []rag.Document) ([]rag.Document, error) {
	splitter := textsplitter.NewRecursiveCharacter()
	splitter.ChunkSize = p.chunkSize
	splitter.ChunkOverlap = p.chunkOverlap
	splitter.Separators = []string{"\n\n", "\n", ". ", " ", ""}

	schemaDocs := make([]schema.Document, len(docs))
	for i, doc := range docs {
		schemaDocs[i] = schema.Document{
			PageContent: doc.Content,
			Metadata:    doc.Metadata,
		}
	}

	splitDocs, err := textsplitter.SplitDocuments(splitter, schemaDocs)
	if err != nil {
		return nil, err
	}

	chunks := make([]rag.Document, len(splitDocs))
	for i, sd := range splitDocs {
		metadata := make(map[string]any, len(sd.Metadata))
		for k, v := range sd.Metadata {
			metadata[k] = v
		}
		chunks[i] = rag.Document{
			Content:  sd.PageContent,
			Metadata: metadata,
		}
	}
	return chunks, nil
}

// stampMetadata applies the caller-supplied tags to a chunk. The source
// always wins over whatever the loader recorded, so listing and
// deletion key on the caller's name for the document.
func stampMetadata(doc *rag.Document, meta Metadata) {
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["source"] = meta.Source
	if meta.Department != "" {
		doc.Metadata["department"] = meta.Department
	}
	if meta.Semester != "" {
		doc.Metadata["semester"] = meta.Semester
	}
}
