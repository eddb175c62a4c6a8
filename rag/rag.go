// Package rag defines the data model and capability interfaces the
// CollegeBot engine is built on: document chunks, the embedding function,
// the language model, and the vector index. Concrete providers are wired
// in through the adapters in this package; the engine itself only ever
// sees these interfaces.
package rag

import (
	"context"
	"errors"
)

// Document is a bounded span of a source document's text, the unit
// stored and retrieved by the vector index. Metadata carries at least
// "source" (the originating filename) and usually "page", "department"
// and "semester".
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// DocumentWithScore pairs a document with its distance from a query.
// Distance is non-negative and lower means more semantically related.
type DocumentWithScore struct {
	Document Document
	Distance float64
}

// Source returns the originating filename recorded in the chunk
// metadata, or "Unknown" when absent.
func (d Document) Source() string {
	if s, ok := d.Metadata["source"].(string); ok && s != "" {
		return s
	}
	return "Unknown"
}

// Page returns the zero-based page number recorded in the chunk
// metadata. Loaders that have no page concept record page 0.
func (d Document) Page() int {
	switch p := d.Metadata["page"].(type) {
	case int:
		return p
	case float64:
		// JSON round-trips integers as float64.
		return int(p)
	}
	return 0
}

// Embedder generates embeddings for text. Embeddings must be
// deterministic for identical input.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// TextLLM is the language-model capability: a single prompt in,
// generated text out, with a generation-length cap. Implementations may
// fail with rate-limit errors, which they should tag with ErrRateLimited.
type TextLLM interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// VectorIndex stores document chunks with their embeddings and answers
// nearest-neighbor queries. Every mutating call durably commits before
// returning.
type VectorIndex interface {
	// Upsert embeds and stores the given chunks.
	Upsert(ctx context.Context, docs []Document) error

	// SearchWithScore returns the k nearest chunks with their distances,
	// closest first. Lower distance means higher similarity.
	SearchWithScore(ctx context.Context, query string, k int) ([]DocumentWithScore, error)

	// RetrieveTopK returns the k nearest chunks without scores.
	RetrieveTopK(ctx context.Context, query string, k int) ([]Document, error)

	// DeleteBySource removes every chunk whose source metadata equals filename.
	DeleteBySource(ctx context.Context, filename string) error

	// ListAllMetadata returns the metadata of every stored chunk.
	ListAllMetadata(ctx context.Context) ([]map[string]any, error)
}

// ErrRateLimited tags failures caused by provider throttling or quota
// exhaustion so callers can distinguish them without inspecting error
// text.
var ErrRateLimited = errors.New("rate limited by provider")
