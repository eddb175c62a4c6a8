package engine

import (
	"context"

	"github.com/campusbot/collegebot/ingest"
)

// DocumentInfo is one logical uploaded document, reconstructed from
// chunk metadata.
type DocumentInfo struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Semester   string `json:"semester"`
}

// Stats is the displayable usage summary.
type Stats struct {
	TotalDocuments int `json:"total_documents"`
	ActiveStudents int `json:"active_students"`
	QueriesToday   int `json:"queries_today"`
}

// Ingest loads, chunks and indexes the document at path. On success the
// memoized answer cache is cleared, since existing cached answers may
// now be missing relevant context.
func (e *Engine) Ingest(ctx context.Context, path string, meta ingest.Metadata) bool {
	ok := e.pipeline.Ingest(ctx, path, meta)
	if ok {
		e.cache.Clear()
	}
	return ok
}

// ListDocuments returns one entry per distinct source filename in the
// index, keeping the first-seen department and semester for each and
// defaulting absent fields to "Unknown". Order is unspecified. Failures
// yield an empty list, never an error.
func (e *Engine) ListDocuments(ctx context.Context) []DocumentInfo {
	metadatas, err := e.index.ListAllMetadata(ctx)
	if err != nil {
		e.logger.Error("documents: failed to list metadata: %v", err)
		return []DocumentInfo{}
	}

	seen := make(map[string]bool)
	docs := make([]DocumentInfo, 0)
	for _, m := range metadatas {
		source, ok := m["source"].(string)
		if !ok || source == "" || seen[source] {
			continue
		}
		seen[source] = true
		docs = append(docs, DocumentInfo{
			Name:       source,
			Department: stringOrUnknown(m["department"]),
			Semester:   stringOrUnknown(m["semester"]),
		})
	}
	return docs
}

// DeleteDocument removes every chunk of the named document and clears
// the entire memoized cache, since any cached answer might have cited
// the removed document. Returns false on any underlying failure.
func (e *Engine) DeleteDocument(ctx context.Context, filename string) bool {
	// Cleared regardless of the delete outcome; a partial delete still
	// invalidates cached context.
	e.cache.Clear()

	if err := e.index.DeleteBySource(ctx, filename); err != nil {
		e.logger.Error("documents: failed to delete %q: %v", filename, err)
		return false
	}

	e.logger.Info("documents: deleted %q", filename)
	return true
}

// GetStats returns the current usage summary. The document count is
// derived from the index; the query count and the seeded active-student
// figure come from the durable counter.
func (e *Engine) GetStats(ctx context.Context) Stats {
	rec := e.counter.Snapshot()
	return Stats{
		TotalDocuments: len(e.ListDocuments(ctx)),
		ActiveStudents: rec.ActiveStudents,
		QueriesToday:   rec.TotalQueries,
	}
}

func stringOrUnknown(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return "Unknown"
}
