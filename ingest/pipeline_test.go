package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbot/collegebot/rag"
)

// recordingIndex captures upserted chunks and can be told to fail.
type recordingIndex struct {
	chunks    []rag.Document
	upsertErr error
}

func (r *recordingIndex) Upsert(ctx context.Context, docs []rag.Document) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.chunks = append(r.chunks, docs...)
	return nil
}

func (r *recordingIndex) SearchWithScore(ctx context.Context, query string, k int) ([]rag.DocumentWithScore, error) {
	return nil, nil
}

func (r *recordingIndex) RetrieveTopK(ctx context.Context, query string, k int) ([]rag.Document, error) {
	return nil, nil
}

func (r *recordingIndex) DeleteBySource(ctx context.Context, filename string) error {
	return nil
}

func (r *recordingIndex) ListAllMetadata(ctx context.Context) ([]map[string]any, error) {
	return nil, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWithChunking_ZeroKeepsDefaults(t *testing.T) {
	p := NewPipeline(&recordingIndex{}, WithChunking(0, 0))
	assert.Equal(t, DefaultChunkSize, p.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, p.chunkOverlap)
}

func TestPipeline_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("chunks are stamped with caller metadata", func(t *testing.T) {
		ix := &recordingIndex{}
		p := NewPipeline(ix)
		path := writeFile(t, "dsa.txt", "Unit 1 covers arrays and linked lists.")

		ok := p.Ingest(ctx, path, Metadata{
			Source:     "dsa.txt",
			Department: "CSE",
			Semester:   "3",
		})
		require.True(t, ok)
		require.NotEmpty(t, ix.chunks)

		for _, chunk := range ix.chunks {
			assert.Equal(t, "dsa.txt", chunk.Metadata["source"])
			assert.Equal(t, "CSE", chunk.Metadata["department"])
			assert.Equal(t, "3", chunk.Metadata["semester"])
			assert.Equal(t, 0, chunk.Metadata["page"])
		}
	})

	t.Run("source defaults to the base filename", func(t *testing.T) {
		ix := &recordingIndex{}
		p := NewPipeline(ix)
		path := writeFile(t, "notes.txt", "some notes")

		require.True(t, p.Ingest(ctx, path, Metadata{}))
		require.NotEmpty(t, ix.chunks)
		assert.Equal(t, "notes.txt", ix.chunks[0].Metadata["source"])
	})

	t.Run("long documents produce overlapping chunks", func(t *testing.T) {
		ix := &recordingIndex{}
		p := NewPipeline(ix, WithChunking(100, 20))

		var b strings.Builder
		for i := 0; i < 60; i++ {
			b.WriteString("Data structures organize values in memory. ")
		}
		path := writeFile(t, "long.txt", b.String())

		require.True(t, p.Ingest(ctx, path, Metadata{Source: "long.txt"}))
		assert.Greater(t, len(ix.chunks), 1)
		for _, chunk := range ix.chunks {
			assert.LessOrEqual(t, len(chunk.Content), 100)
		}
	})

	t.Run("unsupported extension fails without indexing", func(t *testing.T) {
		ix := &recordingIndex{}
		p := NewPipeline(ix)
		path := writeFile(t, "image.png", "binary-ish")

		assert.False(t, p.Ingest(ctx, path, Metadata{}))
		assert.Empty(t, ix.chunks)
	})

	t.Run("missing file fails", func(t *testing.T) {
		ix := &recordingIndex{}
		p := NewPipeline(ix)

		assert.False(t, p.Ingest(ctx, filepath.Join(t.TempDir(), "missing.txt"), Metadata{}))
		assert.Empty(t, ix.chunks)
	})

	t.Run("upsert failure reports false", func(t *testing.T) {
		ix := &recordingIndex{upsertErr: errors.New("index unavailable")}
		p := NewPipeline(ix)
		path := writeFile(t, "dsa.txt", "content")

		assert.False(t, p.Ingest(ctx, path, Metadata{Source: "dsa.txt"}))
	})
}
