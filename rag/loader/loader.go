// Package loader reads uploaded academic documents into rag.Documents.
// The loader is selected by file extension; PDF, plain text, CSV and
// Word (docx) files are supported. PDF, text and CSV loading is
// delegated to langchaingo's documentloaders.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github.com/campusbot/collegebot/rag"
)

// ErrUnsupportedType reports a file extension no loader handles.
var ErrUnsupportedType = errors.New("unsupported file type")

// Supported reports whether a loader exists for the file's extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".md", ".csv", ".docx":
		return true
	}
	return false
}

// LoadFile reads the document at path and returns one rag.Document per
// logical page. Every document carries "source" (the base filename) and
// "page" metadata; loaders without a page concept record page 0.
func LoadFile(ctx context.Context, path string) ([]rag.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return loadPDF(ctx, path)
	case ".txt", ".md":
		return loadText(ctx, path)
	case ".csv":
		return loadCSV(ctx, path)
	case ".docx":
		return loadDOCX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
}

func loadPDF(ctx context.Context, path string) ([]rag.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	docs, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf %s: %w", path, err)
	}
	return convertSchemaDocuments(docs, path), nil
}

func loadText(ctx context.Context, path string) ([]rag.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := documentloaders.NewText(f).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return convertSchemaDocuments(docs, path), nil
}

func loadCSV(ctx context.Context, path string) ([]rag.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := documentloaders.NewCSV(f).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv %s: %w", path, err)
	}
	return convertSchemaDocuments(docs, path), nil
}

// convertSchemaDocuments converts langchaingo documents to rag.Documents,
// stamping source and page metadata. The PDF loader reports 1-based page
// numbers; they are normalized to the 0-based numbering citations use.
func convertSchemaDocuments(schemaDocs []schema.Document, path string) []rag.Document {
	source := filepath.Base(path)

	docs := make([]rag.Document, 0, len(schemaDocs))
	for _, sd := range schemaDocs {
		metadata := make(map[string]any, len(sd.Metadata)+2)
		for k, v := range sd.Metadata {
			metadata[k] = v
		}
		metadata["source"] = source
		metadata["page"] = pageNumber(sd.Metadata)

		docs = append(docs, rag.Document{
			Content:  sd.PageContent,
			Metadata: metadata,
		})
	}
	return docs
}

func pageNumber(metadata map[string]any) int {
	switch p := metadata["page"].(type) {
	case int:
		if p > 0 {
			return p - 1
		}
	case float64:
		if p > 0 {
			return int(p) - 1
		}
	}
	// Loaders without page metadata produce single-page documents.
	return 0
}
