package media

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Extractor pulls plain text out of an uploaded document
type Extractor interface {
	// ContentTypes lists the MIME types the extractor accepts
	ContentTypes() []string

	// Extract reads the document and returns its text
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// ExtractorRegistry routes documents to an extractor by MIME type
type ExtractorRegistry struct {
	byType map[string]Extractor
}

// NewExtractorRegistry creates a registry with the given extractors
func NewExtractorRegistry(extractors ...Extractor) *ExtractorRegistry {
	reg := &ExtractorRegistry{byType: make(map[string]Extractor)}
	for _, e := range extractors {
		for _, ct := range e.ContentTypes() {
			reg.byType[normalizeContentType(ct)] = e
		}
	}
	return reg
}

// Extract extracts text using the extractor registered for contentType
func (reg *ExtractorRegistry) Extract(ctx context.Context, contentType string, r io.Reader) (string, error) {
	e, ok := reg.byType[normalizeContentType(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}
	return e.Extract(ctx, r)
}

// Supported reports whether a content type has an extractor
func (reg *ExtractorRegistry) Supported(contentType string) bool {
	_, ok := reg.byType[normalizeContentType(contentType)]
	return ok
}

// normalizeContentType strips parameters like "; charset=utf-8"
func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// PlainTextExtractor passes text documents through unchanged
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a plain text extractor
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// ContentTypes lists the accepted MIME types
func (e *PlainTextExtractor) ContentTypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Extract reads the whole document
func (e *PlainTextExtractor) Extract(_ context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}
