package service

import (
	"context"
	"fmt"
	"io"

	"github.com/parenthaven/backend/internal/media"
	"github.com/parenthaven/backend/internal/repository/postgres"
	"github.com/parenthaven/backend/internal/retrieval"
	"github.com/rs/zerolog/log"
)

// IngestService turns uploaded documents into searchable passages
type IngestService struct {
	extractors  *media.ExtractorRegistry
	embedder    retrieval.Embedder
	passageRepo *postgres.PassageRepository
	chunkSize   int
	overlap     int
}

// NewIngestService creates a new ingest service
func NewIngestService(
	extractors *media.ExtractorRegistry,
	embedder retrieval.Embedder,
	passageRepo *postgres.PassageRepository,
	chunkSize, overlap int,
) *IngestService {
	return &IngestService{
		extractors:  extractors,
		embedder:    embedder,
		passageRepo: passageRepo,
		chunkSize:   chunkSize,
		overlap:     overlap,
	}
}

// Ingest extracts text from the document, chunks it, embeds each chunk and
// stores the passages. Returns the number of passages stored.
func (s *IngestService) Ingest(ctx context.Context, contentType string, r io.Reader) (int, error) {
	text, err := s.extractors.Extract(ctx, contentType, r)
	if err != nil {
		return 0, err
	}

	chunks := retrieval.ChunkText(text, s.chunkSize, s.overlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document contains no text")
	}

	stored := 0
	for _, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return stored, fmt.Errorf("failed to embed chunk: %w", err)
		}
		if err := s.passageRepo.Insert(ctx, chunk, vec); err != nil {
			return stored, err
		}
		stored++
	}

	log.Info().
		Int("passages", stored).
		Str("content_type", contentType).
		Msg("Document ingested")

	return stored, nil
}

// Supported reports whether the content type can be ingested
func (s *IngestService) Supported(contentType string) bool {
	return s.extractors.Supported(contentType)
}
