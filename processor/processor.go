package processor

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"docqa/chunker"
	"docqa/document"
)

// ErrUnsupportedFormat indicates a file extension no extractor is
// registered for.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// Processor extracts plain text from uploaded files and splits it into
// identified, metadata-tagged units ready for indexing.
type Processor struct {
	registry     *ExtractorRegistry
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

func New(registry *ExtractorRegistry, chunkSize, chunkOverlap int, logger *slog.Logger) *Processor {
	return &Processor{
		registry:     registry,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Process extracts text from the file at path and chunks it into units.
// Unit ids are "<filename>_<i>" with i starting at 1, so re-processing the
// same filename yields the same id set and overwrites on re-index.
func (p *Processor) Process(path, filename string) ([]document.Unit, error) {
	ext := filepath.Ext(filename)

	extractor, ok := p.registry.GetExtractor(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	text, err := extractor.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}

	chunks, err := chunker.Chunk(text, p.chunkSize, p.chunkOverlap)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Chunked document",
		slog.String("filename", filename),
		slog.Int("chunk_count", len(chunks)))

	units := make([]document.Unit, len(chunks))
	for i, chunk := range chunks {
		index := i + 1
		units[i] = document.Unit{
			ID:      fmt.Sprintf("%s_%d", filename, index),
			Content: chunk,
			Metadata: document.Metadata{
				ChunkIndex:  index,
				Source:      filename,
				TotalChunks: len(chunks),
			},
		}
	}

	return units, nil
}

// SupportedExtensions exposes the registered extensions for error messages
// and upload validation.
func (p *Processor) SupportedExtensions() []string {
	return p.registry.SupportedExtensions()
}

// Supported reports whether files with the given extension can be processed.
func (p *Processor) Supported(ext string) bool {
	_, ok := p.registry.GetExtractor(ext)
	return ok
}

// DefaultRegistry wires the extractors for the file types the service
// accepts: .txt and .pdf.
func DefaultRegistry(logger *slog.Logger) *ExtractorRegistry {
	registry := NewExtractorRegistry()
	registry.RegisterExtractor(".txt", TxtExtractor{})
	registry.RegisterExtractor(".pdf", NewPDFExtractor(logger))
	return registry
}
