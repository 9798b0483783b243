package processor

import (
	"sort"
	"strings"
)

// ExtractorRegistry maps file extensions (lowercase, with leading dot) to
// the Extractor responsible for them.
type ExtractorRegistry struct {
	extractors map[string]Extractor
}

func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{
		extractors: make(map[string]Extractor),
	}
}

// RegisterExtractor registers an extractor for a file extension.
func (r *ExtractorRegistry) RegisterExtractor(ext string, extractor Extractor) {
	r.extractors[strings.ToLower(ext)] = extractor
}

// GetExtractor returns the extractor for an extension, matched case-insensitively.
func (r *ExtractorRegistry) GetExtractor(ext string) (Extractor, bool) {
	extractor, ok := r.extractors[strings.ToLower(ext)]
	return extractor, ok
}

// SupportedExtensions lists the registered extensions.
func (r *ExtractorRegistry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
