package chunker

import (
	"fmt"
	"strings"
)

// ErrInvalidChunking indicates a chunk size / overlap combination that can
// never make progress. Callers should treat it as a configuration error.
var ErrInvalidChunking = fmt.Errorf("chunker: overlap must satisfy 0 <= overlap < chunk size")

// Validate checks a chunk size / overlap pair, so misconfiguration is
// caught at startup rather than on the first ingestion job.
func Validate(chunkSize, overlap int) error {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return fmt.Errorf("%w (chunk_size=%d, overlap=%d)", ErrInvalidChunking, chunkSize, overlap)
	}
	return nil
}

// Chunk splits text into overlapping word windows.
//
// The text is tokenized on whitespace and a window of up to chunkSize words
// starts every chunkSize-overlap words. Words inside a window are re-joined
// with single spaces. Windows that come out empty are discarded.
//
// Chunk is pure: same input, same output, no side effects.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if err := Validate(chunkSize, overlap); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	// A window starting inside the previous window's overlap region would
	// contribute no new words, only a duplicate trailing chunk. Stop before
	// producing one, while always emitting at least the first window.
	limit := len(words) - overlap
	if limit < 1 {
		limit = 1
	}

	stride := chunkSize - overlap
	var chunks []string
	for i := 0; i < limit; i += stride {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks, nil
}
