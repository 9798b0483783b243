package document

// Metadata describes where a unit came from within its source file.
type Metadata struct {
	ChunkIndex  int    `json:"chunk_index"` // 1-based position within the source
	Source      string `json:"source"`      // originating filename
	TotalChunks int    `json:"total_chunks"`
}

// Unit is the atomic retrieval and indexing granularity: a bounded,
// identified slice of source text. Units are created once per ingestion
// run and never mutated afterwards.
type Unit struct {
	ID       string   `json:"id"` // "<filename>_<chunk_index>", unique index-wide
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// ScoredUnit pairs a unit with the distance attached at retrieval time.
// Score is the cosine distance reported by the backing index: ascending,
// lower is closer. It is computed fresh per query, never persisted.
type ScoredUnit struct {
	Unit
	Score float64 `json:"score"`
}
