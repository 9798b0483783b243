package vector_store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docqa/document"
)

// Store adapts the pgvector-backed chunks table to the retrieval index
// operations the rest of the system needs: upsert by chunk id, cosine
// top-k search and an emptiness probe.
type Store struct {
	db       *pgxpool.Pool
	embedder Embedder
	logger   *slog.Logger
}

func New(db *pgxpool.Pool, embedder Embedder, logger *slog.Logger) *Store {
	return &Store{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}
}

// Index embeds and stores the units. Writing uses ON CONFLICT on the
// chunk id so re-indexing a filename overwrites its prior chunks instead
// of duplicating them; the invariant that unit ids are unique index-wide
// is enforced here, not assumed of the backing table.
func (s *Store) Index(ctx context.Context, units []document.Unit) error {
	const query = `
        INSERT INTO chunks (chunk_id, source, chunk_index, total_chunks, content, embedding)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (chunk_id) DO UPDATE
        SET source = EXCLUDED.source,
            chunk_index = EXCLUDED.chunk_index,
            total_chunks = EXCLUDED.total_chunks,
            content = EXCLUDED.content,
            embedding = EXCLUDED.embedding`

	for _, unit := range units {
		embedding, err := s.embedder.Embed(ctx, unit.Content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %s: %w", unit.ID, err)
		}

		_, err = s.db.Exec(ctx, query,
			unit.ID, unit.Metadata.Source, unit.Metadata.ChunkIndex,
			unit.Metadata.TotalChunks, unit.Content, embedding)
		if err != nil {
			return fmt.Errorf("failed to store chunk %s: %w", unit.ID, err)
		}
	}

	s.logger.Info("Indexed document chunks",
		slog.Int("chunk_count", len(units)))

	return nil
}

// Search returns the k nearest chunks to the query, best first. Scores
// are cosine distances (pgvector <=>): ascending, lower is closer.
func (s *Store) Search(ctx context.Context, query string, k int) ([]document.ScoredUnit, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	const searchSQL = `
        SELECT chunk_id, source, chunk_index, total_chunks, content,
               embedding <=> $1 AS score
        FROM chunks
        ORDER BY score ASC
        LIMIT $2`

	rows, err := s.db.Query(ctx, searchSQL, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	results := make([]document.ScoredUnit, 0, k)
	for rows.Next() {
		var r document.ScoredUnit
		err := rows.Scan(
			&r.ID,
			&r.Metadata.Source,
			&r.Metadata.ChunkIndex,
			&r.Metadata.TotalChunks,
			&r.Content,
			&r.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return results, nil
}

// IsNonEmpty reports whether the index holds at least one chunk. It is a
// health probe and never fails on a fresh, empty index.
func (s *Store) IsNonEmpty(ctx context.Context) bool {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM chunks)").Scan(&exists)
	if err != nil {
		s.logger.Warn("Failed to probe chunk table",
			slog.String("error", err.Error()))
		return false
	}
	return exists
}
