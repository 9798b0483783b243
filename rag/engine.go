package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"docqa/document"
	"docqa/llm_service"
	"docqa/metrics"
)

// ErrNoDocuments indicates retrieval came back empty: nothing has been
// indexed yet, so there is no context to answer from.
var ErrNoDocuments = errors.New("no relevant documents found")

// SearchIndex is the retrieval collaborator the engine depends on.
type SearchIndex interface {
	Search(ctx context.Context, query string, k int) ([]document.ScoredUnit, error)
}

// excerptLimit caps the displayed content of each returned source chunk,
// counted in characters, not bytes.
const excerptLimit = 300

// SourceChunk is one retrieved excerpt as presented to the client, with
// its content truncated for display.
type SourceChunk struct {
	ChunkID         string  `json:"chunk_id"`
	Content         string  `json:"content"`
	Source          string  `json:"source"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Answer is the outcome of one query: the generated text, the ranked
// source excerpts it was conditioned on and the latency breakdown.
type Answer struct {
	Answer       string         `json:"answer"`
	SourceChunks []SourceChunk  `json:"source_chunks"`
	Metrics      metrics.Record `json:"metrics"`
}

// Engine composes retrieval and generation into one request/response
// cycle with per-phase timing.
type Engine struct {
	index   SearchIndex
	llm     llm_service.LLMService
	metrics *metrics.Store
	topK    int
	logger  *slog.Logger
}

func NewEngine(index SearchIndex, llm llm_service.LLMService, store *metrics.Store, topK int, logger *slog.Logger) *Engine {
	return &Engine{
		index:   index,
		llm:     llm,
		metrics: store,
		topK:    topK,
		logger:  logger,
	}
}

// AnswerQuestion retrieves the top-k chunks for the question, generates
// an answer conditioned on them and records one metric entry. An empty
// retrieval fails with ErrNoDocuments before any generation happens.
func (e *Engine) AnswerQuestion(ctx context.Context, question string) (*Answer, error) {
	start := time.Now()

	retrievalStart := time.Now()
	retrieved, err := e.index.Search(ctx, question, e.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	retrievalMs := msSince(retrievalStart)

	if len(retrieved) == 0 {
		return nil, ErrNoDocuments
	}

	generationStart := time.Now()
	answerText, err := e.llm.CallLLM(ctx, BuildPrompt(question, retrieved))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	generationMs := msSince(generationStart)

	sourceChunks := make([]SourceChunk, len(retrieved))
	for i, unit := range retrieved {
		sourceChunks[i] = SourceChunk{
			ChunkID:         unit.ID,
			Content:         truncate(unit.Content, excerptLimit),
			Source:          unit.Metadata.Source,
			SimilarityScore: unit.Score,
		}
	}

	record := metrics.Record{
		Question:            question,
		TotalLatencyMs:      msSince(start),
		RetrievalLatencyMs:  retrievalMs,
		GenerationLatencyMs: generationMs,
		ChunksRetrieved:     len(retrieved),
		Timestamp:           time.Now().Format(time.RFC3339),
	}
	e.metrics.Record(record)

	e.logger.Info("Answered question",
		slog.Int("chunks_retrieved", len(retrieved)),
		slog.Float64("total_latency_ms", record.TotalLatencyMs))

	return &Answer{
		Answer:       answerText,
		SourceChunks: sourceChunks,
		Metrics:      record,
	}, nil
}

func truncate(content string, limit int) string {
	runes := []rune(content)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return content
}

// msSince reports elapsed wall-clock milliseconds rounded to 2 decimals.
func msSince(t time.Time) float64 {
	return math.Round(time.Since(t).Seconds()*1000*100) / 100
}
