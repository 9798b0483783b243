package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"docqa/rag"
)

// Question length bounds, counted in characters.
const (
	questionMinLength = 3
	questionMaxLength = 500
)

// Answerer is the query orchestrator the handler delegates to.
type Answerer interface {
	AnswerQuestion(ctx context.Context, question string) (*rag.Answer, error)
}

type QueryRequest struct {
	Question string `json:"question"`
}

// QueryHandler validates a question and runs it through the RAG engine.
type QueryHandler struct {
	engine Answerer
	logger *slog.Logger
}

func NewQueryHandler(engine Answerer, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{
		engine: engine,
		logger: logger,
	}
}

func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(req.Question)
	if n := utf8.RuneCountInString(question); n < questionMinLength || n > questionMaxLength {
		writeJSONError(w,
			fmt.Sprintf("Question must be between %d and %d characters", questionMinLength, questionMaxLength),
			http.StatusBadRequest)
		return
	}

	answer, err := h.engine.AnswerQuestion(r.Context(), question)
	if err != nil {
		if errors.Is(err, rag.ErrNoDocuments) {
			writeJSONError(w, "No relevant documents found. Please upload documents first.", http.StatusNotFound)
			return
		}
		h.logger.Error("Query processing failed",
			slog.String("error", err.Error()))
		writeJSONError(w, fmt.Sprintf("Query processing failed: %s", err.Error()), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}
