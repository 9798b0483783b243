package handlers

import (
	"context"
	"net/http"
	"time"
)

// IndexProbe is the cheap emptiness check the health endpoint reports on.
type IndexProbe interface {
	IsNonEmpty(ctx context.Context) bool
}

// HealthHandler reports service liveness and whether the vector store
// holds any documents yet.
type HealthHandler struct {
	index IndexProbe
}

func NewHealthHandler(index IndexProbe) *HealthHandler {
	return &HealthHandler{index: index}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":                   "healthy",
		"vector_store_initialized": h.index.IsNonEmpty(r.Context()),
		"timestamp":                time.Now().Format(time.RFC3339),
	})
}

// RootHandler serves the static capability listing.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "RAG Question Answering System",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /upload":      "Upload a document (PDF/TXT)",
			"GET /job/{job_id}": "Check document processing status",
			"POST /query":       "Ask a question",
			"GET /metrics":      "View system metrics",
			"GET /health":       "Health check",
		},
	})
}
