package handlers

import (
	"net/http"

	"docqa/metrics"
)

// MetricsHandler exposes the running query-latency aggregates.
type MetricsHandler struct {
	store *metrics.Store
}

func NewMetricsHandler(store *metrics.Store) *MetricsHandler {
	return &MetricsHandler{store: store}
}

func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	agg, ok := h.store.Aggregate()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No metrics available yet"})
		return
	}
	writeJSON(w, http.StatusOK, agg)
}
