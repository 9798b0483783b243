package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docqa/metrics"
)

func TestMetricsNoData(t *testing.T) {
	handler := NewMetricsHandler(metrics.NewStore())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["message"] != "No metrics available yet" {
		t.Errorf("message = %q", resp["message"])
	}
}

func TestMetricsAggregate(t *testing.T) {
	store := metrics.NewStore()
	store.Record(metrics.Record{Question: "q1", TotalLatencyMs: 100})
	store.Record(metrics.Record{Question: "q2", TotalLatencyMs: 200})
	handler := NewMetricsHandler(store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	var resp metrics.Aggregate
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.TotalQueries != 2 || resp.AverageLatencyMs != 150 {
		t.Errorf("aggregate = %+v", resp)
	}
	if len(resp.RecentQueries) != 2 {
		t.Errorf("recent_queries length = %d, want 2", len(resp.RecentQueries))
	}
}

type fakeProbe struct {
	nonEmpty bool
}

func (f fakeProbe) IsNonEmpty(ctx context.Context) bool {
	return f.nonEmpty
}

func TestHealth(t *testing.T) {
	for _, initialized := range []bool{true, false} {
		handler := NewHealthHandler(fakeProbe{nonEmpty: initialized})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp struct {
			Status                 string `json:"status"`
			VectorStoreInitialized bool   `json:"vector_store_initialized"`
			Timestamp              string `json:"timestamp"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response JSON: %v", err)
		}
		if resp.Status != "healthy" {
			t.Errorf("status = %q", resp.Status)
		}
		if resp.VectorStoreInitialized != initialized {
			t.Errorf("vector_store_initialized = %v, want %v", resp.VectorStoreInitialized, initialized)
		}
		if resp.Timestamp == "" {
			t.Error("timestamp not set")
		}
	}
}

func TestRoot(t *testing.T) {
	rec := httptest.NewRecorder()
	http.HandlerFunc(RootHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Message == "" || len(resp.Endpoints) != 5 {
		t.Errorf("capability listing = %+v", resp)
	}
}
