package metrics

import (
	"math"
	"sync"
)

// Record is one successful query's latency breakdown.
type Record struct {
	Question            string  `json:"question"`
	TotalLatencyMs      float64 `json:"total_latency_ms"`
	RetrievalLatencyMs  float64 `json:"retrieval_latency_ms"`
	GenerationLatencyMs float64 `json:"generation_latency_ms"`
	ChunksRetrieved     int     `json:"chunks_retrieved"`
	Timestamp           string  `json:"timestamp"`
}

// Aggregate is the read-only rollup exposed by /metrics.
type Aggregate struct {
	TotalQueries     int      `json:"total_queries"`
	AverageLatencyMs float64  `json:"average_latency_ms"`
	MinLatencyMs     float64  `json:"min_latency_ms"`
	MaxLatencyMs     float64  `json:"max_latency_ms"`
	RecentQueries    []Record `json:"recent_queries"`
}

// recentLimit caps how many records Aggregate returns, newest kept in
// insertion order.
const recentLimit = 10

// Store collects query metrics. Append-only; reads aggregate over the
// whole history. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

func NewStore() *Store {
	return &Store{}
}

// Record appends one entry.
func (s *Store) Record(entry Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, entry)
}

// Aggregate computes the running rollup. ok is false when no queries have
// been recorded yet, so callers can emit the no-data sentinel.
func (s *Store) Aggregate() (Aggregate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return Aggregate{}, false
	}

	agg := Aggregate{
		TotalQueries: len(s.records),
		MinLatencyMs: s.records[0].TotalLatencyMs,
		MaxLatencyMs: s.records[0].TotalLatencyMs,
	}

	var sum float64
	for _, r := range s.records {
		sum += r.TotalLatencyMs
		if r.TotalLatencyMs < agg.MinLatencyMs {
			agg.MinLatencyMs = r.TotalLatencyMs
		}
		if r.TotalLatencyMs > agg.MaxLatencyMs {
			agg.MaxLatencyMs = r.TotalLatencyMs
		}
	}
	agg.AverageLatencyMs = roundMs(sum / float64(len(s.records)))

	start := len(s.records) - recentLimit
	if start < 0 {
		start = 0
	}
	agg.RecentQueries = append([]Record(nil), s.records[start:]...)

	return agg, true
}

func roundMs(ms float64) float64 {
	return math.Round(ms*100) / 100
}
