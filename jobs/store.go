package jobs

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrJobNotFound indicates a lookup for a job id the store has never seen
// (or has already evicted).
var ErrJobNotFound = errors.New("job not found")

// Job tracks one asynchronous ingestion run from submission to its
// terminal state. Transitions are forward-only: queued -> processing ->
// completed | failed. Error is set only on failure.
type Job struct {
	JobID       string `json:"job_id"`
	Filename    string `json:"filename"`
	Status      Status `json:"status"`
	Progress    string `json:"progress,omitempty"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Store owns the job table. All access goes through its methods; the
// internal lock makes concurrent ingestion-completion and status polling
// safe. Get returns a copy, never a pointer into the table.
type Store struct {
	mu           sync.RWMutex
	jobs         map[string]*Job
	logger       *slog.Logger
	timeProvider TimeProvider

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		jobs:         make(map[string]*Job),
		logger:       logger,
		timeProvider: &realTimeProvider{},
	}
}

// Create registers a new queued job and returns its id.
func (s *Store) Create(filename string) string {
	jobID := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = &Job{
		JobID:     jobID,
		Filename:  filename,
		Status:    StatusQueued,
		Progress:  "Queued for processing",
		CreatedAt: s.timeProvider.Now().Format(time.RFC3339),
	}
	return jobID
}

// Get returns a snapshot of the job.
func (s *Store) Get(jobID string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

// MarkProcessing moves a job into the processing state.
func (s *Store) MarkProcessing(jobID, progress string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = StatusProcessing
		job.Progress = progress
	}
}

// SetProgress updates the human-readable progress of an in-flight job.
func (s *Store) SetProgress(jobID, progress string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Progress = progress
	}
}

// MarkCompleted moves a job into its successful terminal state.
func (s *Store) MarkCompleted(jobID, progress string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = StatusCompleted
		job.Progress = progress
		job.CompletedAt = s.timeProvider.Now().Format(time.RFC3339)
	}
}

// MarkFailed moves a job into its failed terminal state.
func (s *Store) MarkFailed(jobID, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = StatusFailed
		job.Error = errMsg
		job.CompletedAt = s.timeProvider.Now().Format(time.RFC3339)
	}
}

// StartCleanup launches a goroutine that evicts terminal jobs once they
// have been completed for longer than threshold. Keeps the table bounded
// in long-running deployments.
func (s *Store) StartCleanup(threshold, cleanupInterval time.Duration) {
	s.stopCleanup = make(chan struct{})
	s.cleanupTicker = time.NewTicker(cleanupInterval)

	go func() {
		for {
			select {
			case <-s.cleanupTicker.C:
				s.performCleanup(threshold)
			case <-s.stopCleanup:
				s.cleanupTicker.Stop()
				return
			}
		}
	}()
}

func (s *Store) StopCleanup() {
	if s.stopCleanup != nil {
		close(s.stopCleanup)
	}
}

func (s *Store) performCleanup(threshold time.Duration) {
	now := s.timeProvider.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for jobID, job := range s.jobs {
		if job.CompletedAt == "" {
			continue
		}
		completedAt, err := time.Parse(time.RFC3339, job.CompletedAt)
		if err == nil && now.Sub(completedAt) > threshold {
			delete(s.jobs, jobID)
			s.logger.Debug("Evicted expired job",
				slog.String("job_id", jobID))
		}
	}
}
