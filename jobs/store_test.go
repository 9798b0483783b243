package jobs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"
)

type mockTimeProvider struct {
	currentTime time.Time
	mutex       sync.Mutex
}

func (mtp *mockTimeProvider) Now() time.Time {
	mtp.mutex.Lock()
	defer mtp.mutex.Unlock()
	return mtp.currentTime
}

func (mtp *mockTimeProvider) Add(d time.Duration) {
	mtp.mutex.Lock()
	mtp.currentTime = mtp.currentTime.Add(d)
	mtp.mutex.Unlock()
}

func testStore() *Store {
	return NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestJobLifecycle(t *testing.T) {
	store := testStore()

	jobID := store.Create("report.pdf")
	job, err := store.Get(jobID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if job.Status != StatusQueued {
		t.Errorf("initial status = %q, want %q", job.Status, StatusQueued)
	}
	if job.Progress != "Queued for processing" {
		t.Errorf("initial progress = %q", job.Progress)
	}
	if job.CreatedAt == "" {
		t.Error("created_at not set")
	}
	if job.Error != "" || job.CompletedAt != "" {
		t.Error("queued job carries terminal fields")
	}

	store.MarkProcessing(jobID, "Loading document...")
	job, _ = store.Get(jobID)
	if job.Status != StatusProcessing || job.Progress != "Loading document..." {
		t.Errorf("after MarkProcessing: status=%q progress=%q", job.Status, job.Progress)
	}

	store.SetProgress(jobID, "Created 3 chunks, generating embeddings...")
	job, _ = store.Get(jobID)
	if job.Progress != "Created 3 chunks, generating embeddings..." {
		t.Errorf("after SetProgress: progress=%q", job.Progress)
	}

	store.MarkCompleted(jobID, "Successfully processed 3 chunks")
	job, _ = store.Get(jobID)
	if job.Status != StatusCompleted {
		t.Errorf("terminal status = %q, want %q", job.Status, StatusCompleted)
	}
	if job.CompletedAt == "" {
		t.Error("completed_at not set on completion")
	}
	if job.Error != "" {
		t.Errorf("completed job has error %q", job.Error)
	}
}

func TestJobFailure(t *testing.T) {
	store := testStore()

	jobID := store.Create("broken.pdf")
	store.MarkProcessing(jobID, "Loading document...")
	store.MarkFailed(jobID, "no text content extracted from PDF")

	job, err := store.Get(jobID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if job.Status != StatusFailed {
		t.Errorf("status = %q, want %q", job.Status, StatusFailed)
	}
	if job.Error != "no text content extracted from PDF" {
		t.Errorf("error = %q", job.Error)
	}
	if job.CompletedAt == "" {
		t.Error("completed_at not set on failure")
	}
}

func TestGetUnknownJob(t *testing.T) {
	store := testStore()

	_, err := store.Get("no-such-job")
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Get() error = %v, want ErrJobNotFound", err)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := testStore()

	jobID := store.Create("a.txt")
	job, _ := store.Get(jobID)
	job.Status = StatusFailed

	again, _ := store.Get(jobID)
	if again.Status != StatusQueued {
		t.Error("mutating a Get() result leaked into the store")
	}
}

func TestConcurrentOperations(t *testing.T) {
	store := testStore()
	startTime := time.Now()
	mtp := &mockTimeProvider{currentTime: startTime}
	store.timeProvider = mtp

	threshold := 5 * time.Minute
	cleanupInterval := 100 * time.Millisecond

	store.StartCleanup(threshold, cleanupInterval)
	defer store.StopCleanup()

	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addRandomJob(store, mtp.Now())
		}()
	}

	for i := 0; i < 10; i++ {
		mtp.Add(cleanupInterval)
		time.Sleep(10 * time.Millisecond)

		for j := 0; j < 50; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				addRandomJob(store, mtp.Now())
			}()
		}
	}

	wg.Wait()

	mtp.Add(threshold + time.Second)
	store.performCleanup(threshold)

	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, job := range store.jobs {
		if job.CompletedAt == "" {
			continue
		}
		completedAt, _ := time.Parse(time.RFC3339, job.CompletedAt)
		if mtp.Now().Sub(completedAt) > threshold {
			t.Errorf("found expired job that should have been cleaned up: %v", job)
		}
	}
}

func addRandomJob(store *Store, now time.Time) {
	jobID := store.Create(fmt.Sprintf("file_%d.txt", rand.Int()))
	store.MarkProcessing(jobID, "Loading document...")

	// Backdate completion so some jobs are already past the threshold.
	completedAt := now.Add(-time.Duration(rand.Intn(600)) * time.Second)
	store.mu.Lock()
	if job, ok := store.jobs[jobID]; ok {
		job.Status = StatusCompleted
		job.CompletedAt = completedAt.Format(time.RFC3339)
	}
	store.mu.Unlock()
}
