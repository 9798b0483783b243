package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"docqa/document"
	"docqa/jobs"
)

// ErrQueueFull indicates the ingestion queue is at capacity. Uploads are
// shed rather than blocked so the submission handler stays fast.
var ErrQueueFull = errors.New("ingestion queue is full")

// DocumentProcessor turns a file into indexable units.
type DocumentProcessor interface {
	Process(path, filename string) ([]document.Unit, error)
}

// Indexer persists units into the retrieval index.
type Indexer interface {
	Index(ctx context.Context, units []document.Unit) error
}

// Task is one unit of ingestion work: a queued job and the scratch file
// backing it.
type Task struct {
	JobID    string
	FilePath string
	Filename string
}

// Pool is a bounded worker pool draining the ingestion queue. Upload
// handlers enqueue and return immediately; workers drive the job through
// the tracker's state machine and always remove the scratch file.
type Pool struct {
	queue     chan Task
	workers   int
	processor DocumentProcessor
	indexer   Indexer
	jobs      *jobs.Store
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func NewPool(workers, queueSize int, processor DocumentProcessor, indexer Indexer, jobStore *jobs.Store, logger *slog.Logger) *Pool {
	return &Pool{
		queue:     make(chan Task, queueSize),
		workers:   workers,
		processor: processor,
		indexer:   indexer,
		jobs:      jobStore,
		logger:    logger,
	}
}

// Start launches the workers. They drain the queue until the context is
// cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case task := <-p.queue:
					p.process(ctx, task)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}

// Wait blocks until all workers have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Enqueue submits a task without blocking. Returns ErrQueueFull when the
// queue is at capacity.
func (p *Pool) Enqueue(task Task) error {
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) process(ctx context.Context, task Task) {
	// The scratch file goes away whether ingestion succeeds or fails.
	defer func() {
		if err := os.Remove(task.FilePath); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("Failed to remove uploaded file",
				slog.String("path", task.FilePath),
				slog.String("error", err.Error()))
		}
	}()

	p.jobs.MarkProcessing(task.JobID, "Loading document...")

	units, err := p.processor.Process(task.FilePath, task.Filename)
	if err != nil {
		p.fail(task, err)
		return
	}

	p.jobs.SetProgress(task.JobID, fmt.Sprintf("Created %d chunks, generating embeddings...", len(units)))

	if err := p.indexer.Index(ctx, units); err != nil {
		p.fail(task, err)
		return
	}

	p.jobs.MarkCompleted(task.JobID, fmt.Sprintf("Successfully processed %d chunks", len(units)))
	p.logger.Info("Ingestion job completed",
		slog.String("job_id", task.JobID),
		slog.String("filename", task.Filename),
		slog.Int("chunk_count", len(units)))
}

func (p *Pool) fail(task Task, err error) {
	p.jobs.MarkFailed(task.JobID, err.Error())
	p.logger.Error("Ingestion job failed",
		slog.String("job_id", task.JobID),
		slog.String("filename", task.Filename),
		slog.String("error", err.Error()))
}
