package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"docqa/jobs"
)

type JobStatusResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress string `json:"progress,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JobHandler serves ingestion job status lookups.
type JobHandler struct {
	jobs   *jobs.Store
	logger *slog.Logger
}

func NewJobHandler(jobStore *jobs.Store, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		jobs:   jobStore,
		logger: logger,
	}
}

func (h *JobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	job, err := h.jobs.Get(jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			writeJSONError(w, "Job not found", http.StatusNotFound)
			return
		}
		writeJSONError(w, "Failed to look up job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, JobStatusResponse{
		JobID:    job.JobID,
		Status:   string(job.Status),
		Progress: job.Progress,
		Error:    job.Error,
	})
}
