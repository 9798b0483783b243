package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"docqa/ingestion"
	"docqa/jobs"
)

// maxUploadBytes is the upload size cap (10 MiB).
const maxUploadBytes = 10 << 20

// Validator reports which file extensions the document processor accepts.
type Validator interface {
	Supported(ext string) bool
	SupportedExtensions() []string
}

// Enqueuer hands accepted uploads to the ingestion worker pool.
type Enqueuer interface {
	Enqueue(task ingestion.Task) error
}

type UploadResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UploadHandler accepts a multipart document, parks it in the scratch
// directory and queues a background ingestion job. The client gets a job
// id back immediately and polls /job/{job_id} for the outcome.
type UploadHandler struct {
	jobs      *jobs.Store
	pool      Enqueuer
	validator Validator
	uploadDir string
	logger    *slog.Logger
}

func NewUploadHandler(jobStore *jobs.Store, pool Enqueuer, validator Validator, uploadDir string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		jobs:      jobStore,
		pool:      pool,
		validator: validator,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Received file upload request")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSONError(w, "File too large. Max size: 10MB", http.StatusBadRequest)
		} else {
			writeJSONError(w, "Failed to parse multipart form", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "Failed to get file from form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !h.validator.Supported(ext) {
		h.logger.Error("Unsupported file type",
			slog.String("filename", header.Filename),
			slog.String("extension", ext))
		writeJSONError(w,
			fmt.Sprintf("File type %s not supported. Use: %s", ext, strings.Join(h.validator.SupportedExtensions(), ", ")),
			http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		writeJSONError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	if buf.Len() > maxUploadBytes {
		writeJSONError(w, "File too large. Max size: 10MB", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.logger.Error("Failed to create upload directory",
			slog.String("error", err.Error()))
		writeJSONError(w, "Failed to store uploaded file", http.StatusInternalServerError)
		return
	}

	jobID := h.jobs.Create(header.Filename)
	filePath := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", jobID, filepath.Base(header.Filename)))

	if err := os.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		h.logger.Error("Failed to write uploaded file",
			slog.String("path", filePath),
			slog.String("error", err.Error()))
		h.jobs.MarkFailed(jobID, "failed to store uploaded file")
		writeJSONError(w, "Failed to store uploaded file", http.StatusInternalServerError)
		return
	}

	err = h.pool.Enqueue(ingestion.Task{
		JobID:    jobID,
		FilePath: filePath,
		Filename: header.Filename,
	})
	if err != nil {
		h.logger.Warn("Ingestion queue full, shedding upload",
			slog.String("filename", header.Filename))
		h.jobs.MarkFailed(jobID, err.Error())
		os.Remove(filePath)
		writeJSONError(w, "Server busy, try again later", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("Queued document for ingestion",
		slog.String("job_id", jobID),
		slog.String("filename", header.Filename),
		slog.Int("size", buf.Len()))

	writeJSON(w, http.StatusAccepted, UploadResponse{
		JobID:   jobID,
		Status:  string(jobs.StatusQueued),
		Message: fmt.Sprintf("Document '%s' queued for processing. Check status at /job/%s", header.Filename, jobID),
	})
}
