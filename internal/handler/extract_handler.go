// Package handler provides HTTP handlers for the API.
package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"fin-statement-analyzer/internal/domain"
)

// ExtractHandler handles financial PDF uploads
type ExtractHandler struct {
	extraction domain.ExtractionService
	maxSize    int64
	logger     domain.Logger
}

// NewExtractHandler creates a new extract handler
func NewExtractHandler(extraction domain.ExtractionService, maxSize int64, logger domain.Logger) *ExtractHandler {
	return &ExtractHandler{
		extraction: extraction,
		maxSize:    maxSize,
		logger:     logger,
	}
}

// extractResponse is the payload returned after a successful extraction.
type extractResponse struct {
	SessionID string                   `json:"session_id"`
	Filename  string                   `json:"filename"`
	Result    *domain.ExtractionResult `json:"result"`
}

// Extract handles POST /extract: one PDF upload, one synchronous pipeline run.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	originalName := strings.TrimSpace(filepath.Base(header.Filename))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		originalName = "document.pdf"
	}

	if strings.ToLower(filepath.Ext(originalName)) != ".pdf" {
		writeError(w, http.StatusBadRequest, "Unsupported file type. Only PDF (.pdf) is accepted.")
		return
	}

	if header.Size > h.maxSize {
		writeError(w, http.StatusBadRequest, "File too large")
		return
	}

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	session, err := h.extraction.Extract(r.Context(), originalName, pdfBytes)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Extraction failed", err, "filename", originalName)
		} else {
			h.logger.Warn("Extraction rejected", "filename", originalName, "error", err)
		}
		writeError(w, status, userMessage(err, status))
		return
	}

	writeJSON(w, http.StatusCreated, extractResponse{
		SessionID: session.ID,
		Filename:  session.Filename,
		Result:    session.Result,
	})
}

// userMessage keeps internal detail out of 5xx responses.
func userMessage(err error, status int) string {
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		return "Failed to process document"
	}
	return err.Error()
}
