package handler

import (
	"net/http"

	"fin-statement-analyzer/internal/domain"

	"github.com/gorilla/mux"
)

// SessionHandler serves analysis sessions and their derived views
type SessionHandler struct {
	extraction domain.ExtractionService
	logger     domain.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(extraction domain.ExtractionService, logger domain.Logger) *SessionHandler {
	return &SessionHandler{extraction: extraction, logger: logger}
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	session, err := h.extraction.GetSession(id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// GetComparison handles GET /sessions/{id}/comparison
func (h *SessionHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	series, err := h.extraction.Comparison(id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, series)
}
