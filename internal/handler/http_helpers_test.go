package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fin-statement-analyzer/internal/domain"
	apperrors "fin-statement-analyzer/pkg/errors"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusTeapot, "nope")

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type application/json, got %s", ct)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"nope"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidPDF, http.StatusBadRequest},
		{domain.ErrInvalidFile, http.StatusBadRequest},
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{domain.ErrModelNotReady, http.StatusServiceUnavailable},
		{apperrors.NewValidationError("bad input"), http.StatusBadRequest},
		{apperrors.NewProcessingError("cannot process", nil), http.StatusUnprocessableEntity},
		{apperrors.NewUpstreamError("model down", nil), http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := statusForError(tc.err); got != tc.status {
			t.Fatalf("statusForError(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}
