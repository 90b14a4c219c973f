package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fin-statement-analyzer/internal/domain"
	apperrors "fin-statement-analyzer/pkg/errors"
)

// Mock implementations for handler testing
type MockExtractionService struct {
	sessions map[string]*domain.AnalysisSession
	err      error
}

func NewMockExtractionService() *MockExtractionService {
	return &MockExtractionService{sessions: make(map[string]*domain.AnalysisSession)}
}

func (m *MockExtractionService) Extract(ctx context.Context, filename string, pdfBytes []byte) (*domain.AnalysisSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	session := &domain.AnalysisSession{
		ID:       "new-session-id",
		Filename: filename,
		Result: &domain.ExtractionResult{
			Verdict:    domain.VerdictUnknown,
			ResolvedBy: domain.TierNone,
		},
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockExtractionService) GetSession(id string) (*domain.AnalysisSession, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockExtractionService) Comparison(id string) (*domain.ComparisonSeries, error) {
	if _, exists := m.sessions[id]; !exists {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.ComparisonSeries{
		Metrics: []string{"Revenue", "Operating Profit", "Net Profit"},
		Current: []float64{500, 120, 80},
		Annual:  make([]float64, 3),
	}, nil
}

// multipartUpload builds a multipart request body with one file field.
func multipartUpload(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestExtract_Success(t *testing.T) {
	svc := NewMockExtractionService()
	h := NewExtractHandler(svc, 25*1024*1024, NewMockHandlerLogger())

	body, contentType := multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.7 fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Extract(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Filename  string `json:"filename"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionID != "new-session-id" {
		t.Fatalf("expected session ID in response, got %q", resp.SessionID)
	}
	if resp.Filename != "report.pdf" {
		t.Fatalf("expected filename report.pdf, got %q", resp.Filename)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	h := NewExtractHandler(NewMockExtractionService(), 25*1024*1024, NewMockHandlerLogger())

	body, contentType := multipartUpload(t, "wrong_field", "report.pdf", []byte("%PDF-1.7"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Extract(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestExtract_RejectsNonPDF(t *testing.T) {
	h := NewExtractHandler(NewMockExtractionService(), 25*1024*1024, NewMockHandlerLogger())

	body, contentType := multipartUpload(t, "file", "statement.docx", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Extract(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Only PDF") {
		t.Fatalf("unexpected error body: %s", rr.Body.String())
	}
}

func TestExtract_InvalidPDFFromService(t *testing.T) {
	svc := NewMockExtractionService()
	svc.err = domain.ErrInvalidPDF
	h := NewExtractHandler(svc, 25*1024*1024, NewMockHandlerLogger())

	body, contentType := multipartUpload(t, "file", "broken.pdf", []byte("garbage"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Extract(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestExtract_UpstreamErrorFromService(t *testing.T) {
	svc := NewMockExtractionService()
	svc.err = apperrors.NewUpstreamError("financial model request failed", nil)
	h := NewExtractHandler(svc, 25*1024*1024, NewMockHandlerLogger())

	body, contentType := multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.7"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Extract(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "financial model request failed") {
		t.Fatalf("expected upstream message in body, got: %s", rr.Body.String())
	}
}

func TestExtract_InternalErrorIsOpaque(t *testing.T) {
	svc := NewMockExtractionService()
	svc.err = apperrors.NewInternalError("resolver blew up", nil)
	h := NewExtractHandler(svc, 25*1024*1024, NewMockHandlerLogger())

	body, contentType := multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.7"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Extract(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if strings.Contains(rr.Body.String(), "resolver blew up") {
		t.Fatalf("internal detail leaked into response: %s", rr.Body.String())
	}
}

func TestExtract_FileTooLarge(t *testing.T) {
	h := NewExtractHandler(NewMockExtractionService(), 64, NewMockHandlerLogger())

	body, contentType := multipartUpload(t, "file", "big.pdf", bytes.Repeat([]byte("a"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Extract(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
