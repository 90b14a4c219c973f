package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fin-statement-analyzer/internal/domain"

	"github.com/gorilla/mux"
)

type MockChatService struct {
	reply   string
	err     error
	history []domain.ChatTurn
}

func (m *MockChatService) Ask(ctx context.Context, sessionID, question string) (*domain.ChatReply, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ChatReply{SessionID: sessionID, Message: m.reply}, nil
}

func (m *MockChatService) History(sessionID string) ([]domain.ChatTurn, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

func chatRequest(t *testing.T, id, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestAsk_Success(t *testing.T) {
	h := NewChatHandler(&MockChatService{reply: "Revenue was 500 Crores."}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Ask(rr, chatRequest(t, "sess-1", `{"question":"What was the revenue?"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var reply domain.ChatReply
	if err := json.NewDecoder(rr.Body).Decode(&reply); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if reply.SessionID != "sess-1" || reply.Message != "Revenue was 500 Crores." {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	h := NewChatHandler(&MockChatService{}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Ask(rr, chatRequest(t, "sess-1", `{"question":"   "}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAsk_InvalidBody(t *testing.T) {
	h := NewChatHandler(&MockChatService{}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Ask(rr, chatRequest(t, "sess-1", `{not json`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAsk_QuestionTooLong(t *testing.T) {
	h := NewChatHandler(&MockChatService{}, NewMockHandlerLogger())

	long := strings.Repeat("a", maxQuestionLen+1)
	rr := httptest.NewRecorder()
	h.Ask(rr, chatRequest(t, "sess-1", `{"question":"`+long+`"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAsk_SessionNotFound(t *testing.T) {
	h := NewChatHandler(&MockChatService{err: domain.ErrSessionNotFound}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Ask(rr, chatRequest(t, "missing", `{"question":"Anything?"}`))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestAsk_AssistantUnavailable(t *testing.T) {
	h := NewChatHandler(&MockChatService{err: domain.ErrModelNotReady}, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Ask(rr, chatRequest(t, "sess-1", `{"question":"Anything?"}`))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestHistory_ReturnsMessages(t *testing.T) {
	svc := &MockChatService{history: []domain.ChatTurn{
		{Role: domain.ChatRoleUser, Content: "What was the revenue?"},
		{Role: domain.ChatRoleModel, Content: "500 Crores."},
	}}
	h := NewChatHandler(svc, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/sess-1/chat", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "sess-1"})
	rr := httptest.NewRecorder()

	h.History(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string][]domain.ChatTurn
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp["messages"]) != 2 {
		t.Fatalf("expected two messages, got %d", len(resp["messages"]))
	}
}

func TestHistory_SessionNotFound(t *testing.T) {
	h := NewChatHandler(&MockChatService{err: domain.ErrSessionNotFound}, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing/chat", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rr := httptest.NewRecorder()

	h.History(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
