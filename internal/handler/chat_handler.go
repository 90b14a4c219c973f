package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"fin-statement-analyzer/internal/domain"

	"github.com/gorilla/mux"
)

const maxQuestionLen = 2000

// ChatHandler serves the financial assistant endpoints
type ChatHandler struct {
	chat   domain.ChatService
	logger domain.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat domain.ChatService, logger domain.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// Ask handles POST /sessions/{id}/chat
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question cannot be empty")
		return
	}
	if len(req.Question) > maxQuestionLen {
		writeError(w, http.StatusBadRequest, "question too long")
		return
	}

	reply, err := h.chat.Ask(r.Context(), id, req.Question)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Assistant request failed", err, "session_id", id)
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// History handles GET /sessions/{id}/chat
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	turns, err := h.chat.History(id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.ChatTurn{"messages": turns})
}
