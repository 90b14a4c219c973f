package domain

import "time"

// Chat roles as the model API expects them.
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatTurn is a single message in a session's chat history.
type ChatTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest is the payload for asking the financial assistant a question.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatReply is the assistant's answer.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// AnalysisSession holds everything computed for one uploaded document:
// the extraction result, the merged document text the chatbot grounds
// its answers on, and the chat history. Discarded when the TTL expires.
type AnalysisSession struct {
	ID        string            `json:"id"`
	Filename  string            `json:"filename"`
	Result    *ExtractionResult `json:"result"`
	FullText  string            `json:"-"`
	Chat      []ChatTurn        `json:"chat,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
