package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fin-statement-analyzer/internal/domain"
	apperrors "fin-statement-analyzer/pkg/errors"

	"github.com/shopspring/decimal"
)

// how much raw document text goes into the chat context
const chatContextChars = 2000

// ChatService answers follow-up questions about an analyzed document.
// The model is grounded on the resolved financial data plus a slice of the
// original document text; prior turns are replayed as chat history.
type ChatService struct {
	model  domain.ModelClient // nil means the assistant is not configured
	store  domain.SessionStore
	logger domain.Logger
}

// NewChatService creates the financial assistant service.
func NewChatService(model domain.ModelClient, store domain.SessionStore, logger domain.Logger) *ChatService {
	return &ChatService{model: model, store: store, logger: logger}
}

// Ask implements domain.ChatService.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (*domain.ChatReply, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if s.model == nil {
		return nil, domain.ErrModelNotReady
	}

	prompt := buildChatPrompt(session, question)
	answer, err := s.model.GenerateChat(ctx, session.Chat, prompt)
	if err != nil {
		return nil, apperrors.NewUpstreamError("assistant request failed", err)
	}

	now := time.Now()
	if err := s.store.AppendChat(sessionID,
		domain.ChatTurn{Role: domain.ChatRoleUser, Content: question, CreatedAt: now},
		domain.ChatTurn{Role: domain.ChatRoleModel, Content: answer, CreatedAt: now},
	); err != nil {
		s.logger.Warn("Failed to record chat turns", "session_id", sessionID, "error", err)
	}

	return &domain.ChatReply{SessionID: sessionID, Message: answer}, nil
}

// History returns the chat history for a session.
func (s *ChatService) History(sessionID string) ([]domain.ChatTurn, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Chat == nil {
		return []domain.ChatTurn{}, nil
	}
	return session.Chat, nil
}

func buildChatPrompt(session *domain.AnalysisSession, question string) string {
	result := session.Result

	var b strings.Builder
	b.WriteString("You are a financial assistant. Answer the user's question concisely based on the extracted financial data and statement text below. ")
	b.WriteString("If the answer is not available in the data, say so and suggest what information is needed.\n\n")

	company := result.CompanyName
	if company == "" {
		company = "the company"
	}
	b.WriteString("Financial data for " + company + ":\n")

	if cur := result.CurrentRecord(); cur != nil {
		b.WriteString("\nCurrent period (" + cur.Period + "):\n")
		writeRecordLines(&b, cur)
	}
	if ann := result.AnnualRecord(); ann != nil {
		b.WriteString("\nAnnual (" + ann.Period + "):\n")
		writeRecordLines(&b, ann)
	}

	text := session.FullText
	if len(text) > chatContextChars {
		cut := chatContextChars
		// never split a multi-byte rune at the cut point
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	if strings.TrimSpace(text) != "" {
		b.WriteString("\nRelevant text from the financial statement (truncated):\n")
		b.WriteString(text)
		b.WriteString("\n")
	}

	b.WriteString("\nUser question: " + question + "\n")
	return b.String()
}

func writeRecordLines(b *strings.Builder, rec *domain.FinancialRecord) {
	fmt.Fprintf(b, "- Revenue: %s\n", formatAmount(rec.Revenue, rec.Unit))
	fmt.Fprintf(b, "- Operating Profit: %s\n", formatAmount(rec.OperatingProfit, rec.Unit))
	fmt.Fprintf(b, "- Net Profit: %s\n", formatAmount(rec.NetProfit, rec.Unit))
}

func formatAmount(d *decimal.Decimal, unit string) string {
	if d == nil {
		return "not available"
	}
	if unit == "" {
		return d.String()
	}
	return d.String() + " " + unit
}
