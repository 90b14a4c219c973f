package domain

import (
	"context"
	"image"
	"time"
)

// Config provides application configuration values.
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetTesseractPath() string
	GetTesseractLang() string
	GetOCRDPI() int
	GetSessionTTL() time.Duration
}

// Logger defines the logging interface used across layers.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// DocumentLoader opens raw PDF bytes and produces the ordered page sequence,
// running text extraction on text-bearing pages and OCR on image-only ones.
type DocumentLoader interface {
	Load(ctx context.Context, filename string, pdfBytes []byte) (*DocumentContent, error)
}

// OCREngine recognizes text in a rasterized page image.
type OCREngine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// ModelClient is the hosted generative-language-model API.
type ModelClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateChat(ctx context.Context, history []ChatTurn, prompt string) (string, error)
}

// FieldResolver turns extracted document text into per-period financial records.
type FieldResolver interface {
	Resolve(ctx context.Context, doc *DocumentContent) (*ExtractionResult, error)
}

// SessionStore keeps per-upload analysis state keyed by session ID.
type SessionStore interface {
	Put(session *AnalysisSession)
	Get(id string) (*AnalysisSession, error)
	AppendChat(id string, turns ...ChatTurn) error
}

// ExtractionService runs the full pipeline for one uploaded document.
type ExtractionService interface {
	Extract(ctx context.Context, filename string, pdfBytes []byte) (*AnalysisSession, error)
	GetSession(id string) (*AnalysisSession, error)
	Comparison(id string) (*ComparisonSeries, error)
}

// ChatService answers follow-up questions about an analyzed document.
type ChatService interface {
	Ask(ctx context.Context, sessionID, question string) (*ChatReply, error)
	History(sessionID string) ([]ChatTurn, error)
}
