package service

import (
	"context"
	"errors"
	"image"
	"testing"

	"fin-statement-analyzer/internal/domain"

	"github.com/shopspring/decimal"
)

// Mock implementations shared by the service package tests.

type mockLogger struct{}

func (mockLogger) Info(msg string, fields ...interface{})             {}
func (mockLogger) Error(msg string, err error, fields ...interface{}) {}
func (mockLogger) Debug(msg string, fields ...interface{})            {}
func (mockLogger) Warn(msg string, fields ...interface{})             {}

// mockModel returns a canned reply or error and records the prompt.
type mockModel struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (m *mockModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.reply, m.err
}

func (m *mockModel) GenerateChat(ctx context.Context, history []domain.ChatTurn, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.reply, m.err
}

// mockOCR counts recognitions.
type mockOCR struct {
	text  string
	err   error
	calls int
}

func (m *mockOCR) Recognize(ctx context.Context, img image.Image) (string, error) {
	m.calls++
	return m.text, m.err
}

// fakePDF implements pdfDocument for loader tests.
type fakePDF struct {
	texts    []string
	textErrs map[int]error
	imageErr error
	closed   bool
}

func (f *fakePDF) PageCount() int { return len(f.texts) }

func (f *fakePDF) PageText(n int) (string, error) {
	if err, ok := f.textErrs[n]; ok {
		return "", err
	}
	return f.texts[n], nil
}

func (f *fakePDF) PageImage(n int) (image.Image, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return image.NewGray(image.Rect(0, 0, 8, 8)), nil
}

func (f *fakePDF) Close() error {
	f.closed = true
	return nil
}

func newTestLoader(doc *fakePDF, openErr error, ocrEngine domain.OCREngine) *Loader {
	return &Loader{
		open: func(pdfBytes []byte) (pdfDocument, error) {
			if openErr != nil {
				return nil, openErr
			}
			return doc, nil
		},
		ocr:    ocrEngine,
		logger: mockLogger{},
	}
}

// textDocument builds a DocumentContent from per-page text.
func textDocument(pages ...string) *domain.DocumentContent {
	doc := &domain.DocumentContent{PageCount: len(pages)}
	for i, text := range pages {
		doc.Pages = append(doc.Pages, domain.Page{
			Number:  i + 1,
			Text:    text,
			HasText: text != "",
		})
	}
	return doc
}

var errUpstream = errors.New("upstream unavailable")

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}
