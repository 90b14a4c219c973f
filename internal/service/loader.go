package service

import (
	"fmt"
	"image"
	"strings"

	"context"

	"fin-statement-analyzer/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// pdfDocument abstracts the opened PDF so the loader can be tested without
// real PDF bytes. Page indexes are 0-based, matching go-fitz.
type pdfDocument interface {
	PageCount() int
	PageText(n int) (string, error)
	PageImage(n int) (image.Image, error)
	Close() error
}

type fitzDocument struct {
	doc *fitz.Document
	dpi float64
}

func (f *fitzDocument) PageCount() int { return f.doc.NumPage() }

func (f *fitzDocument) PageText(n int) (string, error) { return f.doc.Text(n) }

func (f *fitzDocument) PageImage(n int) (image.Image, error) {
	return f.doc.ImageDPI(n, f.dpi)
}

func (f *fitzDocument) Close() error { return f.doc.Close() }

// Loader opens uploaded PDFs and produces the ordered page sequence.
// Pages with a native text layer keep their extracted text; image-only
// pages are rasterized and handed to the OCR engine when one is configured.
type Loader struct {
	open   func(pdfBytes []byte) (pdfDocument, error)
	ocr    domain.OCREngine // nil disables the OCR path
	logger domain.Logger
}

// NewLoader creates a document loader backed by go-fitz.
func NewLoader(ocrEngine domain.OCREngine, dpi int, logger domain.Logger) *Loader {
	if dpi <= 0 {
		dpi = 300
	}
	return &Loader{
		open: func(pdfBytes []byte) (pdfDocument, error) {
			doc, err := fitz.NewFromMemory(pdfBytes)
			if err != nil {
				return nil, err
			}
			return &fitzDocument{doc: doc, dpi: float64(dpi)}, nil
		},
		ocr:    ocrEngine,
		logger: logger,
	}
}

// Load opens the PDF and extracts text per page. A page that fails text
// extraction or OCR ends up empty rather than aborting the document; only
// an unreadable file is an error.
func (l *Loader) Load(ctx context.Context, filename string, pdfBytes []byte) (*domain.DocumentContent, error) {
	if len(pdfBytes) == 0 {
		return nil, domain.ErrInvalidPDF
	}

	doc, err := l.open(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPDF, err)
	}
	defer doc.Close()

	content := &domain.DocumentContent{
		Filename:  filename,
		PageCount: doc.PageCount(),
	}

	for i := 0; i < doc.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := domain.Page{Number: i + 1}

		text, err := doc.PageText(i)
		if err != nil {
			l.logger.Warn("Failed to extract page text", "page", i+1, "error", err)
			text = ""
		}
		text = strings.TrimSpace(sanitizeText(text))

		if text != "" {
			page.Text = text
			page.HasText = true
		} else {
			page.Text = l.ocrPage(ctx, doc, i)
			page.OCR = page.Text != ""
		}

		content.Pages = append(content.Pages, page)
	}

	return content, nil
}

// ocrPage rasterizes an image-only page and runs OCR on it. Best-effort:
// any failure yields an empty page.
func (l *Loader) ocrPage(ctx context.Context, doc pdfDocument, n int) string {
	if l.ocr == nil {
		return ""
	}

	img, err := doc.PageImage(n)
	if err != nil {
		l.logger.Warn("Failed to rasterize page for OCR", "page", n+1, "error", err)
		return ""
	}

	text, err := l.ocr.Recognize(ctx, img)
	if err != nil {
		l.logger.Warn("OCR failed for page", "page", n+1, "error", err)
		return ""
	}

	l.logger.Debug("Page recovered via OCR", "page", n+1, "chars", len(text))
	return strings.TrimSpace(sanitizeText(text))
}
