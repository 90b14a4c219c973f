// Package ocr recovers text from rasterized PDF pages by shelling out to
// the tesseract binary. Accuracy is whatever the engine gives us; output is
// best-effort and never thresholded here.
package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fin-statement-analyzer/internal/domain"
)

// lines made of table rulings that tesseract tends to transcribe as noise
var reBoxNoise = regexp.MustCompile(`(?m)^[|_\-=~.\s]+$`)

// Config holds the tesseract invocation settings.
type Config struct {
	Tesseract string // binary name or path
	Language  string
	PSM       int // page segmentation mode; 6 assumes a uniform block of text
}

// Engine implements domain.OCREngine.
type Engine struct {
	runner Runner
	cfg    Config
	logger domain.Logger
}

// NewEngine creates an OCR engine. A nil runner defaults to the real binary.
func NewEngine(cfg Config, runner Runner, logger domain.Logger) *Engine {
	if runner == nil {
		runner = NewExecRunner()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Engine{runner: runner, cfg: cfg, logger: logger}
}

// Recognize writes the page image to a temp PNG and runs tesseract on it.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (string, error) {
	tmpDir, err := os.MkdirTemp("", "fsa-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("Failed to remove OCR temp dir", "path", tmpDir, "error", rmErr)
		}
	}()

	path := filepath.Join(tmpDir, "page.png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode page image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp image: %w", err)
	}

	return e.recognizeFile(ctx, path)
}

// recognizeFile runs: tesseract <file> stdout -l <lang> [--psm N]
func (e *Engine) recognizeFile(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}

	start := time.Now()
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		e.logger.Error("OCR exec failed", err,
			"cmd", e.cfg.Tesseract,
			"duration_ms", since(start),
			"stderr", truncate(string(errb), 8<<10),
		)
		return "", fmt.Errorf("tesseract: %w", err)
	}

	e.logger.Debug("OCR page recognized",
		"duration_ms", since(start),
		"stdout_bytes", len(out),
	)

	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return strings.TrimSpace(txt), nil
}
