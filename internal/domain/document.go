package domain

import "strings"

// Page is one page of an uploaded PDF after extraction.
type Page struct {
	Number  int    `json:"number"` // 1-indexed
	Text    string `json:"text"`
	HasText bool   `json:"has_text"` // page carried a native text layer
	OCR     bool   `json:"ocr"`      // text was recovered via OCR
}

// DocumentContent is the ordered page sequence produced by the document loader.
type DocumentContent struct {
	Filename  string `json:"filename"`
	PageCount int    `json:"page_count"`
	Pages     []Page `json:"pages"`
}

// OCRPageCount returns how many pages went through the OCR path.
func (d *DocumentContent) OCRPageCount() int {
	n := 0
	for _, p := range d.Pages {
		if p.OCR {
			n++
		}
	}
	return n
}

// MergedText concatenates all page texts in page order. Pages are separated
// by a form feed so downstream consumers can still tell pages apart.
func (d *DocumentContent) MergedText() string {
	var b strings.Builder
	for _, p := range d.Pages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(text)
	}
	return b.String()
}
