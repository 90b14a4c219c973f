package service

import "strings"

// sanitizeText removes NULs, control characters, and invalid surrogates so
// page text can be safely JSON-encoded and fed to the model API.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x00:
			// skip NUL
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r >= 0x20 && r < 0x7F:
			result.WriteRune(r)
		case r >= 0x7F && r <= 0x10FFFF:
			// exclude surrogates, invalid in JSON
			if r < 0xD800 || r > 0xDFFF {
				result.WriteRune(r)
			}
		}
	}

	return result.String()
}

// splitLines normalizes line endings and returns non-empty trimmed lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
