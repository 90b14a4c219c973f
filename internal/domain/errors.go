package domain

import "errors"

// Domain errors
var (
	ErrInvalidPDF      = errors.New("invalid or unreadable PDF")
	ErrInvalidFile     = errors.New("invalid file")
	ErrSessionNotFound = errors.New("session not found")
	ErrModelNotReady   = errors.New("model client not configured")
)
