package config

import (
	"os"
	"strconv"
	"time"

	"fin-statement-analyzer/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort    string
	MaxFileSize   int64
	LogLevel      string
	GeminiAPIKey  string
	GeminiModel   string
	TesseractPath string
	TesseractLang string
	OCRDPI        int
	SessionTTL    time.Duration
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:    getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:   getEnvInt64OrDefault("MAX_FILE_SIZE", 25*1024*1024), // 25MB default
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		GeminiAPIKey:  getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		TesseractPath: getEnvOrDefault("TESSERACT_PATH", "tesseract"),
		TesseractLang: getEnvOrDefault("TESSERACT_LANG", "eng"),
		OCRDPI:        getEnvIntOrDefault("OCR_DPI", 300),
		SessionTTL:    time.Duration(getEnvIntOrDefault("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetGeminiAPIKey returns the Gemini API key
func (c *AppConfig) GetGeminiAPIKey() string {
	return c.GeminiAPIKey
}

// GetGeminiModel returns the Gemini model name
func (c *AppConfig) GetGeminiModel() string {
	return c.GeminiModel
}

// GetTesseractPath returns the tesseract binary name or path
func (c *AppConfig) GetTesseractPath() string {
	return c.TesseractPath
}

// GetTesseractLang returns the OCR language
func (c *AppConfig) GetTesseractLang() string {
	return c.TesseractLang
}

// GetOCRDPI returns the rasterization DPI for the OCR path
func (c *AppConfig) GetOCRDPI() int {
	return c.OCRDPI
}

// GetSessionTTL returns how long analysis sessions are kept
func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.SessionTTL
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
