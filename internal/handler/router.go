package handler

import (
	"net/http"

	"fin-statement-analyzer/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"fin-statement-analyzer"}`))
	}).Methods("GET")

	// Initialize handlers
	extractHandler := NewExtractHandler(container.ExtractionService, container.Config.GetMaxFileSize(), container.Logger)
	sessionHandler := NewSessionHandler(container.ExtractionService, container.Logger)
	chatHandler := NewChatHandler(container.ChatService, container.Logger)

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(RequestLogMiddleware(container.Logger))
	api.Use(RecoverMiddleware(container.Logger))

	api.HandleFunc("/extract", extractHandler.Extract).Methods("POST")
	api.HandleFunc("/sessions/{id}", sessionHandler.GetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}/comparison", sessionHandler.GetComparison).Methods("GET")
	api.HandleFunc("/sessions/{id}/chat", chatHandler.Ask).Methods("POST")
	api.HandleFunc("/sessions/{id}/chat", chatHandler.History).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
