package server

import "net/http"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Question answering
	mux.HandleFunc("/ask", s.app.AskHandler.AskHandler)

	// WebSocket route - ingestion progress stream
	mux.HandleFunc("/ws", s.app.WSHandler.WebSocketHandler)

	// API routes - inspection
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/articles", s.app.StatusHandler.ListArticlesHandler)
	mux.HandleFunc("/api/health", s.app.AskHandler.HealthHandler)

	return mux
}
