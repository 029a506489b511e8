package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Videos
	mux.HandleFunc("/api/videos", s.handleVideosRoute) // POST (process), GET (list)

	// API routes - Question answering
	mux.HandleFunc("/api/ask", s.app.AskHandler.AskHandler)

	// API routes - Raw retrieval
	mux.HandleFunc("/api/search", s.app.SearchHandler.SearchHandler)

	// API routes - Status
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)

	return mux
}

// handleVideosRoute dispatches /api/videos by method.
func (s *Server) handleVideosRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.app.VideoHandler.ProcessHandler(w, r)
	case http.MethodGet:
		s.app.VideoHandler.ListHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
