package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Byte-serving file routes. Reads are unauthenticated: access control
	// happens at the catalog routes that hand out object ids.
	mux.HandleFunc("GET /files/{id}", s.handleGetFile)
	mux.HandleFunc("HEAD /files/{id}", s.handleHeadFile)
	mux.HandleFunc("DELETE /files/{id}", s.requireAdmin(s.handleDeleteFile))

	// Object upload and metadata.
	mux.HandleFunc("POST /v1/files", s.requireAdmin(s.handleUploadFile))
	mux.HandleFunc("GET /v1/files/{id}", s.handleStatFile)

	// Media catalog.
	mux.HandleFunc("POST /v1/media", s.requireAdmin(s.handleCreateMedia))
	mux.HandleFunc("GET /v1/media", s.handleListMedia)
	mux.HandleFunc("GET /v1/media/{id}", s.handleGetMedia)
	mux.HandleFunc("DELETE /v1/media/{id}", s.requireAdmin(s.handleDeleteMedia))

	return s.withRequestLogging(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
