package server

import (
	"net/http"

	"mediavault/internal/api"
)

func (s *Server) handleCreateMedia(w http.ResponseWriter, r *http.Request) {
	var req api.MediaCreateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	item, err := s.media.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.NewMediaItemResponse(item))
}

func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	items, err := s.media.List(r.Context(), kind)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := make([]api.MediaItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, api.NewMediaItemResponse(item))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	item, err := s.media.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.NewMediaItemResponse(item))
}

func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	item, err := s.media.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.NewMediaItemResponse(item))
}
