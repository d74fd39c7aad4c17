package server

import (
	"bufio"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"mediavault/internal/api"
	"mediavault/internal/models"
	"mediavault/internal/objectstore"
)

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
		return
	}

	file, header, err := r.FormFile("content")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("content is required"), ErrCodeMissingRequired))
		return
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	peek, _ := buffered.Peek(512)
	sniffed := http.DetectContentType(peek)
	mediaType := strings.TrimSpace(r.FormValue("media_type"))
	if mediaType == "" {
		mediaType = sniffed
	}
	mediaType, err = normalizeMediaType(mediaType)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
		return
	}
	if !s.mediaTypeAllowed(mediaType) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("media type %s is not allowed", mediaType), ErrCodeUnsupportedMediaType))
		return
	}

	tags := map[string]string{}
	if role := strings.TrimSpace(r.FormValue("role")); role != "" {
		tags["role"] = role
	}

	filename := strings.TrimSpace(r.FormValue("filename"))
	if filename == "" && header != nil {
		filename = header.Filename
	}

	id, err := s.store.Put(r.Context(), buffered, objectstore.PutInfo{
		Filename:    filename,
		ContentType: mediaType,
		Tags:        tags,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	info, err := s.store.Stat(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, objectResponse(info))
}

func (s *Server) handleStatFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !objectstore.ValidID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("invalid object id"), ErrCodeInvalidID))
		return
	}

	info, err := s.store.Stat(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, objectResponse(info))
}

func objectResponse(info objectstore.ObjectInfo) api.ObjectResponse {
	return api.ObjectResponse{
		ID:          info.ID,
		URL:         models.NormalizeObjectRef(info.ID, ""),
		SizeBytes:   info.Length,
		ContentType: info.ContentType,
		Filename:    info.Filename,
		Tags:        info.Tags,
		CreatedAt:   info.CreatedAt,
	}
}

func (s *Server) mediaTypeAllowed(mediaType string) bool {
	if len(s.allowedMediaTypes) == 0 {
		return true
	}
	if _, ok := s.allowedMediaTypes[mediaType]; ok {
		return true
	}
	// Wildcard entries like "audio/*" admit the whole top-level type.
	if top, _, found := strings.Cut(mediaType, "/"); found {
		_, ok := s.allowedMediaTypes[top+"/*"]
		return ok
	}
	return false
}

func normalizeMediaType(raw string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", fmt.Errorf("invalid media type %q", raw)
	}
	return strings.ToLower(mediaType), nil
}

func classifyMultipartError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
		return badRequestCode(fmt.Errorf("request body too large"), ErrCodeRequestTooLarge)
	}
	return badRequestCode(err, ErrCodeInvalidArgument)
}
