package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"mediavault/internal/objectstore"
)

const cacheControlImmutable = "public, max-age=31536000, immutable"

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, true)
}

func (s *Server) handleHeadFile(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, false)
}

// serveFile is the byte-serving state machine: validate the id, stat the
// object, decide full/partial/unsatisfiable, then (for GET) drive the
// store's bounded range stream into the response.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, withBody bool) {
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

	outcome, window := resolveRequestRange(r.Header.Get("Range"), info.Length, info.ContentType)

	header := w.Header()
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	header.Set("Accept-Ranges", "bytes")
	// Object bytes are immutable for the lifetime of an id, so the id
	// itself is a strong validator and aggressive caching is safe.
	header.Set("Cache-Control", cacheControlImmutable)
	header.Set("ETag", `"`+id+`"`)

	status := http.StatusOK
	switch outcome {
	case rangeUnsatisfiable:
		header.Set("Content-Range", fmt.Sprintf("bytes */%d", info.Length))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	case rangePartial:
		header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", window.start, window.end, info.Length))
		header.Set("Content-Length", strconv.FormatInt(window.length(), 10))
		status = http.StatusPartialContent
	case rangeFull:
		header.Set("Content-Length", strconv.FormatInt(info.Length, 10))
	}

	// HEAD emits headers only and never opens a store stream.
	if !withBody {
		w.WriteHeader(status)
		return
	}

	start, end := window.start, window.end
	if outcome == rangeFull {
		start, end = 0, objectstore.RangeToEnd
	}
	rc, err := s.store.OpenRange(r.Context(), id, start, end)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	defer rc.Close()

	w.WriteHeader(status)
	if _, err := io.Copy(w, rc); err != nil {
		// Headers are committed; the only remedy is tearing the
		// connection down. Client aborts land here too.
		s.log().Debug("file stream interrupted",
			"id", id, "status", status, "error", err,
			"method", r.Method, "remote_addr", r.RemoteAddr)
	}
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !objectstore.ValidID(id) {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("invalid object id"), ErrCodeInvalidID))
		return
	}

	err := s.store.Delete(r.Context(), id)
	// The HTTP edge is ensure-gone: deleting an already-absent object
	// succeeds, even though the adapter reports ErrNotFound.
	if err != nil && !errors.Is(err, objectstore.ErrNotFound) {
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

// writeStoreError maps adapter errors onto response statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, objectstore.ErrInvalidID):
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidID))
	case errors.Is(err, objectstore.ErrNotFound):
		s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("object not found"), ErrCodeObjectNotFound))
	default:
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
	}
}
