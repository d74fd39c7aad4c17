// Package api defines the JSON request/response shapes of the HTTP surface.
package api

import (
	"time"

	"mediavault/internal/models"
)

// ErrorResponse is the error envelope returned by API routes.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// ObjectResponse describes a stored object after upload or stat.
type ObjectResponse struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	SizeBytes   int64             `json:"size_bytes"`
	ContentType string            `json:"content_type,omitempty"`
	Filename    string            `json:"filename,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
}

// MediaCreateRequest registers a catalog item for uploaded objects.
type MediaCreateRequest struct {
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Artist        string `json:"artist,omitempty"`
	ObjectID      string `json:"object_id"`
	CoverObjectID string `json:"cover_object_id,omitempty"`
}

// MediaItemResponse is a catalog item with its normalized content URLs.
type MediaItemResponse struct {
	models.MediaItem
	ContentURL string `json:"content_url"`
	CoverURL   string `json:"cover_url,omitempty"`
}

// NewMediaItemResponse wraps an item with its canonical URLs.
func NewMediaItemResponse(item models.MediaItem) MediaItemResponse {
	return MediaItemResponse{
		MediaItem:  item,
		ContentURL: item.ContentURL(),
		CoverURL:   item.CoverURL(),
	}
}
