package models

import (
	"fmt"
	"strings"
	"time"
)

// MediaKind describes what a catalog item is.
type MediaKind string

const (
	MediaKindSong  MediaKind = "song"
	MediaKindVideo MediaKind = "video"
	MediaKindPhoto MediaKind = "photo"
)

var validMediaKinds = map[MediaKind]struct{}{
	MediaKindSong:  {},
	MediaKindVideo: {},
	MediaKindPhoto: {},
}

// ParseMediaKind validates and canonicalizes a media kind.
func ParseMediaKind(raw string) (MediaKind, error) {
	value := MediaKind(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("media kind is required")
	}
	if _, ok := validMediaKinds[value]; !ok {
		return "", fmt.Errorf("invalid media kind: %s", value)
	}
	return value, nil
}

// MediaItem is a catalog entry referencing stored objects by id. Older
// entries may carry a legacy cover path instead of a cover object id; both
// shapes normalize through ContentURL/CoverURL so routes never branch on
// which fields happen to be present.
type MediaItem struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Artist        string    `json:"artist,omitempty"`
	ObjectID      string    `json:"object_id"`
	CoverObjectID string    `json:"cover_object_id,omitempty"`
	CoverPath     string    `json:"cover_path,omitempty"`
	ContentType   string    `json:"content_type,omitempty"`
	SizeBytes     int64     `json:"size_bytes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NormalizeObjectRef resolves the optional-field pair (object id, legacy
// path) to one canonical external reference: an id-based file URL when the
// id is present, the legacy path otherwise, or empty when neither exists.
func NormalizeObjectRef(objectID, legacyPath string) string {
	if id := strings.TrimSpace(objectID); id != "" {
		return "/files/" + id
	}
	return strings.TrimSpace(legacyPath)
}

// ContentURL returns the canonical URL for the item's main content.
func (m MediaItem) ContentURL() string {
	return NormalizeObjectRef(m.ObjectID, "")
}

// CoverURL returns the canonical URL for the item's cover image, if any.
func (m MediaItem) CoverURL() string {
	return NormalizeObjectRef(m.CoverObjectID, m.CoverPath)
}
