// Package catalog persists media items (songs, videos, photos) that
// reference stored objects by id. The catalog is the layer that hands out
// object ids to clients; the file-serving routes themselves stay
// unauthenticated.
package catalog

import (
	"context"
	"errors"

	"mediavault/internal/models"
)

// ErrNotFound is returned when a media item id does not resolve.
var ErrNotFound = errors.New("catalog: media item not found")

// Store persists media items. Implementations are safe for concurrent use.
type Store interface {
	// Create inserts item and fills in its id and timestamps.
	Create(ctx context.Context, item *models.MediaItem) error

	// Get returns one item by id.
	Get(ctx context.Context, id string) (models.MediaItem, error)

	// List returns items, optionally filtered by kind, newest first.
	List(ctx context.Context, kind string) ([]models.MediaItem, error)

	// Delete removes one item and returns it, so callers can cascade
	// deletion of the backing objects.
	Delete(ctx context.Context, id string) (models.MediaItem, error)
}
