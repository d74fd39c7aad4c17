package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mediavault/internal/api"
	"mediavault/internal/catalog"
	"mediavault/internal/models"
	"mediavault/internal/objectstore"
)

// MediaService orchestrates catalog workflows: it validates object
// references against the store on create and cascades object deletion when
// an item is removed, so deleting a song does not orphan its audio or
// cover blobs.
type MediaService struct {
	catalog catalog.Store
	objects objectstore.Store
	logger  *slog.Logger
}

// NewMediaService constructs a MediaService.
func NewMediaService(cat catalog.Store, objects objectstore.Store) *MediaService {
	return &MediaService{catalog: cat, objects: objects, logger: slog.Default()}
}

// Create validates the request and registers a catalog item. The backing
// object must already exist; its content type and size are denormalized
// onto the item.
func (s *MediaService) Create(ctx context.Context, req api.MediaCreateRequest) (models.MediaItem, error) {
	var zero models.MediaItem
	if s == nil || s.catalog == nil || s.objects == nil {
		return zero, internalError(fmt.Errorf("media service is not configured"))
	}

	kind, err := models.ParseMediaKind(req.Kind)
	if err != nil {
		return zero, badRequestCode(err, ErrCodeInvalidKind)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return zero, badRequestCode(fmt.Errorf("title is required"), ErrCodeMissingRequired)
	}
	if !objectstore.ValidID(req.ObjectID) {
		return zero, badRequestCode(fmt.Errorf("invalid object_id"), ErrCodeInvalidID)
	}

	info, err := s.objects.Stat(ctx, req.ObjectID)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return zero, notFoundCode(fmt.Errorf("object %s not found", req.ObjectID), ErrCodeObjectNotFound)
		}
		return zero, storeFailure(err)
	}

	if req.CoverObjectID != "" {
		if !objectstore.ValidID(req.CoverObjectID) {
			return zero, badRequestCode(fmt.Errorf("invalid cover_object_id"), ErrCodeInvalidID)
		}
		if _, err := s.objects.Stat(ctx, req.CoverObjectID); err != nil {
			if errors.Is(err, objectstore.ErrNotFound) {
				return zero, notFoundCode(fmt.Errorf("cover object %s not found", req.CoverObjectID), ErrCodeObjectNotFound)
			}
			return zero, storeFailure(err)
		}
	}

	item := models.MediaItem{
		Kind:          string(kind),
		Title:         title,
		Artist:        strings.TrimSpace(req.Artist),
		ObjectID:      req.ObjectID,
		CoverObjectID: req.CoverObjectID,
		ContentType:   info.ContentType,
		SizeBytes:     info.Length,
	}
	if err := s.catalog.Create(ctx, &item); err != nil {
		return zero, storeFailure(err)
	}
	return item, nil
}

// Get returns one catalog item.
func (s *MediaService) Get(ctx context.Context, id string) (models.MediaItem, error) {
	item, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return item, notFoundCode(fmt.Errorf("media item not found"), ErrCodeMediaNotFound)
		}
		return item, storeFailure(err)
	}
	return item, nil
}

// List returns catalog items, optionally filtered by kind.
func (s *MediaService) List(ctx context.Context, kind string) ([]models.MediaItem, error) {
	if kind != "" {
		parsed, err := models.ParseMediaKind(kind)
		if err != nil {
			return nil, badRequestCode(err, ErrCodeInvalidKind)
		}
		kind = string(parsed)
	}
	items, err := s.catalog.List(ctx, kind)
	if err != nil {
		return nil, storeFailure(err)
	}
	return items, nil
}

// Delete removes a catalog item and cascades deletion of its backing
// objects. An object already gone is fine; other object-store failures are
// logged but do not fail the delete, since the catalog entry itself is
// already removed.
func (s *MediaService) Delete(ctx context.Context, id string) (models.MediaItem, error) {
	item, err := s.catalog.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return item, notFoundCode(fmt.Errorf("media item not found"), ErrCodeMediaNotFound)
		}
		return item, storeFailure(err)
	}

	for _, objectID := range []string{item.ObjectID, item.CoverObjectID} {
		if objectID == "" {
			continue
		}
		if err := s.objects.Delete(ctx, objectID); err != nil && !errors.Is(err, objectstore.ErrNotFound) {
			s.logger.Error("cascade object delete failed", "media_id", id, "object_id", objectID, "error", err)
		}
	}
	return item, nil
}
