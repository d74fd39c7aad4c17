package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"mediavault/internal/models"
	"mediavault/internal/objectstore"
)

// Memory is an in-process catalog for tests and the "memory" dev backend.
type Memory struct {
	mu    sync.RWMutex
	items map[string]models.MediaItem
}

// NewMemory creates an empty in-process catalog.
func NewMemory() *Memory {
	return &Memory{items: map[string]models.MediaItem{}}
}

func (m *Memory) Create(ctx context.Context, item *models.MediaItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	item.ID = objectstore.NewID()
	item.CreatedAt = now
	item.UpdatedAt = now

	m.mu.Lock()
	m.items[item.ID] = *item
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (models.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return models.MediaItem{}, err
	}
	m.mu.RLock()
	item, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return models.MediaItem{}, ErrNotFound
	}
	return item, nil
}

func (m *Memory) List(ctx context.Context, kind string) ([]models.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	items := make([]models.MediaItem, 0, len(m.items))
	for _, item := range m.items {
		if kind == "" || item.Kind == kind {
			items = append(items, item)
		}
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (m *Memory) Delete(ctx context.Context, id string) (models.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return models.MediaItem{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return models.MediaItem{}, ErrNotFound
	}
	delete(m.items, id)
	return item, nil
}
