package main

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mediavault/internal/catalog"
	"mediavault/internal/config"
	"mediavault/internal/models"
	"mediavault/internal/objectstore"
)

// seedManifest is the YAML document consumed by the seed command. File
// paths are resolved relative to the manifest's directory.
type seedManifest struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	Kind      string `yaml:"kind"`
	Title     string `yaml:"title"`
	Artist    string `yaml:"artist"`
	Content   string `yaml:"content"`
	MediaType string `yaml:"media_type"`
	Cover     string `yaml:"cover"`
	CoverType string `yaml:"cover_type"`
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <manifest.yaml>",
		Short: "Bulk-load media files and catalog entries from a YAML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, baseDir, err := loadSeedManifest(args[0])
			if err != nil {
				return err
			}

			be, err := openBackends(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer func() { _ = be.close(context.Background()) }()

			for i, item := range manifest.Items {
				created, err := seedOne(cmd.Context(), be.store, be.catalog, baseDir, item)
				if err != nil {
					return fmt.Errorf("seeding item %d (%s): %w", i+1, item.Title, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s %s (%s)\n", created.Kind, created.Title, created.ID)
			}
			return nil
		},
	}
}

func loadSeedManifest(path string) (*seedManifest, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	var manifest seedManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, "", fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if err := validateSeedManifest(&manifest); err != nil {
		return nil, "", fmt.Errorf("manifest %s: %w", path, err)
	}
	return &manifest, filepath.Dir(path), nil
}

func validateSeedManifest(manifest *seedManifest) error {
	if len(manifest.Items) == 0 {
		return fmt.Errorf("no items")
	}
	for i, item := range manifest.Items {
		if _, err := models.ParseMediaKind(item.Kind); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("item %d: title is required", i+1)
		}
		if strings.TrimSpace(item.Content) == "" {
			return fmt.Errorf("item %d: content file is required", i+1)
		}
	}
	return nil
}

func seedOne(ctx context.Context, store objectstore.Store, cat catalog.Store, baseDir string, item seedItem) (models.MediaItem, error) {
	var zero models.MediaItem

	objectID, info, err := seedObject(ctx, store, baseDir, item.Content, item.MediaType, "content")
	if err != nil {
		return zero, err
	}

	var coverID string
	if item.Cover != "" {
		coverID, _, err = seedObject(ctx, store, baseDir, item.Cover, item.CoverType, "cover")
		if err != nil {
			return zero, err
		}
	}

	kind, _ := models.ParseMediaKind(item.Kind)
	created := models.MediaItem{
		Kind:          string(kind),
		Title:         strings.TrimSpace(item.Title),
		Artist:        strings.TrimSpace(item.Artist),
		ObjectID:      objectID,
		CoverObjectID: coverID,
		ContentType:   info.ContentType,
		SizeBytes:     info.Length,
	}
	if err := cat.Create(ctx, &created); err != nil {
		return zero, err
	}
	return created, nil
}

func seedObject(ctx context.Context, store objectstore.Store, baseDir, path, mediaType, role string) (string, objectstore.ObjectInfo, error) {
	var zero objectstore.ObjectInfo

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, resolved)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return "", zero, err
	}
	defer f.Close()

	if mediaType == "" {
		mediaType = mime.TypeByExtension(filepath.Ext(resolved))
	}

	id, err := store.Put(ctx, f, objectstore.PutInfo{
		Filename:    filepath.Base(resolved),
		ContentType: mediaType,
		Tags:        map[string]string{"role": role},
	})
	if err != nil {
		return "", zero, err
	}

	info, err := store.Stat(ctx, id)
	if err != nil {
		return "", zero, err
	}
	return id, info, nil
}
