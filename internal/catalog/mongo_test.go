package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"mediavault/internal/models"
)

func TestMongoCreateAssignsID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		cat, err := NewMongo(mt.DB, "")
		if err != nil {
			mt.Fatalf("new catalog: %v", err)
		}

		item := models.MediaItem{
			Kind:     string(models.MediaKindSong),
			Title:    "First Light",
			Artist:   "The Examples",
			ObjectID: primitive.NewObjectID().Hex(),
		}
		if err := cat.Create(context.Background(), &item); err != nil {
			mt.Fatalf("create: %v", err)
		}
		if item.ID == "" {
			mt.Fatal("expected assigned id")
		}
		if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
			mt.Fatal("expected timestamps")
		}
	})

	mt.Run("rejects malformed object ref", func(mt *mtest.T) {
		cat, err := NewMongo(mt.DB, "")
		if err != nil {
			mt.Fatalf("new catalog: %v", err)
		}
		item := models.MediaItem{Kind: "song", Title: "x", ObjectID: "nope"}
		if err := cat.Create(context.Background(), &item); err == nil {
			mt.Fatal("expected error for malformed object id")
		}
	})
}

func TestMongoGetNormalizesLegacyCover(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("legacy cover path only", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		blob := primitive.NewObjectID()
		ns := fmt.Sprintf("%s.media_items", mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "kind", Value: "song"},
			{Key: "title", Value: "Old Upload"},
			{Key: "objectId", Value: blob},
			{Key: "coverImagePath", Value: "/static/covers/old.jpg"},
			{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
			{Key: "updatedAt", Value: primitive.NewDateTimeFromTime(time.Now())},
		}))

		cat, err := NewMongo(mt.DB, "")
		if err != nil {
			mt.Fatalf("new catalog: %v", err)
		}
		item, err := cat.Get(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("get: %v", err)
		}
		if item.CoverObjectID != "" {
			mt.Fatalf("expected no cover object id, got %q", item.CoverObjectID)
		}
		if got := item.CoverURL(); got != "/static/covers/old.jpg" {
			mt.Fatalf("CoverURL = %q", got)
		}
		if got := item.ContentURL(); got != "/files/"+blob.Hex() {
			mt.Fatalf("ContentURL = %q", got)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		ns := fmt.Sprintf("%s.media_items", mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		cat, err := NewMongo(mt.DB, "")
		if err != nil {
			mt.Fatalf("new catalog: %v", err)
		}
		if _, err := cat.Get(context.Background(), primitive.NewObjectID().Hex()); err != ErrNotFound {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryCatalogLifecycle(t *testing.T) {
	cat := NewMemory()
	ctx := context.Background()

	song := models.MediaItem{Kind: "song", Title: "A", ObjectID: "65b2f1c09d1e4a0001aabbcc"}
	video := models.MediaItem{Kind: "video", Title: "B", ObjectID: "65b2f1c09d1e4a0001aabbdd"}
	if err := cat.Create(ctx, &song); err != nil {
		t.Fatalf("create song: %v", err)
	}
	if err := cat.Create(ctx, &video); err != nil {
		t.Fatalf("create video: %v", err)
	}

	all, err := cat.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 items, got %d", len(all))
	}

	songs, err := cat.List(ctx, "song")
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(songs) != 1 || songs[0].ID != song.ID {
		t.Fatalf("unexpected song list: %#v", songs)
	}

	deleted, err := cat.Delete(ctx, song.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ObjectID != song.ObjectID {
		t.Fatalf("delete returned wrong item: %#v", deleted)
	}
	if _, err := cat.Get(ctx, song.ID); err != ErrNotFound {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := cat.Delete(ctx, song.ID); err != ErrNotFound {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}
