package objectstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestGridFSStat(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		uploaded := time.Now().UTC().Truncate(time.Millisecond)
		ns := fmt.Sprintf("%s.media.files", mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "length", Value: int64(1000000)},
			{Key: "uploadDate", Value: primitive.NewDateTimeFromTime(uploaded)},
			{Key: "filename", Value: "track.mp3"},
			{Key: "metadata", Value: bson.D{
				{Key: "contentType", Value: "audio/mpeg"},
				{Key: "tags", Value: bson.D{{Key: "role", Value: "track"}}},
			}},
		}))

		store, err := NewGridFS(mt.DB, "media", 0)
		if err != nil {
			mt.Fatalf("new gridfs store: %v", err)
		}

		info, err := store.Stat(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("stat: %v", err)
		}
		if info.Length != 1000000 {
			mt.Fatalf("length = %d", info.Length)
		}
		if info.ContentType != "audio/mpeg" {
			mt.Fatalf("content type = %q", info.ContentType)
		}
		if info.Filename != "track.mp3" || info.Tags["role"] != "track" {
			mt.Fatalf("unexpected metadata: %#v", info)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		ns := fmt.Sprintf("%s.media.files", mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		store, err := NewGridFS(mt.DB, "media", 0)
		if err != nil {
			mt.Fatalf("new gridfs store: %v", err)
		}
		if _, err := store.Stat(context.Background(), primitive.NewObjectID().Hex()); err != ErrNotFound {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGridFSDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		// Files-collection delete, then chunk delete.
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 4}),
		)

		store, err := NewGridFS(mt.DB, "media", 0)
		if err != nil {
			mt.Fatalf("new gridfs store: %v", err)
		}
		if err := store.Delete(context.Background(), primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("delete: %v", err)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		store, err := NewGridFS(mt.DB, "media", 0)
		if err != nil {
			mt.Fatalf("new gridfs store: %v", err)
		}
		if err := store.Delete(context.Background(), primitive.NewObjectID().Hex()); err != ErrNotFound {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGridFSRejectsMalformedIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no store call on bad id", func(mt *mtest.T) {
		// No mock responses queued: any store round trip would fail loudly.
		store, err := NewGridFS(mt.DB, "media", 0)
		if err != nil {
			mt.Fatalf("new gridfs store: %v", err)
		}
		if _, err := store.Stat(context.Background(), "not-an-id"); err != ErrInvalidID {
			mt.Fatalf("stat: expected ErrInvalidID, got %v", err)
		}
		if _, err := store.OpenRange(context.Background(), "not-an-id", 0, RangeToEnd); err != ErrInvalidID {
			mt.Fatalf("open: expected ErrInvalidID, got %v", err)
		}
		if err := store.Delete(context.Background(), "not-an-id"); err != ErrInvalidID {
			mt.Fatalf("delete: expected ErrInvalidID, got %v", err)
		}
	})
}
