package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediavault/internal/models"
	"mediavault/internal/objectstore"
)

const defaultCollection = "media_items"

// Mongo stores media items in a MongoDB collection.
type Mongo struct {
	coll *mongo.Collection
}

// itemDoc is the persisted shape. Object references and the legacy cover
// path are optional fields so documents written by older uploads (cover
// path only, no cover object) decode without per-route special cases.
type itemDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Kind          string             `bson:"kind"`
	Title         string             `bson:"title"`
	Artist        string             `bson:"artist,omitempty"`
	ObjectID      primitive.ObjectID `bson:"objectId,omitempty"`
	CoverObjectID primitive.ObjectID `bson:"coverObjectId,omitempty"`
	CoverPath     string             `bson:"coverImagePath,omitempty"`
	ContentType   string             `bson:"contentType,omitempty"`
	SizeBytes     int64              `bson:"sizeBytes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// NewMongo creates a catalog over the given database. An empty collection
// name falls back to "media_items".
func NewMongo(db *mongo.Database, collection string) (*Mongo, error) {
	if db == nil {
		return nil, fmt.Errorf("catalog: mongo database is required")
	}
	if collection == "" {
		collection = defaultCollection
	}
	return &Mongo{coll: db.Collection(collection)}, nil
}

// Create inserts item and assigns its id.
func (m *Mongo) Create(ctx context.Context, item *models.MediaItem) error {
	if item == nil {
		return fmt.Errorf("catalog: item is required")
	}
	doc, err := docFromItem(item)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("catalog: inserting item: %w", err)
	}
	item.ID = doc.ID.Hex()
	item.CreatedAt = doc.CreatedAt
	item.UpdatedAt = doc.UpdatedAt
	return nil
}

// Get returns one item by id.
func (m *Mongo) Get(ctx context.Context, id string) (models.MediaItem, error) {
	var zero models.MediaItem
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, ErrNotFound
	}
	var doc itemDoc
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("catalog: finding item %s: %w", id, err)
	}
	return doc.toItem(), nil
}

// List returns items, optionally filtered by kind, newest first.
func (m *Mongo) List(ctx context.Context, kind string) ([]models.MediaItem, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.MediaItem
	for cursor.Next(ctx) {
		var doc itemDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("catalog: decoding item: %w", err)
		}
		items = append(items, doc.toItem())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterating items: %w", err)
	}
	return items, nil
}

// Delete removes one item and returns the removed document.
func (m *Mongo) Delete(ctx context.Context, id string) (models.MediaItem, error) {
	var zero models.MediaItem
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, ErrNotFound
	}
	var doc itemDoc
	if err := m.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("catalog: deleting item %s: %w", id, err)
	}
	return doc.toItem(), nil
}

func docFromItem(item *models.MediaItem) (itemDoc, error) {
	var zero itemDoc
	doc := itemDoc{
		Kind:        item.Kind,
		Title:       item.Title,
		Artist:      item.Artist,
		CoverPath:   item.CoverPath,
		ContentType: item.ContentType,
		SizeBytes:   item.SizeBytes,
	}
	if item.ObjectID != "" {
		oid, err := primitive.ObjectIDFromHex(item.ObjectID)
		if err != nil {
			return zero, objectstore.ErrInvalidID
		}
		doc.ObjectID = oid
	}
	if item.CoverObjectID != "" {
		oid, err := primitive.ObjectIDFromHex(item.CoverObjectID)
		if err != nil {
			return zero, objectstore.ErrInvalidID
		}
		doc.CoverObjectID = oid
	}
	return doc, nil
}

func (d itemDoc) toItem() models.MediaItem {
	item := models.MediaItem{
		ID:          d.ID.Hex(),
		Kind:        d.Kind,
		Title:       d.Title,
		Artist:      d.Artist,
		CoverPath:   d.CoverPath,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if !d.ObjectID.IsZero() {
		item.ObjectID = d.ObjectID.Hex()
	}
	if !d.CoverObjectID.IsZero() {
		item.CoverObjectID = d.CoverObjectID.Hex()
	}
	return item
}
