package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFS stores objects in a MongoDB GridFS bucket. Content type and tags
// live in the file document's metadata subdocument, so Stat is a single
// find on the files collection and never touches chunk data. Range reads
// use the driver's native DownloadStream.Skip, which seeks by chunk index
// instead of consuming leading chunks.
type GridFS struct {
	bucket *gridfs.Bucket
	files  *mongo.Collection
}

type gridfsMetadata struct {
	ContentType string            `bson:"contentType"`
	Tags        map[string]string `bson:"tags,omitempty"`
}

type gridfsFileDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	Length     int64              `bson:"length"`
	UploadDate time.Time          `bson:"uploadDate"`
	Filename   string             `bson:"filename"`
	Metadata   gridfsMetadata     `bson:"metadata"`
}

// NewGridFS creates a GridFS store over db. A non-positive chunkSize falls
// back to the driver default (255 KiB).
func NewGridFS(db *mongo.Database, bucketName string, chunkSize int32) (*GridFS, error) {
	if db == nil {
		return nil, fmt.Errorf("objectstore: mongo database is required")
	}
	opts := options.GridFSBucket()
	if bucketName != "" {
		opts.SetName(bucketName)
	}
	if chunkSize > 0 {
		opts.SetChunkSizeBytes(chunkSize)
	}
	bucket, err := gridfs.NewBucket(db, opts)
	if err != nil {
		return nil, fmt.Errorf("objectstore: creating gridfs bucket: %w", err)
	}
	return &GridFS{bucket: bucket, files: bucket.GetFilesCollection()}, nil
}

// Put streams r into a new GridFS file. The files document is written only
// when the upload stream closes cleanly; an interrupted copy aborts the
// upload and leaves nothing resolvable.
func (g *GridFS) Put(ctx context.Context, r io.Reader, info PutInfo) (string, error) {
	if r == nil {
		return "", fmt.Errorf("objectstore: reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	oid := primitive.NewObjectID()
	uploadOpts := options.GridFSUpload().SetMetadata(gridfsMetadata{
		ContentType: info.ContentType,
		Tags:        info.Tags,
	})

	us, err := g.bucket.OpenUploadStreamWithID(oid, info.Filename, uploadOpts)
	if err != nil {
		return "", fmt.Errorf("objectstore: opening upload stream: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = us.SetWriteDeadline(deadline)
	}

	if _, err := io.Copy(us, r); err != nil {
		_ = us.Abort()
		return "", fmt.Errorf("objectstore: uploading blob: %w", err)
	}
	if err := us.Close(); err != nil {
		return "", fmt.Errorf("objectstore: committing upload: %w", err)
	}
	return oid.Hex(), nil
}

// Stat finds the file document on the files collection.
func (g *GridFS) Stat(ctx context.Context, id string) (ObjectInfo, error) {
	var zero ObjectInfo
	oid, err := parseObjectID(id)
	if err != nil {
		return zero, err
	}

	var doc gridfsFileDoc
	if err := g.files.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("objectstore: stat %s: %w", id, err)
	}
	return ObjectInfo{
		ID:          id,
		Length:      doc.Length,
		ContentType: doc.Metadata.ContentType,
		Filename:    doc.Filename,
		Tags:        doc.Metadata.Tags,
		CreatedAt:   doc.UploadDate,
	}, nil
}

// OpenRange opens a download stream, skips to start via the driver's
// chunk-granular Skip, and bounds the read at end inclusive.
func (g *GridFS) OpenRange(ctx context.Context, id string, start, end int64) (io.ReadCloser, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := g.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("objectstore: opening download stream: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = ds.SetReadDeadline(deadline)
	}

	length := ds.GetFile().Length
	start, end, err = resolveRange(start, end, length)
	if err != nil {
		_ = ds.Close()
		return nil, err
	}
	if start > 0 {
		if _, err := ds.Skip(start); err != nil {
			_ = ds.Close()
			return nil, fmt.Errorf("objectstore: skipping to offset %d: %w", start, err)
		}
	}
	return newCancelReader(ctx, &boundedStream{r: io.LimitReader(ds, end-start+1), c: ds}), nil
}

// Delete removes the file document and its chunks.
func (g *GridFS) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.bucket.Delete(oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("objectstore: deleting %s: %w", id, err)
	}
	return nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	if !ValidID(id) {
		return primitive.NilObjectID, ErrInvalidID
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// boundedStream limits reads to the requested window while closing the
// full underlying stream.
type boundedStream struct {
	r io.Reader
	c io.Closer
}

func (b *boundedStream) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *boundedStream) Close() error               { return b.c.Close() }
