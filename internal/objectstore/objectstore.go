// Package objectstore abstracts chunked binary object storage behind a
// small backend-neutral interface: whole-blob writes, metadata-only stats,
// bounded range reads, and deletes.
//
// Object identifiers are 24-character lowercase hex strings (Mongo ObjectID
// format) across all backends, so callers can validate an identifier before
// any store I/O regardless of which backend is configured.
package objectstore

import (
	"context"
	"errors"
	"io"
	"regexp"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when an identifier does not resolve to a
	// stored object.
	ErrNotFound = errors.New("objectstore: object not found")

	// ErrInvalidID is returned for identifiers that fail syntax validation.
	ErrInvalidID = errors.New("objectstore: invalid object id")

	// ErrRange is returned when a requested byte range falls outside the
	// stored object.
	ErrRange = errors.New("objectstore: range out of bounds")
)

// RangeToEnd requests the remainder of the object from start onward.
const RangeToEnd int64 = -1

var objectIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// ValidID reports whether id is a well-formed object identifier.
func ValidID(id string) bool {
	return objectIDPattern.MatchString(id)
}

// NewID generates a fresh object identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// PutInfo carries the metadata persisted alongside a new object.
type PutInfo struct {
	Filename    string
	ContentType string
	Tags        map[string]string
}

// ObjectInfo describes a stored object without reading its bytes.
type ObjectInfo struct {
	ID          string
	Length      int64
	ContentType string
	Filename    string
	Tags        map[string]string
	CreatedAt   time.Time
}

// Store is the chunked-object storage abstraction. Stored bytes are
// immutable for the lifetime of an identifier; replacing content means
// storing a new object and discarding the old id. Implementations are safe
// for concurrent use.
type Store interface {
	// Put stores the full contents of r as a new object and returns its
	// identifier. Either the complete write commits and the id resolves,
	// or the id does not exist.
	Put(ctx context.Context, r io.Reader, info PutInfo) (string, error)

	// Stat returns object metadata without reading data. It must be a
	// cheap metadata-only lookup.
	Stat(ctx context.Context, id string) (ObjectInfo, error)

	// OpenRange returns a lazily-consumed stream over exactly
	// [start, end] of the object, both bounds inclusive. Pass RangeToEnd
	// as end to read through the last byte. The stream must not buffer
	// the whole object, and closing it terminates the backend read.
	OpenRange(ctx context.Context, id string, start, end int64) (io.ReadCloser, error)

	// Delete removes the object and all its chunks. Deleting an absent
	// id returns ErrNotFound; callers wanting ensure-gone semantics
	// treat that as success.
	Delete(ctx context.Context, id string) error
}

// resolveRange validates [start, end] against an object of the given length
// and substitutes length-1 for RangeToEnd. A range is satisfiable only when
// 0 <= start <= end < length; the sole exception is the full read of an
// empty object, which yields an empty stream.
func resolveRange(start, end, length int64) (int64, int64, error) {
	if end == RangeToEnd {
		end = length - 1
	}
	if length == 0 && start == 0 && end == -1 {
		return 0, -1, nil
	}
	if start < 0 || start >= length || end >= length || start > end {
		return 0, 0, ErrRange
	}
	return start, end, nil
}

// cancelReader ties a stream's lifetime to a context: a cancelled context
// actively closes the underlying stream so backend cursors are torn down
// even when the consumer never calls Close.
type cancelReader struct {
	ctx  context.Context
	rc   io.ReadCloser
	stop func() bool
	once sync.Once
}

func newCancelReader(ctx context.Context, rc io.ReadCloser) io.ReadCloser {
	cr := &cancelReader{ctx: ctx, rc: rc}
	cr.stop = context.AfterFunc(ctx, func() {
		_ = rc.Close()
	})
	return cr
}

func (cr *cancelReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.rc.Read(p)
}

func (cr *cancelReader) Close() error {
	cr.stop()
	var err error
	cr.once.Do(func() { err = cr.rc.Close() })
	return err
}
