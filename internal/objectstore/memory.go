package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultChunkSize mirrors the GridFS default chunk size.
const DefaultChunkSize int64 = 255 * 1024

// Memory is an in-process chunked object store. It keeps each object as a
// sequence of fixed-size chunks and maps range reads onto chunk boundaries
// the same way a remote chunked store would: whole chunks before the range
// start are skipped by index arithmetic, never read and discarded.
//
// It backs tests and the "memory" dev backend.
type Memory struct {
	mu        sync.RWMutex
	chunkSize int64
	objects   map[string]*memoryObject
}

type memoryObject struct {
	info   ObjectInfo
	chunks [][]byte
}

// NewMemory creates a memory store with the given chunk size. A
// non-positive chunk size falls back to DefaultChunkSize.
func NewMemory(chunkSize int64) *Memory {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Memory{chunkSize: chunkSize, objects: map[string]*memoryObject{}}
}

// Put reads r fully and stores it as a new chunked object.
func (m *Memory) Put(ctx context.Context, r io.Reader, info PutInfo) (string, error) {
	if r == nil {
		return "", fmt.Errorf("objectstore: reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("objectstore: reading blob: %w", err)
	}

	var chunks [][]byte
	for off := int64(0); off < int64(len(data)); off += m.chunkSize {
		end := min(off+m.chunkSize, int64(len(data)))
		chunk := make([]byte, end-off)
		copy(chunk, data[off:end])
		chunks = append(chunks, chunk)
	}

	id := NewID()
	obj := &memoryObject{
		info: ObjectInfo{
			ID:          id,
			Length:      int64(len(data)),
			ContentType: info.ContentType,
			Filename:    info.Filename,
			Tags:        cloneTags(info.Tags),
			CreatedAt:   time.Now().UTC(),
		},
		chunks: chunks,
	}

	m.mu.Lock()
	m.objects[id] = obj
	m.mu.Unlock()
	return id, nil
}

// Stat returns object metadata without touching chunk data.
func (m *Memory) Stat(ctx context.Context, id string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	if !ValidID(id) {
		return ObjectInfo{}, ErrInvalidID
	}

	m.mu.RLock()
	obj, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		return ObjectInfo{}, ErrNotFound
	}
	info := obj.info
	info.Tags = cloneTags(info.Tags)
	return info, nil
}

// OpenRange returns a stream over [start, end] of the object. The reader
// starts at the chunk containing start and trims the first and last chunk
// to the exact requested boundaries.
func (m *Memory) OpenRange(ctx context.Context, id string, start, end int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	m.mu.RLock()
	obj, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	start, end, err := resolveRange(start, end, obj.info.Length)
	if err != nil {
		return nil, err
	}

	r := &chunkRangeReader{chunks: obj.chunks, chunkSize: m.chunkSize, pos: start, end: end}
	return newCancelReader(ctx, r), nil
}

// Delete removes the object. Absent ids return ErrNotFound.
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidID(id) {
		return ErrInvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[id]; !ok {
		return ErrNotFound
	}
	delete(m.objects, id)
	return nil
}

// chunkRangeReader walks stored chunks from the absolute offset pos through
// end inclusive. Chunks before pos are never visited.
type chunkRangeReader struct {
	chunks    [][]byte
	chunkSize int64
	pos       int64
	end       int64
}

func (r *chunkRangeReader) Read(p []byte) (int, error) {
	if r.pos > r.end {
		return 0, io.EOF
	}
	chunk := r.chunks[r.pos/r.chunkSize]
	offset := r.pos % r.chunkSize

	n := int64(len(chunk)) - offset
	if remain := r.end - r.pos + 1; n > remain {
		n = remain
	}
	if n > int64(len(p)) {
		n = int64(len(p))
	}
	copy(p, chunk[offset:offset+n])
	r.pos += n
	return int(n), nil
}

func (r *chunkRangeReader) Close() error { return nil }

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}
