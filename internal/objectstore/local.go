package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Local stores objects as flat files under a root directory, sharded by id
// prefix, with a JSON sidecar holding the metadata a Stat needs. Range reads
// use the file's native seek, so a read near the end of a large file never
// touches the leading bytes.
type Local struct {
	root string
}

type localMeta struct {
	Length      int64             `json:"length"`
	ContentType string            `json:"content_type"`
	Filename    string            `json:"filename,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewLocal creates a local store rooted at root.
func NewLocal(root string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("objectstore: local root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Put spools r to a temp file, then commits data and sidecar with a rename
// so a partial write never leaves a resolvable object.
func (l *Local) Put(ctx context.Context, r io.Reader, info PutInfo) (string, error) {
	if l == nil {
		return "", fmt.Errorf("objectstore: local store is not configured")
	}
	if r == nil {
		return "", fmt.Errorf("objectstore: reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Join(l.root, "tmp"), "put-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", err
	}

	id := NewID()
	dataPath := l.dataPath(id)
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		cleanup()
		return "", err
	}

	meta := localMeta{
		Length:      n,
		ContentType: info.ContentType,
		Filename:    info.Filename,
		Tags:        cloneTags(info.Tags),
		CreatedAt:   time.Now().UTC(),
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		cleanup()
		return "", err
	}
	if err := os.WriteFile(l.metaPath(id), encoded, 0o644); err != nil {
		cleanup()
		return "", err
	}

	// Data lands last: the sidecar alone never resolves to an object
	// because Stat checks the data file first.
	if err := os.Rename(tmpPath, dataPath); err != nil {
		_ = os.Remove(l.metaPath(id))
		cleanup()
		return "", err
	}
	return id, nil
}

// Stat reads the sidecar only.
func (l *Local) Stat(ctx context.Context, id string) (ObjectInfo, error) {
	var zero ObjectInfo
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if !ValidID(id) {
		return zero, ErrInvalidID
	}
	if _, err := os.Stat(l.dataPath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	encoded, err := os.ReadFile(l.metaPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	var meta localMeta
	if err := json.Unmarshal(encoded, &meta); err != nil {
		return zero, fmt.Errorf("objectstore: corrupt sidecar for %s: %w", id, err)
	}
	return ObjectInfo{
		ID:          id,
		Length:      meta.Length,
		ContentType: meta.ContentType,
		Filename:    meta.Filename,
		Tags:        meta.Tags,
		CreatedAt:   meta.CreatedAt,
	}, nil
}

// OpenRange opens the data file and seeks straight to start.
func (l *Local) OpenRange(ctx context.Context, id string, start, end int64) (io.ReadCloser, error) {
	info, err := l.Stat(ctx, id)
	if err != nil {
		return nil, err
	}
	start, end, err = resolveRange(start, end, info.Length)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(l.dataPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if start > 0 {
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return newCancelReader(ctx, &limitedFile{f: f, remain: end - start + 1}), nil
}

// Delete removes data and sidecar. Absent ids return ErrNotFound.
func (l *Local) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidID(id) {
		return ErrInvalidID
	}
	err := os.Remove(l.dataPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := os.Remove(l.metaPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) dataPath(id string) string {
	return filepath.Join(l.root, id[0:2], id[2:4], id)
}

func (l *Local) metaPath(id string) string {
	return l.dataPath(id) + ".json"
}

// limitedFile reads at most remain bytes from f and closes it.
type limitedFile struct {
	f      *os.File
	remain int64
}

func (lf *limitedFile) Read(p []byte) (int, error) {
	if lf.remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > lf.remain {
		p = p[:lf.remain]
	}
	n, err := lf.f.Read(p)
	lf.remain -= int64(n)
	return n, err
}

func (lf *limitedFile) Close() error { return lf.f.Close() }
