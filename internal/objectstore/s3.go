package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const s3TagPrefix = "mv-tag-"

// S3API is the subset of the S3 client used by the store. A narrow
// interface keeps the store testable with a mock client.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds configuration for the S3 store.
type S3Config struct {
	// Bucket is the S3 bucket name. Required.
	Bucket string
	// Prefix is an optional key prefix for all objects.
	Prefix string
}

// S3 implements Store on an S3-compatible backend (AWS S3, MinIO,
// LocalStack). Range reads map straight onto the HTTP Range header, which
// is the backend's native range-skip: no leading bytes cross the wire.
type S3 struct {
	client     S3API
	bucket     string
	prefix     string
	createTemp func() (*os.File, error)
}

// NewS3 creates an S3 store. The client must be pre-configured with
// credentials, region, and endpoint (use aws-sdk-go-v2/config).
func NewS3(client S3API, cfg S3Config) (*S3, error) {
	if client == nil {
		return nil, errors.New("objectstore: s3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("objectstore: s3 bucket is required")
	}
	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     prefix,
		createTemp: func() (*os.File, error) { return os.CreateTemp("", "mediavault-s3-*") },
	}, nil
}

// Put spools r to a temp file so the object length is known, then issues a
// single PutObject. A partial spool or failed PutObject leaves no key
// behind.
func (s *S3) Put(ctx context.Context, r io.Reader, info PutInfo) (string, error) {
	if r == nil {
		return "", fmt.Errorf("objectstore: reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := s.createTemp()
	if err != nil {
		return "", fmt.Errorf("objectstore: creating spool file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return "", fmt.Errorf("objectstore: spooling blob: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	id := NewID()
	metadata := map[string]string{"mv-filename": info.Filename}
	for k, v := range info.Tags {
		metadata[s3TagPrefix+k] = v
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(id)),
		Body:          tmp,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(info.ContentType),
		Metadata:      metadata,
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: s3 put: %w", err)
	}
	return id, nil
}

// Stat issues a HeadObject.
func (s *S3) Stat(ctx context.Context, id string) (ObjectInfo, error) {
	var zero ObjectInfo
	if !ValidID(id) {
		return zero, ErrInvalidID
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("objectstore: s3 head: %w", err)
	}

	info := ObjectInfo{
		ID:          id,
		Length:      aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.LastModified != nil {
		info.CreatedAt = *out.LastModified
	}
	for k, v := range out.Metadata {
		switch {
		case k == "mv-filename":
			info.Filename = v
		case strings.HasPrefix(k, s3TagPrefix):
			if info.Tags == nil {
				info.Tags = map[string]string{}
			}
			info.Tags[strings.TrimPrefix(k, s3TagPrefix)] = v
		}
	}
	return info, nil
}

// OpenRange issues a GetObject with a bytes=start-end Range header. The
// window is validated against a HeadObject length first: S3 would clamp a
// trailing overshoot instead of erroring, and the adapter contract is an
// exact [start, end] or ErrRange on every backend.
func (s *S3) OpenRange(ctx context.Context, id string, start, end int64) (io.ReadCloser, error) {
	info, err := s.Stat(ctx, id)
	if err != nil {
		return nil, err
	}
	start, end, err = resolveRange(start, end, info.Length)
	if err != nil {
		return nil, err
	}

	in := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	}
	if start > 0 || end < info.Length-1 {
		// S3 Range format is inclusive: "bytes=start-end".
		in.Range = aws.String(fmt.Sprintf("bytes=%d-%d", start, end))
	}

	out, err := s.client.GetObject(ctx, in)
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidRange" {
			return nil, ErrRange
		}
		return nil, fmt.Errorf("objectstore: s3 range get: %w", err)
	}
	return newCancelReader(ctx, out.Body), nil
}

// Delete heads the key first so an absent id surfaces as ErrNotFound, then
// removes it. S3 DeleteObject alone would succeed silently for missing keys.
func (s *S3) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}

	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	}); err != nil {
		if isS3NotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("objectstore: s3 head before delete: %w", err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	}); err != nil {
		return fmt.Errorf("objectstore: s3 delete: %w", err)
	}
	return nil
}

func (s *S3) key(id string) string {
	return s.prefix + id
}

func isS3NotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
