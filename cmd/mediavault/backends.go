package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"mediavault/internal/catalog"
	"mediavault/internal/config"
	"mediavault/internal/objectstore"
)

const mongoConnectTimeout = 10 * time.Second

// backends bundles the configured object store and catalog with a
// shutdown hook for whatever connections they hold.
type backends struct {
	store   objectstore.Store
	catalog catalog.Store
	close   func(context.Context) error
}

// openBackends builds the object store and catalog selected by the
// configuration. The gridfs backend shares one Mongo connection between
// object storage and the catalog; the other backends run with an
// in-process catalog.
func openBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Storage.Backend {
	case "gridfs":
		connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Storage.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("connecting to mongodb: %w", err)
		}
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("pinging mongodb: %w", err)
		}

		db := client.Database(cfg.Storage.Mongo.Database)
		store, err := objectstore.NewGridFS(db, cfg.Storage.Mongo.Bucket, int32(cfg.Storage.ChunkSizeBytes))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		cat, err := catalog.NewMongo(db, cfg.Storage.Mongo.Collection)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("using gridfs backend",
			"database", cfg.Storage.Mongo.Database, "bucket", cfg.Storage.Mongo.Bucket)
		return &backends{store: store, catalog: cat, close: client.Disconnect}, nil

	case "s3":
		client, err := newS3Client(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		store, err := objectstore.NewS3(client, objectstore.S3Config{
			Bucket: cfg.Storage.S3.Bucket,
			Prefix: cfg.Storage.S3.Prefix,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("using s3 backend", "bucket", cfg.Storage.S3.Bucket, "prefix", cfg.Storage.S3.Prefix)
		return &backends{store: store, catalog: catalog.NewMemory(), close: noop}, nil

	case "local":
		store, err := objectstore.NewLocal(cfg.Storage.Local.Root)
		if err != nil {
			return nil, err
		}
		logger.Info("using local backend", "root", cfg.Storage.Local.Root)
		return &backends{store: store, catalog: catalog.NewMemory(), close: noop}, nil

	case "memory":
		logger.Info("using memory backend")
		return &backends{
			store:   objectstore.NewMemory(cfg.Storage.ChunkSizeBytes),
			catalog: catalog.NewMemory(),
			close:   noop,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func newS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// Custom endpoints (MinIO, LocalStack) need path-style keys.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
