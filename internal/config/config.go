// Package config loads runtime configuration from a TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListenAddr = "127.0.0.1:7380"
	DefaultLogLevel   = "info"
	DefaultBackend    = "gridfs"

	DefaultMongoURI      = "mongodb://127.0.0.1:27017"
	DefaultMongoDatabase = "mediavault"
	DefaultMongoBucket   = "media"

	DefaultMaxUploadBytes     int64 = 200 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024

	configPathEnvKey  = "MEDIAVAULT_CONFIG"
	defaultConfigFile = "mediavault.toml"
)

// StorageConfig selects and configures the object-store backend.
type StorageConfig struct {
	// Backend is one of gridfs, s3, local, memory.
	Backend        string      `toml:"backend"`
	ChunkSizeBytes int64       `toml:"chunk_size_bytes"`
	Mongo          MongoConfig `toml:"mongo"`
	S3             S3Config    `toml:"s3"`
	Local          LocalConfig `toml:"local"`
}

// MongoConfig configures the GridFS backend and the media catalog.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Bucket     string `toml:"bucket"`
	Collection string `toml:"collection"`
}

// S3Config configures the S3 backend.
type S3Config struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// LocalConfig configures the filesystem backend.
type LocalConfig struct {
	Root string `toml:"root"`
}

// UploadConfig bounds multipart uploads.
type UploadConfig struct {
	MaxUploadBytes     int64    `toml:"max_upload_bytes"`
	MultipartMaxMemory int64    `toml:"multipart_max_memory"`
	AllowedMediaTypes  []string `toml:"allowed_media_types"`
}

// Config defines runtime configuration for mediavault.
type Config struct {
	ListenAddr string        `toml:"listen_addr"`
	LogLevel   string        `toml:"log_level"`
	AdminToken string        `toml:"admin_token"`
	Storage    StorageConfig `toml:"storage"`
	Upload     UploadConfig  `toml:"upload"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		ListenAddr: DefaultListenAddr,
		LogLevel:   DefaultLogLevel,
		Storage: StorageConfig{
			Backend: DefaultBackend,
			Mongo: MongoConfig{
				URI:      DefaultMongoURI,
				Database: DefaultMongoDatabase,
				Bucket:   DefaultMongoBucket,
			},
		},
		Upload: UploadConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
	}
}

// Load resolves configuration: defaults, then the config file (explicit
// MEDIAVAULT_CONFIG path or ./mediavault.toml if present), then
// environment overrides.
func Load() (Config, error) {
	cfg := Default()

	path := strings.TrimSpace(os.Getenv(configPathEnvKey))
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if loaded, err := loadFileIfExists(path, &cfg); err != nil {
		return cfg, err
	} else if explicit && !loaded {
		return cfg, fmt.Errorf("config file %s not found", path)
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "gridfs":
		if c.Storage.Mongo.URI == "" || c.Storage.Mongo.Database == "" {
			return fmt.Errorf("storage.mongo.uri and storage.mongo.database are required for the gridfs backend")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 backend")
		}
	case "local":
		if c.Storage.Local.Root == "" {
			return fmt.Errorf("storage.local.root is required for the local backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Upload.MaxUploadBytes <= 0 {
		return fmt.Errorf("upload.max_upload_bytes must be positive")
	}
	if c.Upload.MultipartMaxMemory <= 0 {
		return fmt.Errorf("upload.multipart_max_memory must be positive")
	}
	return nil
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			*dst = value
		}
	}
	setString("MEDIAVAULT_LISTEN_ADDR", &cfg.ListenAddr)
	setString("MEDIAVAULT_LOG_LEVEL", &cfg.LogLevel)
	setString("MEDIAVAULT_ADMIN_TOKEN", &cfg.AdminToken)
	setString("MEDIAVAULT_BACKEND", &cfg.Storage.Backend)
	setString("MEDIAVAULT_MONGO_URI", &cfg.Storage.Mongo.URI)
	setString("MEDIAVAULT_MONGO_DATABASE", &cfg.Storage.Mongo.Database)
	setString("MEDIAVAULT_S3_BUCKET", &cfg.Storage.S3.Bucket)
	setString("MEDIAVAULT_S3_ENDPOINT", &cfg.Storage.S3.Endpoint)
	setString("MEDIAVAULT_LOCAL_ROOT", &cfg.Storage.Local.Root)

	if value := strings.TrimSpace(os.Getenv("MEDIAVAULT_MAX_UPLOAD_BYTES")); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			cfg.Upload.MaxUploadBytes = parsed
		}
	}
}
