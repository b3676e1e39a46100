package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Storage is the object store used for institution media
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	GetInfo(ctx context.Context, key string) (*FileInfo, error)
	GetURL(key string) string
}

// Presigner issues time-limited read URLs for private objects
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// FileInfo describes a stored object
type FileInfo struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// Config selects and configures a storage backend
type Config struct {
	Driver string // r2, s3, local

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	LocalPath string
	LocalURL  string
}

// Backend is a store that can also presign reads
type Backend interface {
	Storage
	Presigner
}

// New builds the backend named by cfg.Driver
func New(cfg Config) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Driver {
	case "r2":
		b, err = NewR2Storage(cfg)
	case "s3":
		b, err = NewS3Storage(cfg)
	case "local", "":
		b, err = NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
