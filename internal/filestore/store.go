// Package filestore defines the interface for publishing rendered schema
// snapshots to object storage.
//
// Callers depend only on this package, never on a specific provider
// package. The only provider today is MinIO (S3-compatible).
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the contract all snapshot storage providers implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// Put uploads one rendered snapshot. size may be -1 when unknown,
	// at the cost of a multipart upload.
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)

	// Stat returns metadata for the object at key without downloading it.
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// PresignGetURL returns a time-limited download URL for a published
	// snapshot, so it can be shared without storage credentials.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// ObjectInfo describes one stored snapshot object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Config holds the settings needed to connect to a storage backend.
type Config struct {
	// Endpoint is the host:port of the storage server,
	// e.g. "localhost:9000" for local MinIO.
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Region is used by region-aware backends; leave empty for MinIO.
	Region string
}
