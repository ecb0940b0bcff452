// Package objectstore provides a small object storage client used to persist
// fog exploration documents in S3-compatible storage
package objectstore

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_client.go -package=objectstoremock github.com/KirkDiggler/rpg-perception/internal/clients/objectstore Client

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// Client is the object storage surface the repositories need
type Client interface {
	// PutObject writes an object, creating the bucket on first use
	PutObject(ctx context.Context, key string, data []byte, contentType string) error

	// GetObject reads an object; NotFound when the key does not exist
	GetObject(ctx context.Context, key string) ([]byte, error)

	// DeleteObject removes an object; deleting a missing key is not an error
	DeleteObject(ctx context.Context, key string) error

	// ListObjects returns objects under a prefix
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
