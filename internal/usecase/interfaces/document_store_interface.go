package interfaces

import "context"

// IDocumentStore archives uploaded brief documents (MinIO / S3).
type IDocumentStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
}
