package storage

import "context"

// ObjectInfo is metadata for a stored artifact object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the
// artifact publisher needs.
type ObjectStorage interface {
	UploadFile(ctx context.Context, key, localPath string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
