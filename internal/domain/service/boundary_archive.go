package service

import "context"

// BoundaryArchive keeps a copy of every boundary document sent to the backend
type BoundaryArchive interface {
	// Store saves the document and returns the object key it was stored under
	Store(ctx context.Context, areaID int64, filename string, document []byte) (string, error)

	// Close releases the underlying bucket
	Close() error
}
