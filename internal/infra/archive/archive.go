// Package archive keeps copies of boundary documents in a gocloud.dev bucket.
package archive

import (
	"context"
	"log/slog"
	"path"
	"strconv"

	"attendance/config"
	"attendance/internal/domain/geofence"
	"attendance/internal/domain/service"
	"attendance/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
)

const keyPrefix = "office-areas"

type blobArchive struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// NewBlobArchive stores documents in the given bucket and takes ownership of it
func NewBlobArchive(bucket *blob.Bucket, logger *slog.Logger) service.BoundaryArchive {
	return &blobArchive{
		bucket: bucket,
		logger: logger,
	}
}

// Store writes the document under office-areas/{areaID}/{uuid}.kml
func (a *blobArchive) Store(ctx context.Context, areaID int64, filename string, document []byte) (string, error) {
	key := path.Join(keyPrefix, strconv.FormatInt(areaID, 10), uuid.New().String()+".kml")

	opts := &blob.WriterOptions{
		ContentType: geofence.KMLContentType,
		Metadata: map[string]string{
			"filename": filename,
			"sha256":   util.Checksum(document),
		},
	}
	if err := a.bucket.WriteAll(ctx, key, document, opts); err != nil {
		return "", errors.Wrapf(err, "archive boundary document %s", key)
	}

	a.logger.Debug("Archived boundary document",
		slog.Int64("area_id", areaID),
		slog.String("key", key),
		slog.Int("bytes", len(document)),
	)

	return key, nil
}

func (a *blobArchive) Close() error {
	return errors.WithStack(a.bucket.Close())
}

// noopArchive is used when no bucket is configured
type noopArchive struct {
	logger *slog.Logger
}

func (a *noopArchive) Store(ctx context.Context, areaID int64, filename string, document []byte) (string, error) {
	a.logger.Debug("Boundary archive disabled, skipping",
		slog.Int64("area_id", areaID),
		slog.String("filename", filename),
	)

	return "", nil
}

func (a *noopArchive) Close() error {
	return nil
}

// ArchiveParams holds dependencies for BoundaryArchive, injected by Fx
type ArchiveParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBoundaryArchive opens the configured bucket, or a no-op archive when none is set
func NewBoundaryArchive(params ArchiveParams) (service.BoundaryArchive, error) {
	archive, err := Open(params.Ctx, params.Config.Archive, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing boundary archive")

			return archive.Close()
		},
	})

	return archive, nil
}

// Open resolves an ArchiveConfig into a BoundaryArchive outside of Fx
func Open(ctx context.Context, cfg *config.ArchiveConfig, logger *slog.Logger) (service.BoundaryArchive, error) {
	if cfg == nil || cfg.BucketURL == "" {
		logger.Info("Boundary archive not configured, using no-op archive")

		return &noopArchive{logger: logger}, nil
	}

	bucket, err := blob.OpenBucket(ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open archive bucket %q", cfg.BucketURL)
	}

	logger.Info("Using blob boundary archive", slog.String("bucket_url", cfg.BucketURL))

	return NewBlobArchive(bucket, logger), nil
}
