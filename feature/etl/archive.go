package etl

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"fuel-dashboard/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// archiveTimeLayout names archived payloads by run time.
const archiveTimeLayout = "20060102T150405Z"

// Archive keeps raw payloads in object storage so a run can be replayed.
type Archive struct {
	client    storage.Client
	bucket    string
	prefix    string
	retainFor time.Duration
	logger    *zap.Logger
	newID     func() string
}

// NewArchive creates an archive under prefix in bucket. Objects older than
// retainFor are removed by Prune; zero keeps everything.
func NewArchive(client storage.Client, bucket, prefix string, retainFor time.Duration, logger *zap.Logger) *Archive {
	return &Archive{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		retainFor: retainFor,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Bucket returns the archive bucket.
func (a *Archive) Bucket() string {
	return a.bucket
}

// Key returns the object name of a payload captured at runAt.
func (a *Archive) Key(runAt time.Time, id string) string {
	runAt = runAt.UTC()
	return path.Join(a.prefix, runAt.Format("2006/01/02"), runAt.Format(archiveTimeLayout)+"-"+id+".json")
}

// Put stores a raw payload and returns its object name.
func (a *Archive) Put(ctx context.Context, runAt time.Time, payload []byte) (string, error) {
	key := a.Key(runAt, a.newID())
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive payload %s: %w", key, err)
	}
	return key, nil
}

// Prune removes archived payloads last modified before now minus the
// retention window and returns how many were removed.
func (a *Archive) Prune(ctx context.Context, now time.Time) (int, error) {
	if a.retainFor <= 0 {
		return 0, nil
	}
	cutoff := now.Add(-a.retainFor)

	var expired []minio.ObjectInfo
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: a.prefix + "/", Recursive: true}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list archived payloads: %w", obj.Err)
		}
		if obj.LastModified.Before(cutoff) {
			expired = append(expired, obj)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	objects := make(chan minio.ObjectInfo, len(expired))
	for _, obj := range expired {
		objects <- obj
	}
	close(objects)

	removed := len(expired)
	var firstErr error
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objects, minio.RemoveObjectsOptions{}) {
		removed--
		a.logger.Warn("Failed to remove archived payload", zap.String("object", rerr.ObjectName), zap.Error(rerr.Err))
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	return removed, firstErr
}
