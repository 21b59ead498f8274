package services

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"conv3d/internal/logging"
	"conv3d/internal/models"
)

const glbContentType = "model/gltf-binary"

// ObjectPutter is the part of the MinIO client used for publishing.
type ObjectPutter interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// PublishService uploads generated models to object storage.
type PublishService struct {
	client     ObjectPutter
	bucketName string
}

// NewPublishService creates a PublishService for the given bucket.
func NewPublishService(client ObjectPutter, bucketName string) *PublishService {
	return &PublishService{client: client, bucketName: bucketName}
}

// Publish uploads every file under <runID>/<path relative to root>. It stops
// at the first failure and returns what was uploaded so far.
func (s *PublishService) Publish(ctx context.Context, runID uuid.UUID, root string, files []string) ([]models.PublishedObject, error) {
	var published []models.PublishedObject
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return published, errors.Wrapf(err, "%s is outside %s", file, root)
		}
		stat, err := os.Stat(file)
		if err != nil {
			return published, errors.Wrap(err, "could not stat generated file")
		}

		key := path.Join(runID.String(), filepath.ToSlash(rel))
		_, err = s.client.FPutObject(ctx, s.bucketName, key, file, minio.PutObjectOptions{ContentType: glbContentType})
		if err != nil {
			return published, errors.Wrapf(err, "failed to upload %s to MinIO", rel)
		}
		logging.L().Debug("published", zap.String("bucket", s.bucketName), zap.String("key", key))

		published = append(published, models.PublishedObject{
			ID:               uuid.New(),
			RunID:            runID,
			OriginalFilename: filepath.Base(file),
			ContentType:      glbContentType,
			Size:             stat.Size(),
			UploadedAt:       time.Now(),
			StorageKey:       key,
		})
	}
	return published, nil
}
