package minio

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

// PoseContentType is the media type recorded on uploaded pose files.
const PoseContentType = "chemical/x-pdbqt"

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeStorageUpload, "object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeStorageUpload, "invalid request")
)

// PoseRepository stores docked pose files under <prefix>/<runID>/<file>.
type PoseRepository interface {
	UploadPose(ctx context.Context, runID, localPath string, metadata map[string]string) (*UploadResult, error)
	UploadPoses(ctx context.Context, runID string, localPaths []string, metadata map[string]string) ([]*UploadResult, error)
	Exists(ctx context.Context, objectKey string) (bool, error)
	GetMetadata(ctx context.Context, objectKey string) (*ObjectMetadata, error)
	List(ctx context.Context, runID string) ([]*ObjectMetadata, error)
	Delete(ctx context.Context, objectKey string) error
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	ObjectKey(runID, localPath string) string
}

type UploadResult struct {
	Bucket     string
	ObjectKey  string
	LocalPath  string
	ETag       string
	Size       int64
	VersionID  string
	UploadedAt time.Time
}

type ObjectMetadata struct {
	Bucket       string
	ObjectKey    string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	Metadata     map[string]string
}

type minioRepository struct {
	client   *MinIOClient
	logger   logging.Logger
	partSize uint64
}

func NewPoseRepository(client *MinIOClient, log logging.Logger) PoseRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &minioRepository{
		client:   client,
		logger:   log.Named("minio"),
		partSize: client.config.PartSize,
	}
}

func (r *minioRepository) ObjectKey(runID, localPath string) string {
	return path.Join(r.client.config.Prefix, runID, filepath.Base(localPath))
}

func (r *minioRepository) UploadPose(ctx context.Context, runID, localPath string, metadata map[string]string) (*UploadResult, error) {
	if runID == "" || localPath == "" {
		return nil, ErrInvalidRequest
	}
	if r.client.isClosed() {
		return nil, ErrMinIOClientClosed
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, errors.FileAccess(localPath, true, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, errors.FileAccess(localPath, true, err)
	}

	key := r.ObjectKey(runID, localPath)
	opts := minio.PutObjectOptions{
		ContentType:  PoseContentType,
		UserMetadata: metadata,
		PartSize:     r.partSize,
	}
	info, err := r.client.GetClient().PutObject(ctx, r.client.config.Bucket, key, f, st.Size(), opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageUpload, "pose upload failed").WithDetail(key)
	}

	r.logger.Debug("pose uploaded", logging.String("key", key), logging.Int64("size", info.Size))
	return &UploadResult{
		Bucket:     r.client.config.Bucket,
		ObjectKey:  key,
		LocalPath:  localPath,
		ETag:       info.ETag,
		Size:       info.Size,
		VersionID:  info.VersionID,
		UploadedAt: time.Now(),
	}, nil
}

// UploadPoses uploads every path in order and stops at the first failure.
// The results for files already uploaded are returned with the error.
func (r *minioRepository) UploadPoses(ctx context.Context, runID string, localPaths []string, metadata map[string]string) ([]*UploadResult, error) {
	results := make([]*UploadResult, 0, len(localPaths))
	for _, p := range localPaths {
		res, err := r.UploadPose(ctx, runID, p, metadata)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *minioRepository) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := r.client.GetClient().StatObject(ctx, r.client.config.Bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageUpload, "stat failed").WithDetail(objectKey)
	}
	return true, nil
}

func (r *minioRepository) GetMetadata(ctx context.Context, objectKey string) (*ObjectMetadata, error) {
	info, err := r.client.GetClient().StatObject(ctx, r.client.config.Bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound.WithDetail(objectKey)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageUpload, "stat failed").WithDetail(objectKey)
	}
	return &ObjectMetadata{
		Bucket: r.client.config.Bucket, ObjectKey: objectKey, Size: info.Size, ContentType: info.ContentType,
		ETag: info.ETag, LastModified: info.LastModified, Metadata: info.UserMetadata,
	}, nil
}

func (r *minioRepository) List(ctx context.Context, runID string) ([]*ObjectMetadata, error) {
	prefix := path.Join(r.client.config.Prefix, runID) + "/"
	ch := r.client.GetClient().ListObjects(ctx, r.client.config.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	var objects []*ObjectMetadata
	for obj := range ch {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageUpload, "list failed").WithDetail(prefix)
		}
		objects = append(objects, &ObjectMetadata{
			Bucket: r.client.config.Bucket, ObjectKey: obj.Key, Size: obj.Size,
			ETag: obj.ETag, LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

func (r *minioRepository) Delete(ctx context.Context, objectKey string) error {
	if err := r.client.GetClient().RemoveObject(ctx, r.client.config.Bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageUpload, "delete failed").WithDetail(objectKey)
	}
	return nil
}

func (r *minioRepository) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return r.client.GeneratePresignedGetURL(ctx, objectKey, expiry)
}

//Personal.AI order the ending
