package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"creator-planner-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ErrObjectNotFound trả về khi key không tồn tại trong storage
var ErrObjectNotFound = errors.New("object not found")

// FileStore là contract tối thiểu cho file nhỏ (reference faces)
type FileStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}

// MinIOStorage handles object reads/writes against one bucket
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage khởi tạo MinIO client, tạo bucket nếu chưa có
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("[MINIO] Bucket created")
	}

	return &MinIOStorage{client: client, bucket: cfg.Bucket}, nil
}

// Upload ghi object, key dạng thumbnails/{idea_id} hoặc faces/{filename}
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Download đọc toàn bộ object vào memory
func (s *MinIOStorage) Download(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinIOError(key, err)
	}
	defer object.Close()

	// GetObject lazy: lỗi NoSuchKey chỉ xuất hiện khi đọc
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, mapMinIOError(key, err)
	}
	return data, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// HealthCheck kiểm tra bucket còn truy cập được
func (s *MinIOStorage) HealthCheck(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("minio bucket check failed: %w", err)
	}
	return nil
}

func mapMinIOError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return fmt.Errorf("failed to read %s: %w", key, err)
}

// MinIOFileStore namespaces a FileStore under a key prefix (vd: "faces/").
type MinIOFileStore struct {
	storage *MinIOStorage
	prefix  string
}

var _ FileStore = (*MinIOFileStore)(nil)

func NewMinIOFileStore(storage *MinIOStorage, prefix string) *MinIOFileStore {
	return &MinIOFileStore{storage: storage, prefix: prefix}
}

func (f *MinIOFileStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	return f.storage.Upload(ctx, f.prefix+name, data, contentType)
}

func (f *MinIOFileStore) Get(ctx context.Context, name string) ([]byte, error) {
	return f.storage.Download(ctx, f.prefix+name)
}

func (f *MinIOFileStore) Delete(ctx context.Context, name string) error {
	return f.storage.Delete(ctx, f.prefix+name)
}
