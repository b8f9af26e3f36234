package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"course_hub_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 课时内容的存储后端，本地磁盘或 MinIO 对象存储
type StorageProvider interface {
	Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

type LocalStorage struct {
	BaseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) Save(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	path := filepath.Join(s.BaseDir, objectName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", err
	}
	return path, nil
}

type MinioStorage struct {
	Client *minio.Client
	Bucket string
}

func NewMinioStorage(cfg config.StorageConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return &MinioStorage{Client: client, Bucket: cfg.Bucket}, nil
}

func (s *MinioStorage) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.Client.PutObject(ctx, s.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.Bucket, objectName), nil
}

type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	switch cfg.Storage.Provider {
	case "minio":
		provider, err := NewMinioStorage(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return &StorageService{Provider: provider}, nil
	default:
		return &StorageService{Provider: NewLocalStorage(cfg.Storage.LocalDir)}, nil
	}
}

// SaveLessonContent 按课程/课时归档存储对象
func (s *StorageService) SaveLessonContent(ctx context.Context, courseID, lessonID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("courses/%d/lessons/%d/%s", courseID, lessonID, filepath.Base(filename))
	return s.Provider.Save(ctx, objectName, reader, size, contentType)
}
