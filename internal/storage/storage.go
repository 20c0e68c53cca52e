package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/ikkim/wallhub-backend/config"
)

// FileStorage 업로드된 배경화면 원본/썸네일 저장소
type FileStorage interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New STORAGE_DRIVER 설정에 따라 저장소 생성
func New(storageCfg config.StorageConfig, s3Cfg config.S3Config) (FileStorage, error) {
	switch storageCfg.Driver {
	case "s3":
		return NewS3Storage(s3Cfg.Region, s3Cfg.Bucket, s3Cfg.AccessKeyID, s3Cfg.SecretAccessKey, s3Cfg.BaseURL), nil
	case "local", "":
		return NewLocalStorage(storageCfg.LocalDir, storageCfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", storageCfg.Driver)
	}
}

// ValidateFileSize validates the file size
func ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
