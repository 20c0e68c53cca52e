package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	apperrors "github.com/ikkim/wallhub-backend/internal/errors"
	"github.com/ikkim/wallhub-backend/internal/storage"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/sourcegraph/conc"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	wallpaperFolder  = "wallpapers"
	thumbnailFolder  = "thumbnails"
	thumbnailQuality = 85
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var formatExtensions = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

// UploadService 업로드 파일 검증, 썸네일 생성, 저장
type UploadService interface {
	Process(ctx context.Context, header *multipart.FileHeader) (*model.WallpaperFile, error)
	ProcessBytes(ctx context.Context, data []byte) (*model.WallpaperFile, error)
	RemoveFiles(ctx context.Context, keys ...string)
	Presign(ctx context.Context, filename, contentType string) (*storage.PresignedURLResponse, error)
}

type uploadService struct {
	storage        storage.FileStorage
	maxFileSize    int64
	thumbnailWidth int
}

func NewUploadService(fileStorage storage.FileStorage, maxFileSize int64, thumbnailWidth int) UploadService {
	return &uploadService{
		storage:        fileStorage,
		maxFileSize:    maxFileSize,
		thumbnailWidth: thumbnailWidth,
	}
}

func (s *uploadService) Process(ctx context.Context, header *multipart.FileHeader) (*model.WallpaperFile, error) {
	if err := storage.ValidateFileSize(header.Size, s.maxFileSize); err != nil {
		return nil, apperrors.NewValidation(apperrors.UploadFileTooLarge,
			fmt.Sprintf("파일 크기는 %dMB를 넘을 수 없습니다", s.maxFileSize/1024/1024))
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidation(apperrors.UploadFailed, "파일을 읽을 수 없습니다")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		return nil, apperrors.NewValidation(apperrors.UploadFailed, "파일을 읽을 수 없습니다")
	}
	return s.ProcessBytes(ctx, data)
}

// ProcessBytes 원본은 그대로, 썸네일은 지정 폭의 JPEG로 저장
func (s *uploadService) ProcessBytes(ctx context.Context, data []byte) (*model.WallpaperFile, error) {
	size := int64(len(data))
	if size == 0 {
		return nil, apperrors.NewValidation(apperrors.ValidationRequired, "파일이 비어 있습니다")
	}
	if err := storage.ValidateFileSize(size, s.maxFileSize); err != nil {
		return nil, apperrors.NewValidation(apperrors.UploadFileTooLarge,
			fmt.Sprintf("파일 크기는 %dMB를 넘을 수 없습니다", s.maxFileSize/1024/1024))
	}

	contentType := http.DetectContentType(data)
	if err := storage.ValidateContentType(contentType, allowedImageTypes); err != nil {
		return nil, apperrors.NewValidation(apperrors.UploadInvalidFileType, "jpeg, png, webp, gif 이미지만 업로드할 수 있습니다")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Warn("Failed to decode uploaded image", map[string]interface{}{
			"content_type": contentType,
			"error":        err.Error(),
		})
		return nil, apperrors.NewValidation(apperrors.UploadInvalidFileType, "이미지를 해석할 수 없습니다")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var thumb bytes.Buffer
	if err := jpeg.Encode(&thumb, scaleToWidth(img, s.thumbnailWidth), &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	name := fmt.Sprintf("%d__%s", time.Now().UnixMilli(), uuid.New().String())
	fileKey := fmt.Sprintf("%s/%s.%s", wallpaperFolder, name, formatExtensions[format])
	thumbKey := fmt.Sprintf("%s/%s.jpg", thumbnailFolder, name)

	fileURL, err := s.storage.Put(ctx, fileKey, bytes.NewReader(data), size, contentType)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, apperrors.UploadFailed, "파일 저장에 실패했습니다")
	}
	thumbURL, err := s.storage.Put(ctx, thumbKey, bytes.NewReader(thumb.Bytes()), int64(thumb.Len()), "image/jpeg")
	if err != nil {
		s.RemoveFiles(ctx, fileKey)
		return nil, apperrors.New(apperrors.KindInternal, apperrors.UploadFailed, "썸네일 저장에 실패했습니다")
	}

	logger.Info("Wallpaper file stored", map[string]interface{}{
		"file_key": fileKey,
		"format":   format,
		"width":    width,
		"height":   height,
		"size":     size,
	})

	return &model.WallpaperFile{
		FileURL:      fileURL,
		FileKey:      fileKey,
		ThumbnailURL: thumbURL,
		ThumbnailKey: thumbKey,
		FileSize:     size,
		Width:        width,
		Height:       height,
		Format:       format,
		AspectRatio:  aspectRatio(width, height),
	}, nil
}

// aspectRatio 소수 둘째 자리 반올림
func aspectRatio(width, height int) float64 {
	if height == 0 {
		return 0
	}
	return math.Round(float64(width)/float64(height)*100) / 100
}

// scaleToWidth 폭이 target보다 클 때만 비율 유지 축소
func scaleToWidth(src image.Image, target int) image.Image {
	b := src.Bounds()
	if target <= 0 || b.Dx() <= target {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	h := int(math.Round(float64(b.Dy()) * float64(target) / float64(b.Dx())))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, target, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// RemoveFiles 커밋 이후 저장된 파일 정리. 실패는 로그만 남김
func (s *uploadService) RemoveFiles(ctx context.Context, keys ...string) {
	var wg conc.WaitGroup
	for _, key := range keys {
		if key == "" {
			continue
		}
		key := key
		wg.Go(func() {
			if err := s.storage.Delete(ctx, key); err != nil {
				logger.Error("Failed to remove stored file", err, map[string]interface{}{
					"key": key,
				})
			}
		})
	}
	wg.Wait()
}

// Presign S3 드라이버일 때만 직접 업로드 URL 발급
func (s *uploadService) Presign(ctx context.Context, filename, contentType string) (*storage.PresignedURLResponse, error) {
	if err := storage.ValidateContentType(contentType, allowedImageTypes); err != nil {
		return nil, apperrors.NewValidation(apperrors.UploadInvalidFileType, "jpeg, png, webp, gif 이미지만 업로드할 수 있습니다")
	}

	s3Storage, ok := s.storage.(*storage.S3Storage)
	if !ok {
		return nil, apperrors.NewValidation(apperrors.ValidationInvalidInput, "현재 저장소는 직접 업로드를 지원하지 않습니다")
	}
	return s3Storage.GeneratePresignedURLWithFolder(ctx, filename, contentType, wallpaperFolder)
}
