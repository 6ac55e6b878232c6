package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kendall-kelly/fixnow-api/utils"
)

// ImageService handles profile image upload, retrieval, and deletion
type ImageService interface {
	// UploadImage validates and stores an image file, returns the storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a URL for accessing an uploaded image
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

// NewS3ImageService creates an image service on top of an S3 backend
func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(ctx, fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s3Key, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// LocalImageService stores images on the local filesystem and serves them
// through the uploads route
type LocalImageService struct {
	dir string
}

// NewLocalImageService creates an image service writing into dir
func NewLocalImageService(dir string) *LocalImageService {
	return &LocalImageService{dir: dir}
}

// Dir returns the directory images are written to
func (s *LocalImageService) Dir() string {
	return s.dir
}

func (s *LocalImageService) UploadImage(_ context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	if err := utils.SaveUploadedFile(fileHeader, s.dir, filename); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return filename, nil
}

func (s *LocalImageService) GetImageURL(_ context.Context, imageKey string) (string, error) {
	return utils.GetImageURL(imageKey), nil
}

func (s *LocalImageService) DeleteImage(_ context.Context, imageKey string) error {
	if !utils.SafeFilename(imageKey) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, imageKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
