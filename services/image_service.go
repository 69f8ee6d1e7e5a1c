package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/adcut-studio/adcut-api/utils"
)

// Asset folders used as S3 key prefixes
const (
	AssetFolderPortfolio = "portfolio"
	AssetFolderModels    = "artist-models"
	AssetFolderProposals = "proposals"
	AssetFolderClients   = "clients"
)

var assetFolders = map[string]bool{
	AssetFolderPortfolio: true,
	AssetFolderModels:    true,
	AssetFolderProposals: true,
	AssetFolderClients:   true,
}

// UploadedAsset is a stored image and the URL to reach it
type UploadedAsset struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ImageService handles site image uploads, retrieval and deletion
type ImageService interface {
	// UploadImage validates and uploads an image file into folder
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*UploadedAsset, error)

	// GetImageURL generates a URL for accessing an uploaded image
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = NewS3ImageService(s3Service)
	return imageServiceInstance
}

func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*UploadedAsset, error) {
	if folder == "" {
		folder = AssetFolderPortfolio
	}
	if !assetFolders[folder] {
		return nil, utils.ValidationError(fmt.Sprintf("unknown asset folder %q", folder))
	}
	if err := utils.ValidateMediaFile(fileHeader, utils.MediaImage); err != nil {
		return nil, err
	}

	key, err := s.s3Service.UploadFile(ctx, fileHeader, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	url, err := s.GetImageURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &UploadedAsset{Key: key, URL: url}, nil
}

// GetImageURL resolves the URL for a stored image
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetFileURL(ctx, imageKey)
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
