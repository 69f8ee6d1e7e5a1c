package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MediaKind selects the validation rules for an uploaded file
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

const (
	// MaxImageSize is 10MB in bytes
	MaxImageSize = 10 * 1024 * 1024
	// MaxVideoSize is 200MB in bytes
	MaxVideoSize = 200 * 1024 * 1024
)

var allowedExtensions = map[MediaKind]map[string]string{
	MediaImage: {
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".webp": "image/webp",
	},
	MediaVideo: {
		".mp4":  "video/mp4",
		".mov":  "video/quicktime",
		".webm": "video/webm",
	},
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateMediaFile validates the uploaded file format and size for the given kind
func ValidateMediaFile(fileHeader *multipart.FileHeader, kind MediaKind) error {
	if fileHeader == nil {
		return &FileUploadError{Code: "FILE_REQUIRED", Message: "A file is required"}
	}

	maxSize := int64(MaxImageSize)
	if kind == MediaVideo {
		maxSize = MaxVideoSize
	}
	if fileHeader.Size > maxSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", maxSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedExtensions[kind][ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedExtensions(kind), ", ")),
		}
	}

	return nil
}

// ContentTypeFor returns the MIME type for an allowed filename, or application/octet-stream
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, exts := range allowedExtensions {
		if contentType, ok := exts[ext]; ok {
			return contentType
		}
	}
	return "application/octet-stream"
}

// AllowedExtensions lists the accepted extensions for a kind in a stable order
func AllowedExtensions(kind MediaKind) []string {
	switch kind {
	case MediaVideo:
		return []string{".mp4", ".mov", ".webm"}
	default:
		return []string{".png", ".jpg", ".jpeg", ".webp"}
	}
}
