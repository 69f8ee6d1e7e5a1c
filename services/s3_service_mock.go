package services

import (
	"context"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"sync"
)

// MockS3Service keeps assets in memory under the same keys S3Service would use
type MockS3Service struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	UploadErr error
}

func NewMockS3Service() *MockS3Service {
	return &MockS3Service{objects: map[string][]byte{}}
}

// SetAsMockForTesting registers the mock as the process-wide asset store
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

func (m *MockS3Service) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	body, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/mock_%s", prefix, fileHeader.Filename)
	m.mu.Lock()
	m.objects[key] = body
	m.mu.Unlock()
	return key, nil
}

func (m *MockS3Service) GetFileURL(ctx context.Context, s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}
	if !m.Has(s3Key) {
		return "", fmt.Errorf("asset %s not stored", s3Key)
	}
	return "https://assets.adcut.test/" + s3Key, nil
}

func (m *MockS3Service) DeleteFile(ctx context.Context, s3Key string) error {
	m.mu.Lock()
	delete(m.objects, s3Key)
	m.mu.Unlock()
	return nil
}

// Objects returns a copy of every stored asset keyed by S3 key
func (m *MockS3Service) Objects() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.objects)
}

// Has reports whether an asset is stored under key
func (m *MockS3Service) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}
