package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// MockVideoTranscoder is a mock implementation of VideoTranscoder for testing
type MockVideoTranscoder struct {
	Err error

	mu       sync.Mutex
	uploaded map[string][]byte
}

func NewMockVideoTranscoder() *MockVideoTranscoder {
	return &MockVideoTranscoder{uploaded: make(map[string][]byte)}
}

// SetAsMockForTesting sets this mock as the global transcoder
func (m *MockVideoTranscoder) SetAsMockForTesting() {
	SetVideoTranscoder(m)
}

func (m *MockVideoTranscoder) Transcode(ctx context.Context, filename string, video io.Reader) (*TranscodedVideo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	content, err := io.ReadAll(video)
	if err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}

	publicID := "showcase/mock_" + strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	m.mu.Lock()
	m.uploaded[publicID] = content
	m.mu.Unlock()

	base := "https://res.cloudinary.test/video/upload"
	return &TranscodedVideo{
		PublicID:     publicID,
		VideoURL:     fmt.Sprintf("%s/%s.mp4", base, publicID),
		PreviewURL:   fmt.Sprintf("%s/%s.webp", base, publicID),
		ThumbnailURL: fmt.Sprintf("%s/%s.jpg", base, publicID),
	}, nil
}

// Uploaded returns stored uploads keyed by public id
func (m *MockVideoTranscoder) Uploaded() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := make(map[string][]byte, len(m.uploaded))
	for k, v := range m.uploaded {
		files[k] = v
	}
	return files
}
