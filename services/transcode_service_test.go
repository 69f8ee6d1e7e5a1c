package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTranscoder(t *testing.T, handler http.HandlerFunc) *CloudinaryTranscoder {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transcoder, err := NewCloudinaryTranscoder("demo", "key", "secret", "adcut/showcase", time.Minute)
	require.NoError(t, err)
	transcoder.cld.Config.API.UploadPrefix = server.URL
	return transcoder
}

func TestCloudinaryTranscoder(t *testing.T) {
	t.Run("uploads and derives urls", func(t *testing.T) {
		var fields map[string]string
		var fileContent, path string
		transcoder := newTestTranscoder(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			require.NoError(t, r.ParseMultipartForm(1<<20))
			fields = map[string]string{}
			for key, values := range r.MultipartForm.Value {
				fields[key] = values[0]
			}
			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			content, _ := io.ReadAll(file)
			fileContent = string(content)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"public_id":"adcut/showcase/abc123","secure_url":"https://res.cloudinary.com/demo/video/upload/v1/adcut/showcase/abc123.mov"}`))
		})

		video, err := transcoder.Transcode(context.Background(), "cafe.mov", strings.NewReader("raw-video"))
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(path, "/demo/video/upload"), path)
		assert.Equal(t, "raw-video", fileContent)
		assert.Equal(t, "key", fields["api_key"])
		assert.Equal(t, "adcut/showcase", fields["folder"])
		assert.NotEmpty(t, fields["timestamp"])
		assert.NotEmpty(t, fields["signature"])

		assert.Equal(t, "adcut/showcase/abc123", video.PublicID)
		assert.Equal(t, "https://res.cloudinary.com/demo/video/upload/q_auto/adcut/showcase/abc123.mp4", video.VideoURL)
		assert.True(t, strings.HasSuffix(video.PreviewURL, "/adcut/showcase/abc123.webp"))
		assert.True(t, strings.HasSuffix(video.ThumbnailURL, "/adcut/showcase/abc123.jpg"))
	})

	t.Run("provider error", func(t *testing.T) {
		transcoder := newTestTranscoder(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
		})

		video, err := transcoder.Transcode(context.Background(), "a.mp4", strings.NewReader("x"))
		assert.Error(t, err)
		assert.Nil(t, video)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewCloudinaryTranscoder("", "", "", "f", time.Minute)
		assert.Error(t, err)
	})
}
