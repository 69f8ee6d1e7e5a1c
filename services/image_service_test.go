package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/adcut-studio/adcut-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestAssetKey(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	key := AssetKey("portfolio", "Hero Shot.PNG", now)
	assert.Regexp(t, regexp.MustCompile(`^portfolio/2026/03/[0-9a-f-]{36}\.png$`), key)

	assert.Regexp(t, `^uploads/2026/03/`, AssetKey("", "a.jpg", now))
	assert.Regexp(t, `^clients/2026/03/`, AssetKey("/clients/", "a.jpg", now))
	assert.NotEqual(t, AssetKey("portfolio", "a.png", now), AssetKey("portfolio", "a.png", now))
}

func TestS3ImageService_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and resolves url", func(t *testing.T) {
		store := NewMockS3Service()
		svc := NewS3ImageService(store)

		asset, err := svc.UploadImage(ctx, newFileHeader(t, "logo.png", pngHeader), AssetFolderClients)
		require.NoError(t, err)

		assert.Equal(t, "clients/mock_logo.png", asset.Key)
		assert.Contains(t, asset.URL, "clients/mock_logo.png")
		assert.Equal(t, pngHeader, store.Objects()[asset.Key])
	})

	t.Run("defaults to portfolio folder", func(t *testing.T) {
		svc := NewS3ImageService(NewMockS3Service())

		asset, err := svc.UploadImage(ctx, newFileHeader(t, "cut.webp", []byte("webp")), "")
		require.NoError(t, err)
		assert.Equal(t, "portfolio/mock_cut.webp", asset.Key)
	})

	t.Run("rejects unknown folder", func(t *testing.T) {
		svc := NewS3ImageService(NewMockS3Service())

		_, err := svc.UploadImage(ctx, newFileHeader(t, "a.png", pngHeader), "../etc")
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, utils.CodeValidation, appErr.Code)
	})

	t.Run("rejects non-image", func(t *testing.T) {
		store := NewMockS3Service()
		svc := NewS3ImageService(store)

		_, err := svc.UploadImage(ctx, newFileHeader(t, "clip.mp4", []byte("video")), AssetFolderPortfolio)
		var uploadErr *utils.FileUploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)
		assert.Empty(t, store.Objects())
	})

	t.Run("storage failure", func(t *testing.T) {
		store := NewMockS3Service()
		store.UploadErr = errors.New("bucket unavailable")
		svc := NewS3ImageService(store)

		_, err := svc.UploadImage(ctx, newFileHeader(t, "a.png", pngHeader), AssetFolderPortfolio)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket unavailable")
	})
}

func TestS3ImageService_DeleteImage(t *testing.T) {
	ctx := context.Background()
	store := NewMockS3Service()
	svc := NewS3ImageService(store)

	asset, err := svc.UploadImage(ctx, newFileHeader(t, "a.png", pngHeader), AssetFolderModels)
	require.NoError(t, err)
	require.True(t, store.Has(asset.Key))

	require.NoError(t, svc.DeleteImage(ctx, asset.Key))
	assert.False(t, store.Has(asset.Key))
	assert.NoError(t, svc.DeleteImage(ctx, ""))

	url, err := svc.GetImageURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, url)
}
