package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// TranscodedVideo holds the delivery URLs of an uploaded video
type TranscodedVideo struct {
	PublicID     string `json:"public_id"`
	VideoURL     string `json:"video_url"`
	PreviewURL   string `json:"preview_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// VideoTranscoder uploads raw video and returns playable, preview and thumbnail URLs.
// The call blocks until the provider has accepted the upload.
type VideoTranscoder interface {
	Transcode(ctx context.Context, filename string, video io.Reader) (*TranscodedVideo, error)
}

// CloudinaryTranscoder implements VideoTranscoder with signed Cloudinary uploads
type CloudinaryTranscoder struct {
	cld         *cloudinary.Cloudinary
	folder      string
	deliveryURL string
	timeout     time.Duration
}

var videoTranscoderInstance VideoTranscoder

// NewCloudinaryTranscoder creates a transcoder storing uploads under folder
func NewCloudinaryTranscoder(cloudName, apiKey, apiSecret, folder string, timeout time.Duration) (*CloudinaryTranscoder, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary is not configured")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryTranscoder{
		cld:         cld,
		folder:      folder,
		deliveryURL: fmt.Sprintf("https://res.cloudinary.com/%s/video/upload", cloudName),
		timeout:     timeout,
	}, nil
}

// InitVideoTranscoder registers the process-wide transcoder
func InitVideoTranscoder(cloudName, apiKey, apiSecret string, timeout time.Duration) (VideoTranscoder, error) {
	transcoder, err := NewCloudinaryTranscoder(cloudName, apiKey, apiSecret, "adcut/showcase", timeout)
	if err != nil {
		return nil, err
	}
	videoTranscoderInstance = transcoder
	return videoTranscoderInstance, nil
}

// GetVideoTranscoder returns the registered transcoder, or nil
func GetVideoTranscoder() VideoTranscoder {
	return videoTranscoderInstance
}

// SetVideoTranscoder sets the transcoder (primarily for testing)
func SetVideoTranscoder(transcoder VideoTranscoder) {
	videoTranscoderInstance = transcoder
}

// Transcode uploads the video to Cloudinary and derives preview and thumbnail URLs
func (c *CloudinaryTranscoder) Transcode(ctx context.Context, filename string, video io.Reader) (*TranscodedVideo, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.cld.Upload.Upload(ctx, video, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "video",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload of %s failed: %w", filename, err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload of %s failed: %s", filename, result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, errors.New("cloudinary upload returned no public_id")
	}
	return c.deliveryURLs(result.PublicID), nil
}

func (c *CloudinaryTranscoder) deliveryURLs(publicID string) *TranscodedVideo {
	return &TranscodedVideo{
		PublicID:     publicID,
		VideoURL:     fmt.Sprintf("%s/q_auto/%s.mp4", c.deliveryURL, publicID),
		PreviewURL:   fmt.Sprintf("%s/e_preview:duration_4,w_480/fl_awebp,f_webp/%s.webp", c.deliveryURL, publicID),
		ThumbnailURL: fmt.Sprintf("%s/so_1,w_640/%s.jpg", c.deliveryURL, publicID),
	}
}
