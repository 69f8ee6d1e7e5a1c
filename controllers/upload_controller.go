package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/metrics"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
	"github.com/adcut-studio/adcut-api/utils"
)

// UploadImage handles POST /api/v1/admin/uploads/images - multipart "file" plus optional "folder"
func UploadImage(c *gin.Context) {
	imageService := services.GetImageService()
	if imageService == nil {
		writeError(c, http.StatusServiceUnavailable, utils.CodeNotConfigured, "Image storage is not configured", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "FILE_REQUIRED", "A file is required", nil)
		return
	}

	asset, err := imageService.UploadImage(c.Request.Context(), fileHeader, c.PostForm("folder"))
	if err != nil {
		var uploadErr *utils.FileUploadError
		if _, isAppErr := utils.AsAppError(err); !isAppErr && !errors.As(err, &uploadErr) {
			metrics.ProviderFailure("storage", "error")
			err = utils.ProviderError(http.StatusBadGateway, "UPLOAD_FAILED", "Failed to store the image", err)
		}
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, asset)
}

// DeleteUploadedImage handles DELETE /api/v1/admin/uploads/images?key=
func DeleteUploadedImage(c *gin.Context) {
	imageService := services.GetImageService()
	if imageService == nil {
		writeError(c, http.StatusServiceUnavailable, utils.CodeNotConfigured, "Image storage is not configured", nil)
		return
	}

	key := c.Query("key")
	if key == "" || strings.Contains(key, "..") {
		respondError(c, utils.ValidationError("A valid key is required"))
		return
	}

	if err := imageService.DeleteImage(c.Request.Context(), key); err != nil {
		respondError(c, utils.ProviderError(http.StatusBadGateway, "DELETE_FAILED", "Failed to delete the image", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadShowcaseVideo handles POST /api/v1/admin/showcase - multipart "file", "title",
// "sort_order" and "is_active". The video is transcoded before the row is created.
func UploadShowcaseVideo(c *gin.Context) {
	transcoder := services.GetVideoTranscoder()
	if transcoder == nil {
		writeError(c, http.StatusServiceUnavailable, utils.CodeNotConfigured, "Video upload is not configured", nil)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		respondError(c, utils.ValidationError("title is required"))
		return
	}
	sortOrder := 0
	if raw := c.PostForm("sort_order"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, utils.ValidationError("sort_order must be an integer"))
			return
		}
		sortOrder = value
	}
	isActive := true
	if raw := c.PostForm("is_active"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, utils.ValidationError("is_active must be a boolean"))
			return
		}
		isActive = value
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "FILE_REQUIRED", "A file is required", nil)
		return
	}
	if err := utils.ValidateMediaFile(fileHeader, utils.MediaVideo); err != nil {
		respondError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	callCtx := ctx
	if timeout := appConfig().UploadTimeout; timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	transcoded, err := transcoder.Transcode(callCtx, fileHeader.Filename, file)
	if err != nil {
		metrics.ProviderFailure("transcode", "error")
		logger.Get().Error(ctx, "video transcode failed", err)
		respondError(c, utils.ProviderError(http.StatusBadGateway, "TRANSCODE_FAILED", "Failed to process the video", err))
		return
	}

	video := models.ShowcaseVideo{
		Title:        title,
		VideoURL:     transcoded.VideoURL,
		PreviewURL:   transcoded.PreviewURL,
		ThumbnailURL: transcoded.ThumbnailURL,
		IsActive:     isActive,
		SortOrder:    sortOrder,
	}
	if err := contentService().CreateShowcase(ctx, &video); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, video)
}
