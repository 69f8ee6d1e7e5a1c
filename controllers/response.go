package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/utils"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondList(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// respondError renders err in the error envelope. Only AppError and
// FileUploadError messages reach the client.
func respondError(c *gin.Context, err error) {
	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		writeError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message, nil)
		return
	}

	appErr, ok := utils.AsAppError(err)
	if !ok {
		_ = c.Error(err)
		logger.Get().Error(c.Request.Context(), "unhandled error", err)
		writeError(c, http.StatusInternalServerError, utils.CodeInternal, "An unexpected error occurred", nil)
		return
	}
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	writeError(c, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
}

func respondBindError(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, utils.CodeValidation, "Invalid request data", err.Error())
}

func writeError(c *gin.Context, status int, code, message string, details any) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

// pagination reads page and page_size query params with sane bounds
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func boolQuery(c *gin.Context, name string) bool {
	value, err := strconv.ParseBool(c.Query(name))
	return err == nil && value
}
