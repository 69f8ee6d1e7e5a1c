package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/services"
)

// ChatRequest carries the full client-held transcript
type ChatRequest struct {
	Messages []models.ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// Chat handles POST /api/v1/chat - one turn of the intake conversation
func Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reply, err := intakeService().Reply(c.Request.Context(), req.Messages)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, reply)
}

// ImageGenerationRequest is the body of POST /api/v1/images/generate
type ImageGenerationRequest struct {
	Prompt          string   `json:"prompt" binding:"required"`
	ReferenceImages []string `json:"reference_images"`
	Gender          string   `json:"gender"`
}

// GenerateImage handles POST /api/v1/images/generate
func GenerateImage(c *gin.Context) {
	var req ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	image, err := imageGenerationService().Generate(c.Request.Context(), services.ImageGenerationRequest{
		Prompt:          req.Prompt,
		ReferenceImages: req.ReferenceImages,
		Gender:          req.Gender,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"image": image})
}
