package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/metrics"
	"github.com/adcut-studio/adcut-api/utils"
)

// Image generation failure classes
var (
	ErrImageQuota    = errors.New("image provider quota exceeded")
	ErrImageRejected = errors.New("image request rejected")
	ErrImageFailed   = errors.New("image generation failed")
)

const (
	CodeImageQuota    = "IMAGE_QUOTA_EXCEEDED"
	CodeImageRejected = "IMAGE_REJECTED"
	CodeImageFailed   = "IMAGE_GENERATION_FAILED"

	MaxReferenceImages = 3
	MaxPromptLength    = 2000
)

// ImageGenerationRequest describes one generated image
type ImageGenerationRequest struct {
	Prompt          string
	ReferenceImages []string // base64, optionally as data URIs
	Gender          string   // male, female or empty
}

// ImageGenerator produces a single image as a data URI
type ImageGenerator interface {
	Generate(ctx context.Context, req ImageGenerationRequest) (string, error)
}

// GeminiImageGenerator implements ImageGenerator with the Gemini generateContent API
type GeminiImageGenerator struct {
	client *genai.Client
	model  string
}

var imageGeneratorInstance ImageGenerator

// NewGeminiImageGenerator creates an image generation client. An empty baseURL
// uses the SDK's default endpoint.
func NewGeminiImageGenerator(ctx context.Context, apiKey, baseURL, model string) (*GeminiImageGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiImageGenerator{client: client, model: model}, nil
}

// InitImageGenerator registers the process-wide image generator
func InitImageGenerator(ctx context.Context, apiKey, baseURL, model string) (ImageGenerator, error) {
	generator, err := NewGeminiImageGenerator(ctx, apiKey, baseURL, model)
	if err != nil {
		return nil, err
	}
	imageGeneratorInstance = generator
	return imageGeneratorInstance, nil
}

// GetImageGenerator returns the registered image generator, or nil
func GetImageGenerator() ImageGenerator {
	return imageGeneratorInstance
}

// SetImageGenerator sets the image generator (primarily for testing)
func SetImageGenerator(generator ImageGenerator) {
	imageGeneratorInstance = generator
}

// Generate returns the first image in the response as a data URI.
// Errors wrap ErrImageQuota, ErrImageRejected or ErrImageFailed.
func (g *GeminiImageGenerator) Generate(ctx context.Context, req ImageGenerationRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(buildImagePrompt(req))}
	for i, ref := range req.ReferenceImages {
		mimeType, data := splitDataURI(ref)
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("%w: reference image %d: %v", ErrImageRejected, i, err)
		}
		parts = append(parts, genai.NewPartFromBytes(raw, mimeType))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: blocked (%s)", ErrImageRejected, result.PromptFeedback.BlockReason)
	}
	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
					return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MIMEType, encoded), nil
				}
			}
		}
		switch string(candidate.FinishReason) {
		case "SAFETY", "PROHIBITED_CONTENT", "IMAGE_SAFETY":
			return "", fmt.Errorf("%w: finish reason %s", ErrImageRejected, candidate.FinishReason)
		}
	}
	return "", fmt.Errorf("%w: no image in response", ErrImageFailed)
}

// classifyGeminiError maps SDK errors onto the image failure classes by HTTP code
func classifyGeminiError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code = apiErrPtr.Code
	}
	switch code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrImageQuota, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w", ErrImageRejected, err)
	default:
		return fmt.Errorf("%w: %w", ErrImageFailed, err)
	}
}

func buildImagePrompt(req ImageGenerationRequest) string {
	prompt := strings.TrimSpace(req.Prompt)
	switch req.Gender {
	case "male":
		prompt += "\nThe model in the image is a Korean man."
	case "female":
		prompt += "\nThe model in the image is a Korean woman."
	}
	if len(req.ReferenceImages) > 0 {
		prompt += "\nKeep the product in the reference images unchanged."
	}
	return prompt
}

// splitDataURI returns the mime type and raw base64 payload of a data URI or bare base64 string
func splitDataURI(value string) (string, string) {
	if !strings.HasPrefix(value, "data:") {
		return "image/png", value
	}
	header, data, found := strings.Cut(value, ",")
	if !found {
		return "image/png", value
	}
	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mimeType == "" {
		mimeType = "image/png"
	}
	return mimeType, data
}

// ImageGenerationService validates requests and maps provider failures to user-facing errors
type ImageGenerationService struct {
	generator ImageGenerator
	timeout   time.Duration
}

func NewImageGenerationService(generator ImageGenerator, timeout time.Duration) *ImageGenerationService {
	return &ImageGenerationService{generator: generator, timeout: timeout}
}

// Generate returns a data URI for the generated image
func (s *ImageGenerationService) Generate(ctx context.Context, req ImageGenerationRequest) (string, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	switch {
	case req.Prompt == "":
		return "", utils.ValidationError("prompt is required")
	case len([]rune(req.Prompt)) > MaxPromptLength:
		return "", utils.ValidationError(fmt.Sprintf("prompt must be at most %d characters", MaxPromptLength))
	case len(req.ReferenceImages) > MaxReferenceImages:
		return "", utils.ValidationError(fmt.Sprintf("at most %d reference images are allowed", MaxReferenceImages))
	case req.Gender != "" && req.Gender != "male" && req.Gender != "female":
		return "", utils.ValidationError("gender must be male or female")
	}
	for i, ref := range req.ReferenceImages {
		_, data := splitDataURI(ref)
		if _, err := base64.StdEncoding.DecodeString(data); err != nil {
			return "", utils.ValidationError(fmt.Sprintf("reference_images[%d] is not valid base64", i))
		}
	}

	if s.generator == nil {
		return "", utils.NewAppError(http.StatusServiceUnavailable, utils.CodeNotConfigured, "Image generation is not available")
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	image, err := s.generator.Generate(callCtx, req)
	if err == nil {
		return image, nil
	}

	logger.Get().Error(ctx, "image generation failed", err)
	switch {
	case errors.Is(err, ErrImageQuota):
		metrics.ProviderFailure("image", "quota")
		return "", utils.ProviderError(http.StatusTooManyRequests, CodeImageQuota,
			"Image generation is busy right now. Please try again in a few minutes.", err)
	case errors.Is(err, ErrImageRejected):
		metrics.ProviderFailure("image", "rejected")
		return "", utils.ProviderError(http.StatusBadRequest, CodeImageRejected,
			"This request could not be processed. Please change the prompt or reference images.", err)
	default:
		metrics.ProviderFailure("image", providerFailureKind(err))
		return "", utils.ProviderError(http.StatusBadGateway, CodeImageFailed,
			"Image generation failed. Please try again.", err)
	}
}
