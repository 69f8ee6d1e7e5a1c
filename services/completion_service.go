package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/adcut-studio/adcut-api/models"
)

// ChatCompleter sends a persona plus a chat history to a text-completion provider
type ChatCompleter interface {
	Complete(ctx context.Context, persona string, history []models.ChatMessage) (string, error)
}

// OpenAIChatCompleter implements ChatCompleter against the OpenAI chat completions API
type OpenAIChatCompleter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type openaiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openaiChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message openaiChatMessage `json:"message"`
	} `json:"choices"`
}

type openaiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

var chatCompleterInstance ChatCompleter

// NewOpenAIChatCompleter creates a completion client; baseURL defaults to the public API
func NewOpenAIChatCompleter(apiKey, baseURL, model string) *OpenAIChatCompleter {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIChatCompleter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

// InitChatCompleter registers the process-wide completion client
func InitChatCompleter(apiKey, baseURL, model string) ChatCompleter {
	chatCompleterInstance = NewOpenAIChatCompleter(apiKey, baseURL, model)
	return chatCompleterInstance
}

// GetChatCompleter returns the registered completion client, or nil
func GetChatCompleter() ChatCompleter {
	return chatCompleterInstance
}

// SetChatCompleter sets the completion client (primarily for testing)
func SetChatCompleter(completer ChatCompleter) {
	chatCompleterInstance = completer
}

// Complete returns the assistant text for the next turn. No retries are attempted.
func (c *OpenAIChatCompleter) Complete(ctx context.Context, persona string, history []models.ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OPENAI_API_KEY not set")
	}

	messages := make([]openaiChatMessage, 0, len(history)+1)
	messages = append(messages, openaiChatMessage{Role: "system", Content: persona})
	for _, msg := range history {
		messages = append(messages, openaiChatMessage{Role: msg.Role, Content: msg.Content})
	}

	body, err := json.Marshal(openaiChatRequest{Model: c.model, Messages: messages, Temperature: 0.7})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr openaiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed openaiChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("no completion returned")
	}
	return parsed.Choices[0].Message.Content, nil
}

// providerFailureKind labels a provider error for metrics
func providerFailureKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
