package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/adcut-studio/adcut-api/logger"
	"github.com/adcut-studio/adcut-api/metrics"
	"github.com/adcut-studio/adcut-api/models"
	"github.com/adcut-studio/adcut-api/utils"
)

const (
	summaryStartMarker = "---ORDER_SUMMARY---"
	summaryEndMarker   = "---END_ORDER---"

	// MaxChatTurns bounds the history a client may send in one request
	MaxChatTurns = 60

	// FallbackReply is shown when the completion provider cannot answer
	FallbackReply = "죄송합니다. 일시적인 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
)

// IntakePersona is the fixed system prompt that drives the intake question sequence
const IntakePersona = `You are the AdCut production consultant. Ask one question at a time, in Korean, in this order:
1. Product category (beauty, food, fashion, app, other)
2. Target audience
3. Desired vibe of the video
4. Platform (Instagram Reels, YouTube Shorts, TikTok, other)

Recommend a pack once the platform is known: READY (1,100,000 KRW), FAST (2,200,000 KRW) or EXCLUSIVE (3,300,000 KRW).
When every field is known, end your reply with exactly this block and nothing after it:
---ORDER_SUMMARY---
{"category":"","product":"","target_audience":"","vibe":"","platform":"","recommended_pack":"","estimated_price":""}
---END_ORDER---`

// ParseOrderSummary splits an assistant reply into the text to display and the
// structured summary embedded in it. Replies without a complete, valid summary
// block come back unchanged with a nil summary. A null or all-empty payload
// does not count as a summary.
func ParseOrderSummary(text string) (string, *models.OrderSummary) {
	start := strings.Index(text, summaryStartMarker)
	if start < 0 {
		return text, nil
	}
	bodyStart := start + len(summaryStartMarker)
	end := strings.Index(text[bodyStart:], summaryEndMarker)
	if end < 0 {
		return text, nil
	}
	end += bodyStart

	payload := stripCodeFence(strings.TrimSpace(text[bodyStart:end]))
	var summary *models.OrderSummary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil || summary.IsEmpty() {
		return text, nil
	}

	before := strings.TrimSpace(text[:start])
	after := strings.TrimSpace(text[end+len(summaryEndMarker):])
	parts := make([]string, 0, 2)
	for _, part := range []string{before, after} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n\n"), summary
}

// stripCodeFence removes a surrounding ``` or ```json fence
func stripCodeFence(payload string) string {
	if !strings.HasPrefix(payload, "```") {
		return payload
	}
	payload = strings.TrimPrefix(payload, "```")
	if newline := strings.IndexByte(payload, '\n'); newline >= 0 {
		payload = payload[newline+1:]
	} else {
		payload = strings.TrimPrefix(payload, "json")
	}
	payload = strings.TrimSpace(payload)
	return strings.TrimSpace(strings.TrimSuffix(payload, "```"))
}

// IntakeReply is the result of one intake turn
type IntakeReply struct {
	Message  string               `json:"message"`
	Summary  *models.OrderSummary `json:"summary"`
	Fallback bool                 `json:"fallback"`
}

// IntakeService drives the conversational intake through a ChatCompleter
type IntakeService struct {
	completer ChatCompleter
	timeout   time.Duration
}

// NewIntakeService creates an intake service; a zero timeout leaves the call unbounded
func NewIntakeService(completer ChatCompleter, timeout time.Duration) *IntakeService {
	return &IntakeService{completer: completer, timeout: timeout}
}

// ValidateHistory checks that a client-held transcript is well formed
func ValidateHistory(history []models.ChatMessage) error {
	if len(history) == 0 {
		return utils.ValidationError("messages must not be empty")
	}
	if len(history) > MaxChatTurns {
		return utils.ValidationError(fmt.Sprintf("conversation exceeds %d messages", MaxChatTurns))
	}
	for i, msg := range history {
		if msg.Role != "user" && msg.Role != "assistant" {
			return utils.ValidationError(fmt.Sprintf("messages[%d].role must be user or assistant", i))
		}
		if strings.TrimSpace(msg.Content) == "" {
			return utils.ValidationError(fmt.Sprintf("messages[%d].content must not be empty", i))
		}
	}
	return nil
}

// Reply sends the history to the completion provider and extracts any summary.
// Provider failures never surface as errors; they produce the fallback reply.
func (s *IntakeService) Reply(ctx context.Context, history []models.ChatMessage) (*IntakeReply, error) {
	if err := ValidateHistory(history); err != nil {
		return nil, err
	}

	if s.completer == nil {
		logger.Get().Warn(ctx, "chat completion provider not configured")
		return &IntakeReply{Message: FallbackReply, Fallback: true}, nil
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.completer.Complete(callCtx, IntakePersona, history)
	if err != nil {
		metrics.ProviderFailure("completion", providerFailureKind(err))
		logger.Get().Error(ctx, "chat completion failed", err)
		return &IntakeReply{Message: FallbackReply, Fallback: true}, nil
	}

	message, summary := ParseOrderSummary(text)
	return &IntakeReply{Message: message, Summary: summary}, nil
}
