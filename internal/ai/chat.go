package ai

import (
	"context"
	"strings"
	"time"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/internal/config"
	"recipe-search-platform/internal/logger"
	"recipe-search-platform/models"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// ChatRelay forwards a conversation verbatim to the chat-completion service
// and returns the first completion's text. Calls go through a circuit
// breaker and a client-side rate limiter.
type ChatRelay struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

func NewChatRelay(cfg *config.Config) *ChatRelay {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ChatCompletionAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// ~60 requests/minute with small bursts
	rateLimiter := rate.NewLimiter(rate.Limit(1), 5)

	return &ChatRelay{
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		model:       cfg.ChatModel,
		temperature: float32(cfg.ChatTemperature),
		maxTokens:   cfg.ChatMaxTokens,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}
}

// Relay validates the conversation and forwards it unchanged.
func (r *ChatRelay) Relay(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if err := ValidateConversation(messages); err != nil {
		return "", err
	}

	tracer := otel.Tracer("chat-relay")
	ctx, span := tracer.Start(ctx, "chat.relay")
	defer span.End()
	span.SetAttributes(
		attribute.String("chat.model", r.model),
		attribute.Int("chat.messages", len(messages)),
	)

	if err := r.rateLimiter.Wait(ctx); err != nil {
		return "", apperr.Wrap(apperr.UpstreamUnavailable, "rate limiter interrupted", err)
	}

	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		converted[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       r.model,
			Messages:    converted,
			Temperature: r.temperature,
			MaxTokens:   r.maxTokens,
		})
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("chat.error", true))
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", apperr.Wrap(apperr.UpstreamUnavailable, "chat service circuit open", err)
		}
		return "", apperr.Wrap(apperr.UpstreamUnavailable, "chat completion call failed", err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.MalformedResponse, "chat service returned no completions")
	}
	return resp.Choices[0].Message.Content, nil
}

// ValidateConversation checks the conversation shape without any upstream
// call: non-empty ordered sequence of role/content pairs.
func ValidateConversation(messages []models.ChatMessage) error {
	if len(messages) == 0 {
		return apperr.New(apperr.InvalidInput, "conversation must contain at least one message")
	}
	for i, m := range messages {
		if strings.TrimSpace(m.Role) == "" {
			return apperr.Newf(apperr.InvalidInput, "message %d is missing a role", i)
		}
		if strings.TrimSpace(m.Content) == "" {
			return apperr.Newf(apperr.InvalidInput, "message %d is missing content", i)
		}
	}
	return nil
}
