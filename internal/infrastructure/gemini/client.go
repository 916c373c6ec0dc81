package gemini

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shoplens/backend/internal/domain"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

const maxAttempts = 3

// Client talks to the Gemini API through the official SDK and implements
// domain.GenerativeClient.
//
// A Client constructed without an API key is valid: every call fails with
// domain.ErrModelUnavailable instead of failing construction, so the rest of
// the service keeps running in its degraded mode.
type Client struct {
	genai       *genai.Client
	modelName   string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if modelName == "" {
		modelName = DefaultModel
	}

	// Free-tier Gemini allows 15 requests per minute; stay under it.
	client := &Client{
		modelName:   modelName,
		rateLimiter: rate.NewLimiter(rate.Limit(0.25), 4),
	}

	if apiKey == "" {
		return client, nil
	}

	sdk, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	client.genai = sdk

	return client, nil
}

// Close releases the underlying SDK connection.
func (c *Client) Close() {
	if c.genai != nil {
		c.genai.Close()
	}
}

// Configured reports whether an API credential was provided.
func (c *Client) Configured() bool {
	return c.genai != nil
}

// AnalyzeImage sends one multimodal request (prompt text + inline image) and
// returns the raw response text. Retries transient failures with backoff.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	if c.genai == nil {
		return "", fmt.Errorf("%w: missing API credential", domain.ErrModelUnavailable)
	}

	model := c.genai.GenerativeModel(c.modelName)
	// Hint that the output should be JSON; the recovery pipeline still expects
	// the model to ignore this sometimes.
	model.ResponseMIMEType = "application/json"

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrModelUnavailable, err)
		}

		resp, err := model.GenerateContent(ctx,
			genai.Text(prompt),
			genai.Blob{MIMEType: mimeType, Data: image},
		)
		if err != nil {
			log.Printf("[GEMINI] generate error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		text := responseText(resp)
		if text == "" {
			log.Printf("[GEMINI] empty response (attempt %d)", attempt)
			lastErr = fmt.Errorf("empty response")
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, lastErr)
}

// StartChat opens a stateful conversation and returns it as an opaque
// session handle exposing only SendMessage.
func (c *Client) StartChat(ctx context.Context, systemInstruction string) (domain.ChatSession, error) {
	if c.genai == nil {
		return nil, fmt.Errorf("%w: missing API credential", domain.ErrModelUnavailable)
	}

	model := c.genai.GenerativeModel(c.modelName)
	if systemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstruction)},
		}
	}

	return &chatSession{
		session:     model.StartChat(),
		rateLimiter: c.rateLimiter,
	}, nil
}

// chatSession wraps one genai conversation behind domain.ChatSession.
type chatSession struct {
	session     *genai.ChatSession
	rateLimiter *rate.Limiter
}

func (s *chatSession) SendMessage(ctx context.Context, text string) (string, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrModelUnavailable, err)
	}

	resp, err := s.session.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}

	reply := responseText(resp)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", domain.ErrModelUnavailable)
	}
	return reply, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text
}

// exponentialBackoff returns the sleep before the next retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
