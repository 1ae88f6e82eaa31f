// Package gemini implements llm.Completer with the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/shared/telemetry"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Client wraps a genai client bound to one model.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini API client.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: gc, model: model, timeout: timeout}, nil
}

// CompleteJSON issues one GenerateContent call with a JSON response type.
func (c *Client) CompleteJSON(ctx context.Context, req llm.Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](req.Temperature),
		ResponseMIMEType: "application/json",
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	fields := map[string]any{
		"provider":    "gemini",
		"model":       c.model,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if u := result.UsageMetadata; u != nil {
		fields["prompt_tokens"] = u.PromptTokenCount
		fields["completion_tokens"] = u.CandidatesTokenCount
	}
	telemetry.Info("llm.response", fields)

	content := strings.TrimSpace(result.Text())
	if content == "" {
		return "", llm.ErrEmptyContent
	}
	return content, nil
}

var _ llm.Completer = (*Client)(nil)
