// Package llm generates text with Gemini and retries quota failures.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-1.5-flash"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty response from model")

// SamplingParams are per-call generation settings. Zero values leave the
// model default in place.
type SamplingParams struct {
	Temperature float32
	TopP        float32
	TopK        int32
	MaxTokens   int32
}

// DefaultSampling returns the settings used for article generation.
func DefaultSampling() SamplingParams {
	return SamplingParams{
		Temperature: 0.8,
		TopP:        0.95,
		TopK:        40,
		MaxTokens:   2048,
	}
}

// WithTemperature returns a copy of p with temperature t, capped at 1.0.
func (p SamplingParams) WithTemperature(t float32) SamplingParams {
	p.Temperature = min(t, 1.0)
	return p
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, p SamplingParams) (string, error)
}

// GeminiClient is a Generator backed by the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a client for modelName using apiKey.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY or gemini.api_key in the config file")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName}, nil
}

// Model returns the model name.
func (c *GeminiClient) Model() string {
	return c.modelName
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Generate sends prompt to the model. Errors are tagged with Classify.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, p SamplingParams) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &FatalError{Err: fmt.Errorf("prompt cannot be empty")}
	}

	model := c.client.GenerativeModel(c.modelName)
	if p.Temperature > 0 {
		model.SetTemperature(p.Temperature)
	}
	if p.TopP > 0 {
		model.SetTopP(p.TopP)
	}
	if p.TopK > 0 {
		model.SetTopK(p.TopK)
	}
	if p.MaxTokens > 0 {
		model.SetMaxOutputTokens(p.MaxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", Classify(fmt.Errorf("gemini generate failed: %w", err))
	}

	text := responseText(resp)
	if text == "" {
		return "", &FatalError{Err: ErrEmptyResponse}
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return strings.TrimSpace(sb.String())
}
