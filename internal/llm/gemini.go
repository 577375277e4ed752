package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answered with no usable text.
var ErrEmptyResponse = errors.New("llm: empty response")

// GeminiClient is a thin wrapper around the official genai client for one
// model. Failover across models is handled by Failover.
type GeminiClient struct {
	cli    *genai.Client
	model  string
	logger *log.Logger
}

// NewGeminiClient creates a client for the given model authenticated with
// apiKey.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *log.Logger) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &GeminiClient{cli: cli, model: model, logger: logger}, nil
}

// GeminiFactory returns a Factory producing GeminiClients for the given key.
func GeminiFactory(apiKey string, logger *log.Logger) Factory {
	return func(ctx context.Context, model string) (Client, error) {
		return NewGeminiClient(ctx, apiKey, model, logger)
	}
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Complete sends the prompt and returns the first candidate's text.
func (g *GeminiClient) Complete(ctx context.Context, prompt *Prompt) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, prompt.Contents(),
		&genai.GenerateContentConfig{SystemInstruction: prompt.systemInstruction()})
	if err != nil {
		return "", fmt.Errorf("%s: %w", g.Name(), err)
	}

	if resp.UsageMetadata != nil {
		g.logger.Debug("token usage",
			"model", g.model,
			"prompt", resp.UsageMetadata.PromptTokenCount,
			"completion", resp.UsageMetadata.CandidatesTokenCount,
			"total", resp.UsageMetadata.TotalTokenCount,
		)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%s: %w", g.Name(), ErrEmptyResponse)
	}
	return text, nil
}
