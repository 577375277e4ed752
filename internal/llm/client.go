// Package llm is the completion client that turns an extracted context
// bundle into an analysis. A provider maps to an ordered list of models;
// completion walks the list and falls through to the next model on rate
// limits, context-window overflows, and server errors.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ModelOrder maps a provider name to its models in order of preference.
var ModelOrder = map[string][]string{
	"gemini": {"gemini-2.5-pro", "gemini-2.5-flash"},
}

// Client is a single-model completion client.
type Client interface {
	// Name identifies the provider/model pair for logs.
	Name() string
	// Complete sends the prompt and returns the text of the response.
	Complete(ctx context.Context, prompt *Prompt) (string, error)
}

// Factory creates a Client for one model of a provider.
type Factory func(ctx context.Context, model string) (Client, error)

// Failover tries a provider's models in order until one returns a response.
type Failover struct {
	models  []string
	factory Factory
	logger  *log.Logger
}

// NewFailover creates a Failover over the provider's configured model order.
// models may be supplied explicitly (e.g. from configuration); when empty,
// the provider's ModelOrder entry is used.
func NewFailover(provider string, models []string, factory Factory, logger *log.Logger) (*Failover, error) {
	if len(models) == 0 {
		models = ModelOrder[strings.ToLower(provider)]
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no models configured for provider %q", provider)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Failover{models: models, factory: factory, logger: logger}, nil
}

// Models returns the model names in attempt order.
func (f *Failover) Models() []string {
	return append([]string(nil), f.models...)
}

// Complete walks the model list. Transient failures (rate limits, overflow,
// server errors) are logged and the next model is tried; a response from any
// model wins. When every model fails, the last error is returned wrapped in
// an aggregate message.
func (f *Failover) Complete(ctx context.Context, prompt *Prompt) (string, error) {
	var lastErr error
	for _, model := range f.models {
		client, err := f.factory(ctx, model)
		if err != nil {
			f.logger.Warn("could not create completion client", "model", model, "err", err)
			lastErr = err
			continue
		}

		f.logger.Debug("attempting completion", "model", model)
		text, err := client.Complete(ctx, prompt)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
			f.logger.Warn("completion failed, trying next model", "model", model, "err", err)
			lastErr = err
			continue
		}

		f.logger.Info("received completion", "model", model)
		return text, nil
	}
	return "", fmt.Errorf("all models failed (%s): %w", strings.Join(f.models, ", "), lastErr)
}
