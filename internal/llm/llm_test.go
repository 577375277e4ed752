package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odev-tools/addonctx/internal/extract"
)

func TestPrompt_ContentsPreserveOrderWithFileHeaders(t *testing.T) {
	t.Parallel()
	var p Prompt
	p.SetSystem("You are an Odoo developer.")
	p.AddText("Task: add a field.")
	p.AddFile("sale/__manifest__.py", "{'name': 'Sales'}")
	p.AddText("Respond with JSON.")

	contents := p.Contents()
	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 4)

	assert.Equal(t, "Task: add a field.", parts[0].Text)
	assert.Equal(t, "File: sale/__manifest__.py", parts[1].Text)
	assert.Equal(t, "{'name': 'Sales'}", parts[2].Text)
	assert.Equal(t, "Respond with JSON.", parts[3].Text)

	require.NotNil(t, p.systemInstruction())
	assert.Equal(t, "You are an Odoo developer.", p.systemInstruction().Parts[0].Text)
}

func TestPrompt_EmptyPrompt(t *testing.T) {
	t.Parallel()
	var p Prompt
	assert.Nil(t, p.Contents())
	assert.Nil(t, p.systemInstruction())
}

func TestPrompt_AddBundleKeepsBundleOrder(t *testing.T) {
	t.Parallel()
	var b extract.Bundle
	b.Append("m/a.py", "a")
	b.Append("m/b.py", "b")

	var p Prompt
	p.AddBundle(&b)
	require.Equal(t, 2, p.Len())

	parts := p.Contents()[0].Parts
	assert.Equal(t, "File: m/a.py", parts[0].Text)
	assert.Equal(t, "File: m/b.py", parts[2].Text)
}

// fakeClient records completion attempts and fails until the named model.
type fakeClient struct {
	model   string
	succeed string
	calls   *[]string
}

func (f *fakeClient) Name() string { return "fake:" + f.model }

func (f *fakeClient) Complete(context.Context, *Prompt) (string, error) {
	*f.calls = append(*f.calls, f.model)
	if f.model == f.succeed {
		return "answer from " + f.model, nil
	}
	return "", fmt.Errorf("rate limited")
}

func newFakeFactory(succeed string, calls *[]string) Factory {
	return func(_ context.Context, model string) (Client, error) {
		return &fakeClient{model: model, succeed: succeed, calls: calls}, nil
	}
}

func TestFailover_FallsThroughToWorkingModel(t *testing.T) {
	t.Parallel()
	var calls []string
	f, err := NewFailover("test", []string{"m1", "m2", "m3"},
		newFakeFactory("m2", &calls), log.New(io.Discard))
	require.NoError(t, err)

	text, err := f.Complete(context.Background(), &Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "answer from m2", text)
	assert.Equal(t, []string{"m1", "m2"}, calls)
}

func TestFailover_AllModelsFail(t *testing.T) {
	t.Parallel()
	var calls []string
	f, err := NewFailover("test", []string{"m1", "m2"},
		newFakeFactory("none", &calls), log.New(io.Discard))
	require.NoError(t, err)

	_, err = f.Complete(context.Background(), &Prompt{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all models failed")
	assert.Equal(t, []string{"m1", "m2"}, calls)
}

func TestFailover_ContextCancellationStopsAttempts(t *testing.T) {
	t.Parallel()
	var calls []string
	f, err := NewFailover("test", []string{"m1", "m2"},
		func(_ context.Context, model string) (Client, error) {
			return clientFunc(func(context.Context, *Prompt) (string, error) {
				calls = append(calls, model)
				return "", context.Canceled
			}), nil
		}, log.New(io.Discard))
	require.NoError(t, err)

	_, err = f.Complete(context.Background(), &Prompt{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"m1"}, calls)
}

type clientFunc func(context.Context, *Prompt) (string, error)

func (f clientFunc) Name() string { return "func" }

func (f clientFunc) Complete(ctx context.Context, p *Prompt) (string, error) { return f(ctx, p) }

func TestNewFailover_DefaultsToProviderOrder(t *testing.T) {
	t.Parallel()
	f, err := NewFailover("gemini", nil, newFakeFactory("", new([]string)), log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, ModelOrder["gemini"], f.Models())

	_, err = NewFailover("unknown", nil, nil, nil)
	assert.Error(t, err)
}

func TestErrEmptyResponseIsSentinel(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("gemini:x: %w", ErrEmptyResponse)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}
