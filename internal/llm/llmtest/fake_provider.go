// Package llmtest provides a scripted fake provider for agent and
// runner tests.
package llmtest

import (
	"context"
	"sync"

	"agentsuite/internal/llm/shared"
)

// FakeProvider implements shared.Provider with scripted responses. If
// the script runs out, the last response repeats.
type FakeProvider struct {
	ProviderName string
	Model        string
	Responses    []string
	Err          error
	// CompleteFunc, when set, fully overrides Complete.
	CompleteFunc func(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error)

	mu    sync.Mutex
	calls []*shared.CompletionRequest
}

// NewFakeProvider creates a fake provider that cycles through responses
func NewFakeProvider(responses ...string) *FakeProvider {
	return &FakeProvider{
		ProviderName: "fake",
		Model:        "fake-model",
		Responses:    responses,
	}
}

// Name returns the provider name
func (f *FakeProvider) Name() string {
	if f.ProviderName == "" {
		return "fake"
	}
	return f.ProviderName
}

// DefaultModel returns the fake model name
func (f *FakeProvider) DefaultModel() string {
	if f.Model == "" {
		return "fake-model"
	}
	return f.Model
}

// Complete returns the next scripted response
func (f *FakeProvider) Complete(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	n := len(f.calls)
	f.mu.Unlock()

	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, req)
	}
	if f.Err != nil {
		return nil, f.Err
	}

	content := ""
	if len(f.Responses) > 0 {
		idx := n - 1
		if idx >= len(f.Responses) {
			idx = len(f.Responses) - 1
		}
		content = f.Responses[idx]
	}

	return &shared.CompletionResponse{
		Content: content,
		Model:   f.DefaultModel(),
		Usage: shared.TokenUsage{
			PromptTokens:     10,
			CompletionTokens: 20,
			TotalTokens:      30,
		},
	}, nil
}

// Calls returns a copy of the requests seen so far
func (f *FakeProvider) Calls() []*shared.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*shared.CompletionRequest, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of Complete invocations
func (f *FakeProvider) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
