// Package openai implements the shared.Provider interface on top of the
// OpenAI chat completions API. Groq exposes the same wire format, so the
// groq provider is this one pointed at the Groq base URL.
package openai

import (
	"context"
	"fmt"

	"agentsuite/internal/llm/shared"

	"github.com/sashabaranov/go-openai"
)

const (
	// GroqBaseURL is the OpenAI-compatible endpoint served by Groq.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	defaultOpenAIModel = "gpt-4o"
	defaultGroqModel   = "llama-3.3-70b-versatile"
)

// Config holds provider configuration
type Config struct {
	APIKey  string
	BaseURL string
	OrgID   string
}

// Provider implements the unified Provider interface for OpenAI and
// OpenAI-compatible endpoints.
type Provider struct {
	client       *openai.Client
	name         string
	defaultModel string
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, &shared.ProviderError{
			Code:    shared.ErrAuth,
			Message: "OPENAI_API_KEY not set",
		}
	}

	openaiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiConfig.BaseURL = cfg.BaseURL
	}
	if cfg.OrgID != "" {
		openaiConfig.OrgID = cfg.OrgID
	}

	return &Provider{
		client:       openai.NewClientWithConfig(openaiConfig),
		name:         "openai",
		defaultModel: defaultOpenAIModel,
	}, nil
}

// NewGroqProvider creates a provider that talks to Groq's OpenAI-compatible
// API. Groq offers a free tier, which is why it is the suite's default.
func NewGroqProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, &shared.ProviderError{
			Code:    shared.ErrAuth,
			Message: "GROQ_API_KEY not set; get a free key at https://console.groq.com",
		}
	}

	openaiConfig := openai.DefaultConfig(apiKey)
	openaiConfig.BaseURL = GroqBaseURL

	return &Provider{
		client:       openai.NewClientWithConfig(openaiConfig),
		name:         "groq",
		defaultModel: defaultGroqModel,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string { return p.name }

// DefaultModel returns the model used when none is configured
func (p *Provider) DefaultModel() string { return p.defaultModel }

// Complete performs a completion request
func (p *Provider) Complete(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
	if err := shared.ValidateCompletionRequest(req); err != nil {
		return nil, err
	}

	openaiReq, err := toOpenAIRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert request: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, *openaiReq)
	if err != nil {
		return nil, normalizeOpenAIError(err)
	}

	return fromOpenAIResponse(resp)
}
