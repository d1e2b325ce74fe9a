// Package anthropic implements the shared.Provider interface against the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"agentsuite/internal/llm/shared"
	"agentsuite/internal/llm/transport"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	anthropicVersion = "2023-06-01"
)

// Config holds Anthropic provider configuration
type Config struct {
	APIKey  string
	BaseURL string
}

// Provider implements the unified Provider interface for Anthropic
type Provider struct {
	http   *transport.HTTPClient
	config Config
}

// NewProvider creates a new Anthropic provider
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, &shared.ProviderError{
			Code:    shared.ErrAuth,
			Message: "ANTHROPIC_API_KEY not set",
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	httpClient := transport.NewHTTPClient(shared.ClientOptions{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Headers: map[string]string{
			"x-api-key":         cfg.APIKey,
			"anthropic-version": anthropicVersion,
		},
	})

	return &Provider{
		http:   httpClient,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string { return "anthropic" }

// DefaultModel returns the model used when none is configured
func (p *Provider) DefaultModel() string { return defaultModel }

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []wireMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	Temperature float32       `json:"temperature"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	StopReason string `json:"stop_reason"`
}

// Complete performs a completion request against the Messages API
func (p *Provider) Complete(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
	if err := shared.ValidateCompletionRequest(req); err != nil {
		return nil, err
	}

	wireReq := toMessagesRequest(req)

	resp, err := p.http.PostJSON(ctx, p.config.BaseURL+"/v1/messages", wireReq)
	if err != nil {
		return nil, shared.NormalizeError(err)
	}
	defer resp.Body.Close()

	if err := transport.CheckResponse(resp); err != nil {
		return nil, err
	}

	var wireResp messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return fromMessagesResponse(&wireResp)
}

// toMessagesRequest converts the shared request shape to the Anthropic
// wire format. System messages inside the history are folded into the
// top-level system field, which is where the Messages API wants them.
func toMessagesRequest(req *shared.CompletionRequest) *messagesRequest {
	system := req.System
	messages := make([]wireMessage, 0, len(req.Messages))

	for _, msg := range req.Messages {
		if msg.Role == shared.RoleSystem {
			if system == "" {
				system = msg.Content
			} else {
				system += "\n\n" + msg.Content
			}
			continue
		}
		messages = append(messages, wireMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	maxTokens := req.Options.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	// Temperature is always sent: 0 is a valid setting and must not
	// fall back to the provider default.
	return &messagesRequest{
		Model:       req.Options.Model,
		MaxTokens:   maxTokens,
		Messages:    messages,
		System:      system,
		Temperature: req.Options.Temperature,
	}
}

func fromMessagesResponse(resp *messagesResponse) (*shared.CompletionResponse, error) {
	if len(resp.Content) == 0 {
		return nil, &shared.ProviderError{
			Code:    shared.ErrUnknown,
			Message: "provider returned no content blocks",
		}
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &shared.CompletionResponse{
		Content: content,
		Model:   resp.Model,
		Usage: shared.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}
