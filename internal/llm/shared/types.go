package shared

import (
	"context"
	"time"
)

// Role defines the role of a message in a conversation
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message exchanged with an LLM provider
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionOptions defines parameters for LLM completion requests
type CompletionOptions struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// CompletionRequest represents a request for a chat completion
type CompletionRequest struct {
	Messages []Message
	Options  CompletionOptions
	// System is the top-level system prompt; providers that take system
	// as a plain message prepend it themselves.
	System string
}

// TokenUsage tracks token consumption for monitoring
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse represents the response from an LLM completion
type CompletionResponse struct {
	Content string     `json:"content"`
	Model   string     `json:"model"`
	Usage   TokenUsage `json:"usage"`
	// Cached is true when the response was served from the local cache
	// rather than the provider.
	Cached bool `json:"cached,omitempty"`
}

// ErrorCode defines normalized error codes across providers
type ErrorCode string

const (
	ErrRateLimited    ErrorCode = "rate_limited"
	ErrTimeout        ErrorCode = "timeout"
	ErrAuth           ErrorCode = "auth"
	ErrInvalidRequest ErrorCode = "invalid_request"
	ErrModelNotFound  ErrorCode = "model_not_found"
	ErrUnavailable    ErrorCode = "service_unavailable"
	ErrUnknown        ErrorCode = "unknown"
)

// ProviderError represents a normalized error from any provider
type ProviderError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
}

func (e *ProviderError) Error() string { return e.Message }

// Retryable reports whether a request that failed with this error is
// worth retrying. Auth and request-shape problems never are.
func (e *ProviderError) Retryable() bool {
	switch e.Code {
	case ErrRateLimited, ErrTimeout, ErrUnavailable, ErrUnknown:
		return true
	default:
		return false
	}
}

// Provider defines the unified interface for LLM providers
type Provider interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
	Name() string
	DefaultModel() string
}

// ClientOptions defines HTTP client configuration for provider transports
type ClientOptions struct {
	BaseURL      string
	APIKey       string
	Headers      map[string]string
	Timeout      time.Duration
	RetryMax     int
	RetryBackoff time.Duration
	MaxIdleConns int
	IdleConnTTL  time.Duration
}
