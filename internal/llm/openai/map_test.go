package openai

import (
	"errors"
	"math"
	"net/http"
	"testing"

	"agentsuite/internal/llm/shared"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOpenAIRequestPrependsSystem(t *testing.T) {
	req := &shared.CompletionRequest{
		System: "be helpful",
		Messages: []shared.Message{
			{Role: shared.RoleUser, Content: "hello"},
		},
		Options: shared.CompletionOptions{
			Model:       "gpt-4o",
			MaxTokens:   128,
			Temperature: 0.5,
		},
	}

	got, err := toOpenAIRequest(req)
	require.NoError(t, err)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "be helpful", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 128, got.MaxTokens)
	assert.Equal(t, float32(0.5), got.Temperature)
}

func TestToOpenAIRequestZeroTemperature(t *testing.T) {
	req := &shared.CompletionRequest{
		Messages: []shared.Message{{Role: shared.RoleUser, Content: "hello"}},
		Options:  shared.CompletionOptions{Model: "gpt-4o", Temperature: 0},
	}

	got, err := toOpenAIRequest(req)
	require.NoError(t, err)

	// go-openai omits a zero temperature entirely; an explicit 0 is
	// encoded as the smallest positive float so it reaches the API.
	assert.Equal(t, float32(math.SmallestNonzeroFloat32), got.Temperature)
	assert.NotZero(t, got.Temperature)
}

func TestToOpenAIRequestWithoutSystem(t *testing.T) {
	req := &shared.CompletionRequest{
		Messages: []shared.Message{{Role: shared.RoleUser, Content: "hello"}},
		Options:  shared.CompletionOptions{Model: "gpt-4o"},
	}

	got, err := toOpenAIRequest(req)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestFromOpenAIResponse(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Model: "gpt-4o",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "result"}},
		},
		Usage: openai.Usage{PromptTokens: 7, CompletionTokens: 11, TotalTokens: 18},
	}

	got, err := fromOpenAIResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "result", got.Content)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 18, got.Usage.TotalTokens)
}

func TestFromOpenAIResponseNoChoices(t *testing.T) {
	_, err := fromOpenAIResponse(openai.ChatCompletionResponse{})
	assert.Error(t, err)
}

func TestNormalizeOpenAIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code shared.ErrorCode
	}{
		{
			name: "rate limited",
			err:  &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"},
			code: shared.ErrRateLimited,
		},
		{
			name: "auth",
			err:  &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
			code: shared.ErrAuth,
		},
		{
			name: "bad request",
			err:  &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "bad request"},
			code: shared.ErrInvalidRequest,
		},
		{
			name: "server error",
			err:  &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "oops"},
			code: shared.ErrUnavailable,
		},
		{
			name: "plain error",
			err:  errors.New("dial tcp: connection refused"),
			code: shared.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := shared.NormalizeError(normalizeOpenAIError(tt.err))
			assert.Equal(t, tt.code, norm.Code)
		})
	}
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(Config{})
	require.Error(t, err)
	assert.Equal(t, shared.ErrAuth, shared.NormalizeError(err).Code)

	_, err = NewGroqProvider("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "console.groq.com")
}

func TestGroqProviderDefaults(t *testing.T) {
	provider, err := NewGroqProvider("test-key")
	require.NoError(t, err)
	assert.Equal(t, "groq", provider.Name())
	assert.Equal(t, "llama-3.3-70b-versatile", provider.DefaultModel())
}
