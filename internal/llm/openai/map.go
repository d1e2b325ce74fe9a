package openai

import (
	"errors"
	"math"
	"net/http"

	"agentsuite/internal/llm/shared"

	"github.com/sashabaranov/go-openai"
)

// toOpenAIRequest converts a shared completion request to the go-openai
// request shape. The top-level system prompt becomes the first message.
func toOpenAIRequest(req *shared.CompletionRequest) (*openai.ChatCompletionRequest, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	temperature := req.Options.Temperature
	if temperature == 0 {
		// go-openai drops a zero temperature from the JSON; the smallest
		// positive float survives marshaling and the API reads it as 0.
		temperature = math.SmallestNonzeroFloat32
	}

	return &openai.ChatCompletionRequest{
		Model:       req.Options.Model,
		Messages:    messages,
		MaxTokens:   req.Options.MaxTokens,
		Temperature: temperature,
	}, nil
}

// fromOpenAIResponse converts a go-openai response to the shared shape
func fromOpenAIResponse(resp openai.ChatCompletionResponse) (*shared.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, &shared.ProviderError{
			Code:    shared.ErrUnknown,
			Message: "provider returned no choices",
		}
	}

	return &shared.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: shared.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// normalizeOpenAIError maps go-openai errors to ProviderError codes
func normalizeOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &shared.ProviderError{
			Code:       codeForStatus(apiErr.HTTPStatusCode),
			Message:    apiErr.Message,
			HTTPStatus: apiErr.HTTPStatusCode,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &shared.ProviderError{
			Code:       codeForStatus(reqErr.HTTPStatusCode),
			Message:    reqErr.Error(),
			HTTPStatus: reqErr.HTTPStatusCode,
		}
	}

	return shared.NormalizeError(err)
}

func codeForStatus(status int) shared.ErrorCode {
	switch {
	case status == http.StatusTooManyRequests:
		return shared.ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return shared.ErrAuth
	case status == http.StatusNotFound:
		return shared.ErrModelNotFound
	case status == http.StatusBadRequest:
		return shared.ErrInvalidRequest
	case status >= 500:
		return shared.ErrUnavailable
	default:
		return shared.ErrUnknown
	}
}
