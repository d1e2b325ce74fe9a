package shared

import (
	"errors"
	"fmt"
)

// NormalizeError normalizes arbitrary errors to a ProviderError
func NormalizeError(err error) *ProviderError {
	if err == nil {
		return nil
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	return &ProviderError{
		Code:    ErrUnknown,
		Message: err.Error(),
	}
}

// ValidateCompletionRequest validates a completion request before it is
// handed to a provider.
func ValidateCompletionRequest(req *CompletionRequest) error {
	if req == nil {
		return &ProviderError{
			Code:    ErrInvalidRequest,
			Message: "request cannot be nil",
		}
	}

	if len(req.Messages) == 0 {
		return &ProviderError{
			Code:    ErrInvalidRequest,
			Message: "messages cannot be empty",
		}
	}

	for i, msg := range req.Messages {
		if msg.Role == "" {
			return &ProviderError{
				Code:    ErrInvalidRequest,
				Message: fmt.Sprintf("message %d: role cannot be empty", i),
			}
		}
		if msg.Role != RoleSystem && msg.Role != RoleUser && msg.Role != RoleAssistant {
			return &ProviderError{
				Code:    ErrInvalidRequest,
				Message: fmt.Sprintf("message %d: invalid role '%s'", i, msg.Role),
			}
		}
	}

	if req.Options.Model == "" {
		return &ProviderError{
			Code:    ErrInvalidRequest,
			Message: "model cannot be empty",
		}
	}

	return nil
}
