package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrLLMCreditsExhausted means the provider refused the call for billing reasons.
	ErrLLMCreditsExhausted = errors.New("llm credits exhausted")
	// ErrLLMUnavailable covers every other provider failure.
	ErrLLMUnavailable = errors.New("llm unavailable")
)

// CompletionRequest is a single-turn text completion.
type CompletionRequest struct {
	// Purpose labels the call in logs ("analyze", "prompt-edit", "sow", ...).
	Purpose   string
	System    string
	Prompt    string
	MaxTokens int64
}

type CompletionResponse struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// ILLMGateway abstracts the text-completion provider (Anthropic).
//
// Failures are wrapped around ErrLLMCreditsExhausted or ErrLLMUnavailable so
// callers can branch with errors.Is. Calls are never retried.
type ILLMGateway interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}
