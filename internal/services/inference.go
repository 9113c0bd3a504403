package services

import (
	"context"
	"errors"
)

const (
	SummaryMaxTokens  int64 = 2000
	FollowUpMaxTokens int64 = 1000
)

var ErrEmptyCompletion = errors.New("empty response from AI")

// CompletionRequest is a single-shot completion call.
type CompletionRequest struct {
	Model     string
	Prompt    string
	MaxTokens int64
}

// Completer is the boundary to the hosted language model.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
