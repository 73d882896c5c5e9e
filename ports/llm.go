package ports

import "context"

// CompletionRequest is one text-completion round-trip to the knowledge service
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int // 0 means the client default
}

// CompletionClient is the knowledge service boundary. Implementations fail
// with a service error the caller must catch; no retries are assumed.
// Self-consistency sampling is N independent calls through this interface.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
