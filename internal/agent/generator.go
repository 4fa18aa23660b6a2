// Package agent provides the response generator that produces agent replies.
package agent

import "context"

// ResponseGenerator produces the agent side of a conversation turn. Each call
// is stateless from the generator's perspective; the service owns the log.
type ResponseGenerator interface {
	Generate(ctx context.Context, userMessage string) (string, error)
}

// Ensure implementations satisfy the interface.
var (
	_ ResponseGenerator = (*Client)(nil)
	_ ResponseGenerator = (*MockClient)(nil)
)
