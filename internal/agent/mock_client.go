package agent

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// MockClient is a deterministic generator for tests and local development.
type MockClient struct{}

// NewMockClient creates a new mock generator.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Generate returns a canned reply echoing the user message.
func (m *MockClient) Generate(ctx context.Context, userMessage string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return fmt.Sprintf("[MOCK] Received your message: %q. How else can I help you today?", truncate(userMessage, 100)), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
