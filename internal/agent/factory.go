package agent

import (
	"log"
	"os"
	"time"
)

const (
	// EnvCallsimMode is the environment variable name for mode selection.
	EnvCallsimMode = "CALLSIM_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewResponseGenerator creates a generator based on the CALLSIM_MODE
// environment variable. If CALLSIM_MODE=MOCK, returns a MockClient; otherwise
// returns a real Client.
func NewResponseGenerator(baseURL, apiKey, model string, timeout time.Duration) ResponseGenerator {
	if os.Getenv(EnvCallsimMode) == ModeMock {
		log.Println("CALLSIM_MODE=MOCK detected, using mock response generator")
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, model, timeout)
}
