package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("unexpected authorization header: %s", got)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages: %+v", req.Messages)
		}
		if req.Messages[1].Content != "hello" {
			t.Fatalf("unexpected user message: %s", req.Messages[1].Content)
		}
		if req.Temperature != 0.7 || req.MaxTokens != 1000 {
			t.Fatalf("unexpected sampling params: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Hi, how can I help?"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model", time.Second)
	reply, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "Hi, how can I help?" {
		t.Fatalf("unexpected reply: %s", reply)
	}
}

func TestClientGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-model", time.Second)
	_, err := client.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected API error message, got: %v", err)
	}
}

func TestClientGenerateEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-model", time.Second)
	if _, err := client.Generate(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty completion")
	}
}

func TestMockClientGenerate(t *testing.T) {
	mock := NewMockClient()
	reply, err := mock.Generate(context.Background(), "where is my order?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(reply, "where is my order?") {
		t.Fatalf("expected echo of user message, got: %s", reply)
	}
}

func TestMockClientTruncatesOnRuneBoundary(t *testing.T) {
	mock := NewMockClient()

	// The echoed excerpt is capped at 100 bytes; the multi-byte rune straddles
	// that cap and must not be split.
	long := strings.Repeat("a", 98) + "世界"
	reply, err := mock.Generate(context.Background(), long)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !utf8.ValidString(reply) {
		t.Fatalf("reply contains invalid UTF-8: %q", reply)
	}
}

func TestMockClientCancelledContext(t *testing.T) {
	mock := NewMockClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mock.Generate(ctx, "hello"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewResponseGeneratorModeSelection(t *testing.T) {
	t.Setenv(EnvCallsimMode, ModeMock)
	if _, ok := NewResponseGenerator("", "", "", time.Second).(*MockClient); !ok {
		t.Fatal("expected mock generator in MOCK mode")
	}

	t.Setenv(EnvCallsimMode, "")
	if _, ok := NewResponseGenerator("http://llm", "", "m", time.Second).(*Client); !ok {
		t.Fatal("expected real client outside MOCK mode")
	}
}
