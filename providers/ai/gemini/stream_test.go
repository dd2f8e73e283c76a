package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gpniroj-png/chatbot-agent/providers/ai"
)

// writeLine is a test helper that writes one JSON record line and flushes.
func writeLine(writer http.ResponseWriter, line string) {
	fmt.Fprintln(writer, line)
	if flusher, ok := writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

// streamingProvider builds a provider against a streaming httptest handler.
func streamingProvider(t *testing.T, handler http.HandlerFunc) (*GeminiProvider, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	provider := New()
	provider.WithBaseURL(server.URL)
	provider.WithAPIKey("test-key")
	return provider, server.Close
}

// TestStreamMessage_ContentStreaming verifies that line-delimited chunks are
// decoded in order, and that the streaming endpoint is addressed.
func TestStreamMessage_ContentStreaming(t *testing.T) {
	var gotPath string
	provider, cleanup := streamingProvider(t, func(writer http.ResponseWriter, request *http.Request) {
		gotPath = request.URL.Path
		writeLine(writer, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello"}]}}]}`)
		writeLine(writer, `{"candidates":[{"content":{"role":"model","parts":[{"text":" world"}]},"finishReason":"STOP"}]}`)
	})
	defer cleanup()

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	text, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if text != "Hello world" {
		t.Errorf("expected 'Hello world', got %q", text)
	}
	if want := "/models/" + DefaultModel + ":streamGenerateContent"; gotPath != want {
		t.Errorf("expected path %q, got %q", want, gotPath)
	}
}

// TestStreamMessage_MalformedLinesSkipped verifies that array framing and
// partial lines between valid records are skipped without ending the stream.
func TestStreamMessage_MalformedLinesSkipped(t *testing.T) {
	provider, cleanup := streamingProvider(t, func(writer http.ResponseWriter, request *http.Request) {
		writeLine(writer, `[`)
		writeLine(writer, `{"candidates":[{"content":{"parts":[{"text":"before"}]}}]}`)
		writeLine(writer, `,`)
		writeLine(writer, `{"candidates":[{"content":{"parts":[{"text":"after"}]}}]}`)
		writeLine(writer, `]`)
	})
	defer cleanup()

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	text, err := stream.Collect()
	if err != nil {
		t.Fatalf("expected malformed lines to be skipped, got error: %v", err)
	}
	if text != "beforeafter" {
		t.Errorf("expected deltas around the skipped lines, got %q", text)
	}
}

// TestStreamMessage_BlankLinesIgnored verifies that blank lines are not
// treated as records.
func TestStreamMessage_BlankLinesIgnored(t *testing.T) {
	provider, cleanup := streamingProvider(t, func(writer http.ResponseWriter, request *http.Request) {
		writeLine(writer, ``)
		writeLine(writer, `{"candidates":[{"content":{"parts":[{"text":"only"}]}}]}`)
		writeLine(writer, `   `)
	})
	defer cleanup()

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	text, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if text != "only" {
		t.Errorf("expected 'only', got %q", text)
	}
}

// TestStreamMessage_EmptyStream verifies that end-of-stream with zero bytes
// completes normally with zero deltas and no error.
func TestStreamMessage_EmptyStream(t *testing.T) {
	provider, cleanup := streamingProvider(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	defer cleanup()

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected stream error: %v", iterErr)
		}
		if event.Type == ai.StreamEventContent {
			t.Errorf("unexpected content event %q", event.Content)
		}
	}
}

// TestStreamMessage_FinishReason verifies the terminal chunk produces a done
// event carrying the finish reason.
func TestStreamMessage_FinishReason(t *testing.T) {
	provider, cleanup := streamingProvider(t, func(writer http.ResponseWriter, request *http.Request) {
		writeLine(writer, `{"candidates":[{"content":{"parts":[{"text":"done"}]},"finishReason":"STOP"}]}`)
	})
	defer cleanup()

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	var finish string
	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected stream error: %v", iterErr)
		}
		if event.Type == ai.StreamEventDone {
			finish = event.FinishReason
		}
	}
	if finish != "STOP" {
		t.Errorf("expected finish reason STOP, got %q", finish)
	}
}

// TestStreamMessage_Cancellation verifies that cancelling the context mid
// stream yields exactly one terminal error flagged as a cancellation.
func TestStreamMessage_Cancellation(t *testing.T) {
	release := make(chan struct{})
	provider, cleanup := streamingProvider(t, func(writer http.ResponseWriter, request *http.Request) {
		writeLine(writer, `{"candidates":[{"content":{"parts":[{"text":"partial"}]}}]}`)
		<-release
	})
	defer cleanup()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := provider.StreamMessage(ctx, ai.ChatRequest{})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	var text string
	var terminalErrs int
	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			terminalErrs++
			transportErr, ok := ai.AsTransportError(iterErr)
			if !ok {
				t.Fatalf("expected *ai.TransportError, got %T: %v", iterErr, iterErr)
			}
			if !transportErr.Canceled() {
				t.Errorf("expected Canceled()=true (err: %v)", iterErr)
			}
			continue
		}
		if event.Type == ai.StreamEventContent {
			text += event.Content
			cancel()
		}
	}

	if text != "partial" {
		t.Errorf("expected partial text before cancellation, got %q", text)
	}
	if terminalErrs != 1 {
		t.Errorf("expected exactly one terminal error, got %d", terminalErrs)
	}
}

// TestStreamMessage_ProviderError verifies a non-2xx response fails the call
// up front with the body preserved.
func TestStreamMessage_ProviderError(t *testing.T) {
	provider, cleanup := streamingProvider(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		fmt.Fprint(writer, `{"error":{"message":"key not valid"}}`)
	})
	defer cleanup()

	_, err := provider.StreamMessage(context.Background(), ai.ChatRequest{})
	providerErr, ok := ai.AsProviderError(err)
	if !ok {
		t.Fatalf("expected *ai.ProviderError, got %T: %v", err, err)
	}
	if providerErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", providerErr.StatusCode)
	}
	if !strings.Contains(providerErr.Body, "key not valid") {
		t.Errorf("expected provider body, got %q", providerErr.Body)
	}
}

// TestStreamMessage_MissingAPIKey verifies that streaming also requires a
// credential before any call is attempted.
func TestStreamMessage_MissingAPIKey(t *testing.T) {
	provider := &GeminiProvider{client: &http.Client{}}
	if _, err := provider.StreamMessage(context.Background(), ai.ChatRequest{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
