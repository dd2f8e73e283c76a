package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/gpniroj-png/chatbot-agent/providers/ai"
)

// ---- SSEScanner tests -------------------------------------------------------

// collectSSE drains the scanner and returns every payload it yields.
func collectSSE(t *testing.T, scanner *SSEScanner) []string {
	t.Helper()
	var payloads []string
	for {
		payload, err := scanner.Next()
		if err == io.EOF {
			return payloads
		}
		if err != nil {
			t.Fatalf("unexpected scanner error: %v", err)
		}
		payloads = append(payloads, payload)
	}
}

// TestSSEScanner_DataLines verifies that only data-prefixed lines are
// returned and comments, blank lines, and other SSE fields are skipped.
func TestSSEScanner_DataLines(t *testing.T) {
	input := ": keep-alive comment\n" +
		"event: message\n" +
		"data: first\n" +
		"\n" +
		"id: 42\n" +
		"data: second\n" +
		"\n"

	payloads := collectSSE(t, NewSSEScanner(strings.NewReader(input)))
	if len(payloads) != 2 || payloads[0] != "first" || payloads[1] != "second" {
		t.Errorf("expected [first second], got %v", payloads)
	}
}

// TestSSEScanner_DoneSentinel verifies that the [DONE] sentinel terminates
// the scan with io.EOF and is never returned as a payload.
func TestSSEScanner_DoneSentinel(t *testing.T) {
	payloads := collectSSE(t, NewSSEScanner(strings.NewReader("data: [DONE]\n")))
	if len(payloads) != 0 {
		t.Errorf("expected no payloads before EOF, got %v", payloads)
	}
}

// TestSSEScanner_DataAfterDoneIgnored verifies that nothing after the [DONE]
// sentinel is yielded: the sentinel is a hard end of stream.
func TestSSEScanner_DataAfterDoneIgnored(t *testing.T) {
	input := "data: before\ndata: [DONE]\ndata: after\n"
	payloads := collectSSE(t, NewSSEScanner(strings.NewReader(input)))
	if len(payloads) != 1 || payloads[0] != "before" {
		t.Errorf("expected only the pre-sentinel payload, got %v", payloads)
	}
}

// TestSSEScanner_EmptyStream verifies that an input with zero bytes yields
// EOF immediately with no payloads.
func TestSSEScanner_EmptyStream(t *testing.T) {
	payloads := collectSSE(t, NewSSEScanner(strings.NewReader("")))
	if len(payloads) != 0 {
		t.Errorf("expected no payloads, got %v", payloads)
	}
}

// TestSSEScanner_SplitSafe verifies that feeding the same bytes one at a time
// (splitting at every offset, including inside multi-byte characters) yields
// the identical payload sequence as a single read.
func TestSSEScanner_SplitSafe(t *testing.T) {
	input := "data: héllo wörld 日本語\ndata: ピース✌\n"

	whole := collectSSE(t, NewSSEScanner(strings.NewReader(input)))
	split := collectSSE(t, NewSSEScanner(iotest.OneByteReader(strings.NewReader(input))))

	if len(whole) != len(split) {
		t.Fatalf("payload count differs: %d vs %d", len(whole), len(split))
	}
	for i := range whole {
		if whole[i] != split[i] {
			t.Errorf("payload %d differs: %q vs %q", i, whole[i], split[i])
		}
	}
}

// ---- LineScanner tests ------------------------------------------------------

// collectLines drains the scanner and returns every line it yields.
func collectLines(t *testing.T, scanner *LineScanner) []string {
	t.Helper()
	var lines []string
	for {
		line, err := scanner.Next()
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("unexpected scanner error: %v", err)
		}
		lines = append(lines, line)
	}
}

// TestLineScanner_SkipsBlankLines verifies that blank and whitespace-only
// lines are skipped and surrounding whitespace is trimmed.
func TestLineScanner_SkipsBlankLines(t *testing.T) {
	input := "{\"a\":1}\n\n   \n  {\"b\":2}\n"
	lines := collectLines(t, NewLineScanner(strings.NewReader(input)))
	if len(lines) != 2 || lines[0] != `{"a":1}` || lines[1] != `{"b":2}` {
		t.Errorf("unexpected lines: %v", lines)
	}
}

// TestLineScanner_DrainsFinalUnterminatedLine verifies that a trailing line
// without a newline is still returned before EOF.
func TestLineScanner_DrainsFinalUnterminatedLine(t *testing.T) {
	lines := collectLines(t, NewLineScanner(strings.NewReader("first\nlast-no-newline")))
	if len(lines) != 2 || lines[1] != "last-no-newline" {
		t.Errorf("expected trailing line to be drained, got %v", lines)
	}
}

// TestLineScanner_SplitSafe verifies byte-at-a-time reads yield the same
// line sequence as a single read, including across multi-byte characters.
func TestLineScanner_SplitSafe(t *testing.T) {
	input := "{\"text\":\"日本語テスト\"}\n{\"text\":\"héllo\"}\n"

	whole := collectLines(t, NewLineScanner(strings.NewReader(input)))
	split := collectLines(t, NewLineScanner(iotest.OneByteReader(strings.NewReader(input))))

	if len(whole) != len(split) {
		t.Fatalf("line count differs: %d vs %d", len(whole), len(split))
	}
	for i := range whole {
		if whole[i] != split[i] {
			t.Errorf("line %d differs: %q vs %q", i, whole[i], split[i])
		}
	}
}

// TestLineScanner_EmptyStream verifies that zero input bytes yield EOF with
// no lines.
func TestLineScanner_EmptyStream(t *testing.T) {
	lines := collectLines(t, NewLineScanner(strings.NewReader("")))
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}

// ---- DoPostStream tests -----------------------------------------------------

// TestDoPostStream_BodyLeftOpen verifies that a 2xx response is returned with
// its body open for incremental reading.
func TestDoPostStream_BodyLeftOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: hello\n\n")
	}))
	defer server.Close()

	response, err := DoPostStream(context.Background(), server.Client(), server.URL, "key", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer CloseWithLog(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.Contains(string(body), "hello") {
		t.Errorf("expected streamed body, got %q", body)
	}
}

// TestDoPostStream_Non2xx verifies that a non-2xx response surfaces as an
// *ai.ProviderError with the body already consumed and closed.
func TestDoPostStream_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer server.Close()

	_, err := DoPostStream(context.Background(), server.Client(), server.URL, "bad", nil)
	if err == nil {
		t.Fatal("expected error for 401 response, got nil")
	}

	providerErr, ok := ai.AsProviderError(err)
	if !ok {
		t.Fatalf("expected *ai.ProviderError, got %T: %v", err, err)
	}
	if providerErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", providerErr.StatusCode)
	}
	if !strings.Contains(providerErr.Body, "bad key") {
		t.Errorf("expected provider body, got %q", providerErr.Body)
	}
}

// TestDoPostStream_TransportError verifies that a connection failure surfaces
// as an *ai.TransportError.
func TestDoPostStream_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := DoPostStream(context.Background(), http.DefaultClient, url, "", nil)
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
	if _, ok := ai.AsTransportError(err); !ok {
		t.Fatalf("expected *ai.TransportError, got %T: %v", err, err)
	}
}
