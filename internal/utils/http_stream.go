package utils

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

// DoPostStream performs an HTTP POST request and returns the raw response
// with body left open for incremental reading. The caller is responsible for
// closing the response body when done; on error paths the body is read and
// closed before returning.
//
// This follows the same pattern as DoPostSync but does not consume the
// response body, enabling streaming consumption via SSEScanner or LineScanner.
func DoPostStream(ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, error) {
	observer := observability.ObserverFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	response, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if observer != nil {
			observer.Debug("HTTP stream request failed",
				observability.String(observability.AttrHTTPMethod, http.MethodPost),
				observability.String(observability.AttrHTTPURL, url),
				observability.Duration("http.request.duration", requestDuration),
				observability.Error(err),
			)
		}
		return response, &ai.TransportError{Err: err}
	}

	// For non-2xx responses, read the body and close it before returning the error
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			return response, &ai.ProviderError{
				StatusCode: response.StatusCode,
				Status:     response.Status,
				Body:       fmt.Sprintf("(failed to read body: %v)", readErr),
			}
		}
		return response, &ai.ProviderError{
			StatusCode: response.StatusCode,
			Status:     response.Status,
			Body:       string(errorBody),
		}
	}

	if observer != nil {
		observer.Debug("HTTP stream response started",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	return response, nil
}

// maxStreamLineSize is the maximum size of a single streamed record line
// (1 MB). The default bufio.Scanner limit is 64 KiB, which is too small for
// large events such as long completions. If a line exceeds this limit the
// scanner returns a wrapped bufio.ErrTooLong via the Next() error path.
const maxStreamLineSize = 1 * 1024 * 1024

// newLineScanner builds a bufio.Scanner sized for streamed record lines.
// bufio's line splitting operates on raw bytes and buffers until a newline,
// so a read boundary that splits a multi-byte UTF-8 character is carried
// forward rather than corrupted.
func newLineScanner(reader io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineSize)
	return scanner
}

// SSEScanner reads Server-Sent Events from an io.Reader. Only "data:" lines
// are candidate records; comments, blank lines, and other SSE fields are
// skipped. The [DONE] sentinel used by OpenAI-compatible APIs terminates the
// stream without being treated as a record.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates an SSEScanner that reads SSE events from the given
// reader. Individual lines up to maxStreamLineSize (1 MB) are supported.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	return &SSEScanner{scanner: newLineScanner(reader)}
}

// Next returns the next SSE data payload as a string.
// Returns io.EOF when no more events are available, or when the [DONE]
// sentinel is encountered.
func (sseScanner *SSEScanner) Next() (string, error) {
	for sseScanner.scanner.Scan() {
		line := sseScanner.scanner.Text()

		// Blank lines separate events; skip
		if line == "" {
			continue
		}

		// Skip SSE comments
		if strings.HasPrefix(line, ":") {
			continue
		}

		// Only "data:" lines are candidate records
		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

			// [DONE] sentinel (OpenAI convention) signals normal completion
			if data == "[DONE]" {
				return "", io.EOF
			}

			return data, nil
		}

		// Ignore other SSE fields (event:, id:, retry:)
	}

	if err := sseScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}

	return "", io.EOF
}

// LineScanner reads newline-delimited records from an io.Reader, skipping
// blank lines. It serves the line-delimited JSON and token-event stream
// framings. A final unterminated line is drained and returned before EOF.
type LineScanner struct {
	scanner *bufio.Scanner
}

// NewLineScanner creates a LineScanner over the given reader. Individual
// lines up to maxStreamLineSize (1 MB) are supported.
func NewLineScanner(reader io.Reader) *LineScanner {
	return &LineScanner{scanner: newLineScanner(reader)}
}

// Next returns the next non-blank line with surrounding whitespace trimmed.
// Returns io.EOF when no more lines are available.
func (lineScanner *LineScanner) Next() (string, error) {
	for lineScanner.scanner.Scan() {
		line := strings.TrimSpace(lineScanner.scanner.Text())
		if line == "" {
			continue
		}
		return line, nil
	}

	if err := lineScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("line scanner error: %w", err)
	}

	return "", io.EOF
}
