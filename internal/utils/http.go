package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

// HeaderOption is an extra request header applied after the defaults, so it
// can override them (including Authorization) when a provider needs to.
type HeaderOption struct {
	Key   string
	Value string
}

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// DoPostSync performs a buffered HTTP POST with a JSON body and parses the
// response into OutputStruct.
//
// Error handling strategy:
//   - Network failures and context cancellation surface as *ai.TransportError
//   - Non-2xx responses surface as *ai.ProviderError carrying status and body
//   - A body that fails strict JSON unmarshaling is passed through jsonrepair
//     once before the parse error is reported; provider error payloads are
//     frequently sloppy JSON and the repair pass recovers most of them
//
// The response body is always closed before returning; close errors are
// logged, never propagated over the primary error.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	observer := observability.ObserverFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if observer != nil {
			observer.Debug("HTTP request failed",
				observability.String(observability.AttrHTTPMethod, http.MethodPost),
				observability.String(observability.AttrHTTPURL, url),
				observability.Duration("http.request.duration", requestDuration),
				observability.Error(err),
			)
		}
		return res, nil, &ai.TransportError{Err: err}
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, &ai.TransportError{Err: fmt.Errorf("error reading response body: %w", err)}
	}

	if observer != nil {
		observer.Debug("HTTP response received",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &ai.ProviderError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       string(respBody),
		}
	}

	resStruct, err := unmarshalLenient[OutputStruct](respBody)
	if err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateStringDefault(string(respBody)))
	}

	return res, resStruct, nil
}

// unmarshalLenient parses data into OutputStruct, retrying once through
// jsonrepair when strict parsing fails.
func unmarshalLenient[OutputStruct any](data []byte) (*OutputStruct, error) {
	var resStruct OutputStruct
	if err := json.Unmarshal(data, &resStruct); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return nil, fmt.Errorf("unmarshal failed and JSON repair failed: unmarshal error: %w, repair error: %v", err, repairErr)
		}
		if err = json.Unmarshal([]byte(repaired), &resStruct); err != nil {
			return nil, fmt.Errorf("unmarshal of repaired JSON failed: %w", err)
		}
	}
	return &resStruct, nil
}

// CloseWithLog closes the given closer and logs any close error via slog
// instead of returning it. Intended for defer on response bodies where the
// primary error must not be overridden.
func CloseWithLog(closer io.Closer) {
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
