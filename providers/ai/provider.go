package ai

import (
	"context"
	"net/http"
)

// StreamProvider extends Provider with incremental streaming support. All
// built-in providers implement it; the facade requires it at construction.
type StreamProvider interface {
	Provider
	// StreamMessage sends a chat request and returns a ChatStream that yields
	// incremental text deltas as they arrive from the API. Pre-stream errors
	// (auth, bad request, network) are returned as a normal error. Mid-stream
	// errors are yielded through the iterator.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}

// Provider is the core interface that every hosted-provider implementation
// must satisfy. It covers the full lifecycle of a single request:
// authentication, endpoint selection, request translation, and response
// interpretation. Use [StreamProvider] in addition for streaming.
type Provider interface {
	// Name returns the stable identifier of this provider.
	Name() ProviderName

	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResult, error)

	// WithAPIKey sets the credential used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
