package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is used when the caller does not specify a model.
	DefaultModel = "gemini-1.5-flash"
)

// GeminiProvider implements the ai.Provider interface for Google's Gemini API.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Gemini provider instance with default values from environment.
// Environment variables:
//   - GEMINI_API_KEY: API key for authentication
//   - GEMINI_API_BASE_URL: Base URL for API (optional, defaults to Google's API)
func New() *GeminiProvider {
	apiKey := os.Getenv("GEMINI_API_KEY")
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() ai.ProviderName {
	return ai.ProviderGemini
}

// WithAPIKey sets the API key for the provider.
func (p *GeminiProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *GeminiProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// endpointURL builds the full request URL for the given model and action.
// Gemini authenticates via the key query parameter, not a header; the
// credential never leaves this method.
func (p *GeminiProvider) endpointURL(model, action string) string {
	return fmt.Sprintf("%s/models/%s:%s?key=%s", p.baseURL, model, action, url.QueryEscape(p.apiKey))
}

// SendMessage implements the ai.Provider interface.
// It sends a generateContent request to the Gemini API and returns the response.
func (p *GeminiProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResult, error) {
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	if observer != nil {
		observer.Debug("Gemini provider preparing request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderGemini)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, &ai.ConfigError{Reason: "GEMINI_API_KEY is not set"}
	}

	geminiRequest := requestToGemini(request)

	// Empty apiKey: the credential travels in the URL, never a bearer header
	httpResponse, resp, err := utils.DoPostSync[generateContentResponse](
		ctx,
		p.client,
		p.endpointURL(model, "generateContent"),
		"",
		geminiRequest,
	)
	if err != nil {
		if observer != nil {
			observer.Debug("HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("empty response from Gemini API: %s", httpResponse.Status)
	}

	result := geminiToGeneric(*resp)
	if result.Model == "" {
		result.Model = model
	}

	return result, nil
}
