package groq

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

const (
	defaultBaseURL          = "https://api.groq.com/openai/v1"
	chatCompletionsEndpoint = "/chat/completions"

	// DefaultModel is used when the caller does not specify a model.
	DefaultModel = "llama-3.3-70b-versatile"
)

// GroqProvider implements the ai.Provider interface for the Groq API, which
// follows the OpenAI chat completions wire format.
type GroqProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Groq provider instance with default values from environment.
// Environment variables:
//   - GROQ_API_KEY: API key for authentication
//   - GROQ_API_BASE_URL: Base URL for API (optional, defaults to Groq's API)
func New() *GroqProvider {
	apiKey := os.Getenv("GROQ_API_KEY")
	baseURL := os.Getenv("GROQ_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GroqProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name returns the provider identifier.
func (p *GroqProvider) Name() ai.ProviderName {
	return ai.ProviderGroq
}

// WithAPIKey sets the API key for the provider.
func (p *GroqProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *GroqProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *GroqProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements the ai.Provider interface.
// It sends a chat completion request to the Groq API and returns the response.
func (p *GroqProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResult, error) {
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}
	request.Model = model

	if observer != nil {
		observer.Debug("Groq provider preparing request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderGroq)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, &ai.ConfigError{Reason: "GROQ_API_KEY is not set"}
	}

	chatRequest := requestToChatCompletion(request, false)

	httpResponse, resp, err := utils.DoPostSync[chatCompletionResponse](
		ctx,
		p.client,
		p.baseURL+chatCompletionsEndpoint,
		p.apiKey,
		chatRequest,
	)
	if err != nil {
		if observer != nil {
			observer.Debug("HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("empty response from Groq API: %s", httpResponse.Status)
	}

	result := chatCompletionToGeneric(*resp)
	if result.Model == "" {
		result.Model = model
	}

	return result, nil
}
