package huggingface

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
	defaultBaseURL = "https://api-inference.huggingface.co/models"

	// DefaultModel is used when the caller does not specify a model.
	DefaultModel = "mistralai/Mistral-7B-Instruct-v0.2"
)

// HuggingFaceProvider implements the ai.Provider interface for the Hugging
// Face Inference API (text-generation task).
type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new Hugging Face provider instance with default values from
// environment. Environment variables:
//   - HF_API_KEY: API key for authentication
//   - HF_API_BASE_URL: Base URL for API (optional, defaults to the hosted
//     inference endpoint)
func New() *HuggingFaceProvider {
	apiKey := os.Getenv("HF_API_KEY")
	baseURL := os.Getenv("HF_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &HuggingFaceProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// Name returns the provider identifier.
func (p *HuggingFaceProvider) Name() ai.ProviderName {
	return ai.ProviderHuggingFace
}

// WithAPIKey sets the API key for the provider.
func (p *HuggingFaceProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *HuggingFaceProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *HuggingFaceProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements the ai.Provider interface.
// It sends a text-generation request to the inference API and returns the
// response.
func (p *HuggingFaceProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResult, error) {
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	if observer != nil {
		observer.Debug("HuggingFace provider preparing request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderHuggingFace)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, &ai.ConfigError{Reason: "HF_API_KEY is not set"}
	}

	hfRequest := requestToTextGeneration(request, false)

	// The inference API returns a JSON array of generation results
	httpResponse, resp, err := utils.DoPostSync[[]textGenerationResponse](
		ctx,
		p.client,
		p.baseURL+"/"+model,
		p.apiKey,
		hfRequest,
	)
	if err != nil {
		if observer != nil {
			observer.Debug("HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("empty response from HuggingFace API: %s", httpResponse.Status)
	}

	result := textGenerationToGeneric(*resp)
	result.Model = model

	return result, nil
}
