package chat

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/ai/gemini"
	"github.com/gpniroj-png/chatbot-agent/providers/ai/groq"
	"github.com/gpniroj-png/chatbot-agent/providers/ai/huggingface"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

// Generation parameter defaults applied at construction when the caller
// leaves them unset.
const (
	DefaultTemperature float32 = 0.7
	DefaultMaxTokens           = 2048
)

// Config is the construction-time configuration of a Client. Provider and
// APIKey are fixed for the lifetime of the client: endpoint shape, default
// model, and auth placement all change together, so switching providers
// requires a new client instance.
type Config struct {
	Provider    ai.ProviderName
	APIKey      string
	Model       string  // empty selects the provider default
	Temperature float32 // zero selects DefaultTemperature
	MaxTokens   int     // zero selects DefaultMaxTokens
}

// ConfigView is the caller-visible configuration snapshot. The credential is
// deliberately omitted.
type ConfigView struct {
	Provider    ai.ProviderName `json:"provider"`
	Model       string          `json:"model"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

// ConfigUpdate is a partial configuration update. Nil fields keep their prior
// value, as does a Model pointing at the empty string: there is no way to
// unset the model, only to replace it. Provider and credential are not
// updatable.
type ConfigUpdate struct {
	Model       *string
	Temperature *float32
	MaxTokens   *int
}

// StreamHandler carries the caller-supplied sinks for one streaming call.
// Exactly one terminal callback fires per call: either OnComplete or OnError,
// never both and never more than once. Text already delivered via OnChunk
// before an error remains valid as a truncated result. Nil sinks are allowed
// and skipped.
type StreamHandler struct {
	OnChunk    func(text string)
	OnError    func(err error)
	OnComplete func()
}

// Client is the facade over the provider adapters. It owns the generation
// configuration and dispatches buffered and streaming chat calls to the
// provider selected at construction.
//
// The configuration is the only shared mutable state; a RWMutex guards it
// against UpdateConfig racing with Chat/ChatStream. Each call snapshots the
// configuration up front, so an update never affects a call already in
// flight.
type Client struct {
	provider ai.StreamProvider
	observer observability.Observer

	mu          sync.RWMutex
	model       string
	temperature float32
	maxTokens   int
}

// Option customises client construction.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
	observer   observability.Observer
}

// WithBaseURL overrides the provider's default endpoint. Intended for tests
// and self-hosted gateways.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithObserver installs an observer that receives per-call spans and debug
// logs. Without one the client is silent.
func WithObserver(observer observability.Observer) Option {
	return func(o *options) { o.observer = observer }
}

// New creates a client for the given provider. The credential is required:
// construction fails with *ai.ConfigError before any call is attempted when
// it is empty or the provider is unknown.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &ai.ConfigError{Reason: "credential is required"}
	}
	if !cfg.Provider.Valid() {
		return nil, &ai.ConfigError{Reason: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}

	var applied options
	for _, opt := range opts {
		opt(&applied)
	}

	provider := newProvider(cfg.Provider)
	provider.WithAPIKey(cfg.APIKey)
	if applied.baseURL != "" {
		provider.WithBaseURL(applied.baseURL)
	}
	if applied.httpClient != nil {
		provider.WithHttpClient(applied.httpClient)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel(cfg.Provider)
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	if err := validateGeneration(temperature, maxTokens); err != nil {
		return nil, err
	}

	return &Client{
		provider:    provider,
		observer:    applied.observer,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// newProvider builds the adapter for a provider name. The name set is closed;
// callers reach this only after Valid() passed.
func newProvider(name ai.ProviderName) ai.StreamProvider {
	switch name {
	case ai.ProviderGemini:
		return gemini.New()
	case ai.ProviderHuggingFace:
		return huggingface.New()
	default:
		return groq.New()
	}
}

// defaultModel returns the per-provider default model identifier.
func defaultModel(name ai.ProviderName) string {
	switch name {
	case ai.ProviderGemini:
		return gemini.DefaultModel
	case ai.ProviderHuggingFace:
		return huggingface.DefaultModel
	default:
		return groq.DefaultModel
	}
}

func validateGeneration(temperature float32, maxTokens int) error {
	if temperature < 0 || temperature > 2 {
		return &ai.ConfigError{Reason: fmt.Sprintf("temperature %v out of range [0, 2]", temperature)}
	}
	if maxTokens <= 0 {
		return &ai.ConfigError{Reason: fmt.Sprintf("max tokens must be positive, got %d", maxTokens)}
	}
	return nil
}

// Config returns the current configuration. The credential is never included.
func (c *Client) Config() ConfigView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ConfigView{
		Provider:    c.provider.Name(),
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
}

// UpdateConfig applies the fields present in the update; absent fields keep
// their prior value. Values are range-checked before anything is applied, so
// a rejected update leaves the configuration untouched.
func (c *Client) UpdateConfig(update ConfigUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	temperature := c.temperature
	if update.Temperature != nil {
		temperature = *update.Temperature
	}
	maxTokens := c.maxTokens
	if update.MaxTokens != nil {
		maxTokens = *update.MaxTokens
	}
	if err := validateGeneration(temperature, maxTokens); err != nil {
		return err
	}

	if update.Model != nil && *update.Model != "" {
		c.model = *update.Model
	}
	c.temperature = temperature
	c.maxTokens = maxTokens
	return nil
}

// buildRequest snapshots the configuration into a provider-neutral request.
func (c *Client) buildRequest(messages []ai.Message) ai.ChatRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ai.ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
}

// Chat performs one buffered chat round trip over the full message history.
// A failed attempt is terminal: no retries. Non-2xx responses surface as
// *ai.ProviderError, network failures and cancellation as *ai.TransportError.
func (c *Client) Chat(ctx context.Context, messages []ai.Message) (*ai.ChatResult, error) {
	request := c.buildRequest(messages)
	requestID := uuid.NewString()

	var span observability.Span
	if c.observer != nil {
		ctx = observability.ContextWithObserver(ctx, c.observer)
		span = c.observer.StartSpan("chat.send",
			observability.String(observability.AttrRequestID, requestID),
			observability.String(observability.AttrLLMProvider, string(c.provider.Name())),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Bool(observability.AttrLLMStreaming, false),
		)
		defer span.End()
	}

	result, err := c.provider.SendMessage(ctx, request)
	if err != nil {
		if span != nil {
			span.RecordError(err)
		}
		return nil, err
	}

	if span != nil && result.Usage != nil {
		span.SetAttributes(observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens))
	}

	return result, nil
}

// ChatStream performs one streaming chat call, delivering text deltas to
// handler.OnChunk as they are decoded. The call returns when the stream has
// terminated; exactly one of OnComplete or OnError has fired by then.
// Cancelling ctx aborts the in-flight read and surfaces through OnError as a
// *ai.TransportError with Canceled() true.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, handler StreamHandler) {
	request := c.buildRequest(messages)
	requestID := uuid.NewString()

	var span observability.Span
	if c.observer != nil {
		ctx = observability.ContextWithObserver(ctx, c.observer)
		span = c.observer.StartSpan("chat.stream",
			observability.String(observability.AttrRequestID, requestID),
			observability.String(observability.AttrLLMProvider, string(c.provider.Name())),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Bool(observability.AttrLLMStreaming, true),
		)
		defer span.End()
	}

	fail := func(err error) {
		if span != nil {
			span.RecordError(err)
		}
		if handler.OnError != nil {
			handler.OnError(err)
		}
	}

	stream, err := c.provider.StreamMessage(ctx, request)
	if err != nil {
		fail(err)
		return
	}

	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			// Terminal: the iterator yields nothing after an error, and
			// OnComplete must never fire once OnError has.
			fail(iterErr)
			return
		}
		if event.Type == ai.StreamEventContent && handler.OnChunk != nil {
			handler.OnChunk(event.Content)
		}
	}

	if handler.OnComplete != nil {
		handler.OnComplete()
	}
}
