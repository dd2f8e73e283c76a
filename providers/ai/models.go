package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a single chat completion request in provider-neutral
// form. The facade assembles it from the conversation history and the current
// generation configuration; each provider converts it to its own wire shape.
type ChatRequest struct {
	Model       string    `json:"model,omitempty"`       // Model name or identifier; empty means provider default
	Messages    []Message `json:"messages"`              // Full ordered conversation history
	Temperature float32   `json:"temperature,omitempty"` // Sampling temperature [0..2]
	MaxTokens   int       `json:"max_tokens,omitempty"`  // Upper bound on generated tokens
}

// Message represents a single message in a conversation. Messages are
// immutable once constructed; the ordered slice forms the conversation
// history passed to every call.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage carries token accounting as reported by the provider. It is a pure
// passthrough: absent counts stay zero and nothing is computed locally.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResult represents the completed response of a buffered chat call.
type ChatResult struct {
	Content  string       `json:"content"`
	Model    string       `json:"model"`
	Provider ProviderName `json:"provider"`
	Usage    *Usage       `json:"usage,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)

// ProviderName identifies one of the supported hosted providers. The set is
// closed: dispatch happens once at client construction, never by inspecting
// response shapes at runtime.
type ProviderName string

const (
	ProviderGroq        ProviderName = "groq"
	ProviderGemini      ProviderName = "gemini"
	ProviderHuggingFace ProviderName = "huggingface"
)

// Valid reports whether name is one of the supported providers.
func (name ProviderName) Valid() bool {
	switch name {
	case ProviderGroq, ProviderGemini, ProviderHuggingFace:
		return true
	}
	return false
}
