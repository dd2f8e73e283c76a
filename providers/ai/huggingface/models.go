package huggingface

// Wire types for the Hugging Face Inference API text-generation task. Field
// names are a hard compatibility boundary and must match the documented API
// exactly.

type textGenerationRequest struct {
	Inputs     string                    `json:"inputs"`
	Parameters *textGenerationParameters `json:"parameters,omitempty"`
	Options    *textGenerationOptions    `json:"options,omitempty"`
	Stream     bool                      `json:"stream,omitempty"`
}

type textGenerationParameters struct {
	Temperature    *float32 `json:"temperature,omitempty"`
	MaxNewTokens   int      `json:"max_new_tokens,omitempty"`
	ReturnFullText *bool    `json:"return_full_text,omitempty"`
}

type textGenerationOptions struct {
	WaitForModel bool `json:"wait_for_model,omitempty"`
}

type textGenerationResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Streaming record types (text-generation-inference token events). One JSON
// object per line; GeneratedText is only populated on the final event.

type tokenEvent struct {
	Token         *tokenPayload `json:"token,omitempty"`
	GeneratedText *string       `json:"generated_text,omitempty"`
}

type tokenPayload struct {
	ID      int     `json:"id"`
	Text    string  `json:"text"`
	Logprob float64 `json:"logprob,omitempty"`
	Special bool    `json:"special"`
}
