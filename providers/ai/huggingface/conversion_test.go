package huggingface

import (
	"testing"

	"github.com/gpniroj-png/chatbot-agent/providers/ai"
)

// TestFlattenMessages verifies the exact prompt format: one "{role}: {content}"
// line per message, joined by newlines.
func TestFlattenMessages(t *testing.T) {
	prompt := flattenMessages([]ai.Message{
		{Role: ai.RoleSystem, Content: "be brief"},
		{Role: ai.RoleUser, Content: "hi"},
		{Role: ai.RoleAssistant, Content: "hello"},
	})

	want := "system: be brief\nuser: hi\nassistant: hello"
	if prompt != want {
		t.Errorf("expected %q, got %q", want, prompt)
	}
}

// TestFlattenMessages_Empty verifies an empty history flattens to an empty
// prompt.
func TestFlattenMessages_Empty(t *testing.T) {
	if prompt := flattenMessages(nil); prompt != "" {
		t.Errorf("expected empty prompt, got %q", prompt)
	}
}

// TestRequestToTextGeneration verifies the parameter mapping: temperature and
// max_new_tokens pass through, the echo of the prompt is disabled, and cold
// models are waited for instead of failing with 503.
func TestRequestToTextGeneration(t *testing.T) {
	wire := requestToTextGeneration(ai.ChatRequest{
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
		Temperature: 0.8,
		MaxTokens:   100,
	}, false)

	if wire.Inputs != "user: hi" {
		t.Errorf("unexpected inputs %q", wire.Inputs)
	}
	if wire.Parameters == nil {
		t.Fatal("expected parameters to be set")
	}
	if wire.Parameters.Temperature == nil || *wire.Parameters.Temperature != 0.8 {
		t.Errorf("expected temperature 0.8, got %v", wire.Parameters.Temperature)
	}
	if wire.Parameters.MaxNewTokens != 100 {
		t.Errorf("expected max_new_tokens 100, got %d", wire.Parameters.MaxNewTokens)
	}
	if wire.Parameters.ReturnFullText == nil || *wire.Parameters.ReturnFullText {
		t.Error("expected return_full_text=false")
	}
	if wire.Options == nil || !wire.Options.WaitForModel {
		t.Error("expected wait_for_model=true")
	}
	if wire.Stream {
		t.Error("stream must be false for buffered requests")
	}

	if streaming := requestToTextGeneration(ai.ChatRequest{}, true); !streaming.Stream {
		t.Error("expected stream=true for streaming requests")
	}
}

// TestTextGenerationToGeneric verifies first-result extraction and that the
// task reports no token usage.
func TestTextGenerationToGeneric(t *testing.T) {
	result := textGenerationToGeneric([]textGenerationResponse{
		{GeneratedText: "answer"},
		{GeneratedText: "ignored alternative"},
	})

	if result.Content != "answer" {
		t.Errorf("expected content 'answer', got %q", result.Content)
	}
	if result.Provider != ai.ProviderHuggingFace {
		t.Errorf("expected provider huggingface, got %q", result.Provider)
	}
	if result.Usage != nil {
		t.Error("expected nil usage for text-generation task")
	}
}

// TestTextGenerationToGeneric_EmptyArray verifies an empty result array
// degrades to empty content.
func TestTextGenerationToGeneric_EmptyArray(t *testing.T) {
	if result := textGenerationToGeneric(nil); result.Content != "" {
		t.Errorf("expected empty content, got %q", result.Content)
	}
}
