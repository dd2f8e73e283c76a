package huggingface

import (
	"fmt"
	"strings"

	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
)

// requestToTextGeneration converts an ai.ChatRequest to the inference API
// wire request. The text-generation task has no native multi-turn schema, so
// the whole history is flattened into a single prompt string; this transform
// is lossy on purpose.
func requestToTextGeneration(request ai.ChatRequest, stream bool) textGenerationRequest {
	return textGenerationRequest{
		Inputs: flattenMessages(request.Messages),
		Parameters: &textGenerationParameters{
			Temperature:    utils.Ptr(request.Temperature),
			MaxNewTokens:   request.MaxTokens,
			ReturnFullText: utils.Ptr(false),
		},
		Options: &textGenerationOptions{WaitForModel: true},
		Stream:  stream,
	}
}

// flattenMessages concatenates the history into "{role}: {content}" lines
// joined by newlines, discarding structured roles entirely.
func flattenMessages(messages []ai.Message) string {
	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", message.Role, message.Content))
	}
	return strings.Join(lines, "\n")
}

// textGenerationToGeneric converts an inference API response to the generic
// result. The API reports no token usage for this task, so Usage stays nil.
// An empty result array degrades to empty content rather than failing.
func textGenerationToGeneric(resp []textGenerationResponse) *ai.ChatResult {
	result := &ai.ChatResult{
		Provider: ai.ProviderHuggingFace,
	}

	if len(resp) > 0 {
		result.Content = resp[0].GeneratedText
	}

	return result
}
