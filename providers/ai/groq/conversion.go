package groq

import (
	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
)

// requestToChatCompletion converts an ai.ChatRequest to the OpenAI-compatible
// chat completions wire request. Roles pass through verbatim: Groq understands
// user/assistant/system natively.
func requestToChatCompletion(request ai.ChatRequest, stream bool) chatCompletionRequest {
	messages := make([]chatMessage, 0, len(request.Messages))
	for _, message := range request.Messages {
		messages = append(messages, chatMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	return chatCompletionRequest{
		Model:       request.Model,
		Messages:    messages,
		Temperature: utils.Ptr(request.Temperature),
		MaxTokens:   request.MaxTokens,
		Stream:      stream,
	}
}

// chatCompletionToGeneric converts a chat completions response to the generic
// result. Extraction is defensive: a response with no choices or no message
// degrades to empty content rather than failing the call.
func chatCompletionToGeneric(resp chatCompletionResponse) *ai.ChatResult {
	result := &ai.ChatResult{
		Model:    resp.Model,
		Provider: ai.ProviderGroq,
	}

	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil {
		result.Content = resp.Choices[0].Message.Content
	}

	if resp.Usage != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return result
}
