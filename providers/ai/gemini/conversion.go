package gemini

import (
	"strings"

	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
)

// requestToGemini converts an ai.ChatRequest to a Gemini generateContentRequest.
func requestToGemini(request ai.ChatRequest) generateContentRequest {
	return generateContentRequest{
		Contents: buildContents(request.Messages),
		GenerationConfig: &generationConfig{
			Temperature:     utils.Ptr(request.Temperature),
			MaxOutputTokens: request.MaxTokens,
		},
	}
}

// buildContents converts the generic message history to Gemini content slices.
// Role mapping: user -> user, assistant -> model. Gemini has no system role in
// contents, so system messages are folded in as user-role contents to keep
// their position in the history.
func buildContents(messages []ai.Message) []content {
	contents := make([]content, 0, len(messages))

	for _, message := range messages {
		role := "user"
		if message.Role == ai.RoleAssistant {
			role = "model"
		}

		contents = append(contents, content{
			Role:  role,
			Parts: []part{{Text: message.Content}},
		})
	}

	return contents
}

// geminiToGeneric converts a generateContentResponse to the generic result.
// Extraction is defensive: missing candidates, content, or parts degrade to
// empty content rather than failing the call.
func geminiToGeneric(resp generateContentResponse) *ai.ChatResult {
	result := &ai.ChatResult{
		Model:    resp.ModelVersion,
		Provider: ai.ProviderGemini,
	}

	result.Content = candidateText(resp)

	if resp.UsageMetadata != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	return result
}

// candidateText extracts the text of the first candidate, joining multiple
// parts. Every access has an explicit default: absent fields yield "".
func candidateText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var textParts []string
	for _, candidatePart := range candidate.Content.Parts {
		if candidatePart.Text != "" {
			textParts = append(textParts, candidatePart.Text)
		}
	}
	return strings.Join(textParts, "")
}
