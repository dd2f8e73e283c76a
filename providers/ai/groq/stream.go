package groq

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

// StreamMessage implements ai.StreamProvider for the Groq chat completions
// endpoint. It sends a streaming request with stream=true and returns a
// ChatStream that yields incremental text deltas as SSE events arrive.
//
// Records that fail to parse as JSON are silently skipped: keep-alive pings
// and framing artifacts must not terminate the stream. The [DONE] sentinel is
// consumed by the SSE scanner and ends the stream normally.
func (p *GroqProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}
	request.Model = model

	if observer != nil {
		observer.Debug("Groq provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderGroq)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, &ai.ConfigError{Reason: "GROQ_API_KEY is not set"}
	}

	chatRequest := requestToChatCompletion(request, true)

	// Send the streaming request — body is left open for SSE reading
	streamURL := p.baseURL + chatCompletionsEndpoint
	httpResponse, err := utils.DoPostStream(ctx, p.client, streamURL, p.apiKey, chatRequest)
	if err != nil {
		if observer != nil {
			observer.Debug("Streaming HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		// Ensure the response body is closed on every exit path
		defer utils.CloseWithLog(httpResponse.Body)

		skippedRecords := 0

		for {
			// Cancellation aborts the in-flight read rather than hanging
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, &ai.TransportError{Err: ctx.Err()})
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				// Stream finished normally
				if observer != nil && skippedRecords > 0 {
					observer.Debug("Groq stream finished with skipped records",
						observability.Int(observability.AttrStreamRecordsSkipped, skippedRecords),
					)
				}
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, &ai.TransportError{Err: sseErr})
				return
			}

			var chunk chatCompletionStreamChunk
			if parseErr := json.Unmarshal([]byte(payload), &chunk); parseErr != nil {
				// Malformed record: skip, never fatal
				skippedRecords++
				continue
			}

			for _, event := range chunkToStreamEvents(chunk) {
				if !yield(event, nil) {
					return // Caller stopped iterating
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToStreamEvents converts one streaming chunk into zero or more events.
// Empty deltas (role-only chunks, usage chunks) produce no content event.
func chunkToStreamEvents(chunk chatCompletionStreamChunk) []ai.StreamEvent {
	var events []ai.StreamEvent

	for _, choice := range chunk.Choices {
		if choice.Delta.Content != nil && *choice.Delta.Content != "" {
			events = append(events, ai.StreamEvent{
				Type:    ai.StreamEventContent,
				Content: *choice.Delta.Content,
			})
		}

		if choice.FinishReason != nil && *choice.FinishReason != "" {
			events = append(events, ai.StreamEvent{
				Type:         ai.StreamEventDone,
				FinishReason: *choice.FinishReason,
			})
		}
	}

	return events
}
