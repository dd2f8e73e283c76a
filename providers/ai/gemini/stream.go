package gemini

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

// StreamMessage implements ai.StreamProvider for the Gemini API using the
// streamGenerateContent endpoint, which emits one generateContentResponse
// object per line.
//
// Every non-blank line is a candidate record. Lines that are not valid JSON
// (array framing, partial lines, keep-alives) are silently skipped; this is
// what makes the line-delimited framing robust against transport artifacts.
func (p *GeminiProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	if observer != nil {
		observer.Debug("Gemini provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderGemini)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, &ai.ConfigError{Reason: "GEMINI_API_KEY is not set"}
	}

	geminiRequest := requestToGemini(request)

	// Empty apiKey: the credential travels in the URL, never a bearer header
	httpResponse, err := utils.DoPostStream(
		ctx,
		p.client,
		p.endpointURL(model, "streamGenerateContent"),
		"",
		geminiRequest,
	)
	if err != nil {
		if observer != nil {
			observer.Debug("Streaming HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	lineScanner := utils.NewLineScanner(httpResponse.Body)

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

			line, scanErr := lineScanner.Next()
			if scanErr == io.EOF {
				// Stream finished normally
				if observer != nil && skippedRecords > 0 {
					observer.Debug("Gemini stream finished with skipped records",
						observability.Int(observability.AttrStreamRecordsSkipped, skippedRecords),
					)
				}
				return
			}
			if scanErr != nil {
				yield(ai.StreamEvent{}, &ai.TransportError{Err: scanErr})
				return
			}

			var chunk generateContentResponse
			if parseErr := json.Unmarshal([]byte(line), &chunk); parseErr != nil {
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

// chunkToStreamEvents converts one streamed generateContentResponse into zero
// or more events. Each chunk carries the new text in its candidate parts;
// chunks without text (safety metadata, usage-only) produce no content event.
func chunkToStreamEvents(chunk generateContentResponse) []ai.StreamEvent {
	var events []ai.StreamEvent

	text := candidateText(chunk)
	if text != "" {
		events = append(events, ai.StreamEvent{
			Type:    ai.StreamEventContent,
			Content: text,
		})
	}

	if len(chunk.Candidates) > 0 && chunk.Candidates[0].FinishReason != "" {
		events = append(events, ai.StreamEvent{
			Type:         ai.StreamEventDone,
			FinishReason: chunk.Candidates[0].FinishReason,
		})
	}

	return events
}
