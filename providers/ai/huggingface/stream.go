package huggingface

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gpniroj-png/chatbot-agent/internal/utils"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

// StreamMessage implements ai.StreamProvider for the inference API. The
// streaming body carries one token event per line; the text of each token is
// emitted as a content delta. Special tokens (BOS/EOS markers) carry no user
// text and are not emitted.
//
// Lines that fail to parse as JSON are silently skipped, never fatal.
func (p *HuggingFaceProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	observer := observability.ObserverFromContext(ctx)

	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	if observer != nil {
		observer.Debug("HuggingFace provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, string(ai.ProviderHuggingFace)),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		)
	}

	if p.apiKey == "" {
		return nil, &ai.ConfigError{Reason: "HF_API_KEY is not set"}
	}

	hfRequest := requestToTextGeneration(request, true)

	httpResponse, err := utils.DoPostStream(ctx, p.client, p.baseURL+"/"+model, p.apiKey, hfRequest)
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
					observer.Debug("HuggingFace stream finished with skipped records",
						observability.Int(observability.AttrStreamRecordsSkipped, skippedRecords),
					)
				}
				return
			}
			if scanErr != nil {
				yield(ai.StreamEvent{}, &ai.TransportError{Err: scanErr})
				return
			}

			var event tokenEvent
			if parseErr := json.Unmarshal([]byte(line), &event); parseErr != nil {
				// Malformed record: skip, never fatal
				skippedRecords++
				continue
			}

			if event.Token != nil && !event.Token.Special && event.Token.Text != "" {
				if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: event.Token.Text}, nil) {
					return // Caller stopped iterating
				}
			}

			// A populated generated_text marks the final event of the stream
			if event.GeneratedText != nil {
				if !yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: "stop"}, nil) {
					return
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}
