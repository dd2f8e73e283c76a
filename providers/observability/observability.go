package observability

import "time"

// Observer provides structured logging and tracing for provider calls.
// A nil Observer is valid everywhere and means "observe nothing"; the
// library stays silent unless one is installed in the context.
type Observer interface {
	Logger
	Tracer
}

// Tracer provides request-scoped tracing.
type Tracer interface {
	// StartSpan starts a new span covering one logical operation.
	StartSpan(name string, attrs ...Attribute) Span
}

// Span represents a single unit of work (one chat or stream call).
type Span interface {
	// End completes the span.
	End()
	// SetAttributes adds attributes to the span.
	SetAttributes(attrs ...Attribute)
	// RecordError records an error on the span.
	RecordError(err error)
	// AddEvent adds a point-in-time event to the span.
	AddEvent(name string, attrs ...Attribute)
}

// Logger provides leveled structured logging.
type Logger interface {
	Debug(msg string, attrs ...Attribute)
	Info(msg string, attrs ...Attribute)
	Warn(msg string, attrs ...Attribute)
	Error(msg string, attrs ...Attribute)
}

// --- ATTRIBUTES (Key-Value pairs) ---

// Attribute represents a key-value pair for metadata
type Attribute struct {
	Key   string
	Value interface{}
}

// String creates a string attribute
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute. A nil error yields an empty value.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: ""}
	}
	return Attribute{Key: "error", Value: err.Error()}
}

// --- SEMANTIC ATTRIBUTE KEYS ---

// Common attribute keys used across providers, loosely following the
// OpenTelemetry GenAI semantic conventions.
const (
	AttrLLMProvider          = "llm.provider"
	AttrLLMEndpoint          = "llm.endpoint"
	AttrLLMModel             = "llm.model"
	AttrLLMStreaming         = "llm.streaming"
	AttrLLMTokensTotal       = "llm.tokens.total"
	AttrRequestID            = "request.id"
	AttrRequestMessagesCount = "request.messages.count"
	AttrHTTPMethod           = "http.method"
	AttrHTTPURL              = "http.url"
	AttrHTTPStatusCode       = "http.status_code"
	AttrStreamRecordsSkipped = "stream.records.skipped"
)
