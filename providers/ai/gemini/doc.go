// Package gemini implements the ai.Provider and ai.StreamProvider interfaces
// for Google's Gemini API. Gemini differs from the OpenAI-compatible family
// on every axis that matters: the credential is a key query parameter rather
// than a bearer header, the assistant role is remapped to "model", message
// text is wrapped in a parts array, and streaming responses arrive as
// line-delimited JSON objects rather than event-prefixed SSE records.
package gemini
