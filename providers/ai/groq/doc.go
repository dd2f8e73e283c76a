// Package groq implements the ai.Provider and ai.StreamProvider interfaces
// for the Groq API. Groq speaks the OpenAI chat completions wire format:
// bearer-token auth, verbatim user/assistant/system roles, and event-prefixed
// SSE streaming terminated by the [DONE] sentinel.
package groq
