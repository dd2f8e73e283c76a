// Package huggingface implements the ai.Provider and ai.StreamProvider
// interfaces for the Hugging Face Inference API's text-generation task.
// The task has no multi-turn chat schema: the conversation history is
// flattened into a single "{role}: {content}" prompt, and streaming
// responses arrive as one token event per line.
package huggingface
