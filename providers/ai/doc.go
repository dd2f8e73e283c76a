// Package ai defines the provider-neutral chat types shared by every
// provider implementation: messages, requests, results, streaming events,
// and the error taxonomy.
//
// The package is intentionally free of HTTP concerns. Provider packages
// (groq, gemini, huggingface) translate these types to and from their own
// wire shapes; the core/chat facade is the only intended consumer of the
// Provider interfaces.
package ai
