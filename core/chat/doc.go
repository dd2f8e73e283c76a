// Package chat provides the client facade over the provider adapters: one
// construction call fixing provider and credential, buffered Chat and
// sink-based ChatStream dispatch, and read/update access to the generation
// configuration.
package chat
