package ai

import (
	"context"
	"errors"
	"fmt"
)

// ConfigError reports an invalid client or provider configuration, detected
// before any network call is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("chat config: %s", e.Reason)
}

// ProviderError reports a non-2xx HTTP response from a provider. The raw
// response body is preserved so callers can see the provider's own error
// payload. The call that produced it is terminal; no retry is attempted.
type ProviderError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider error: %s", e.Status)
	}
	return fmt.Sprintf("provider error: %s: %s", e.Status, e.Body)
}

// TransportError reports a network-level failure: connection errors, read
// failures mid-stream, and caller-triggered cancellation. Cancellation is
// distinguishable via Canceled so callers can tell a user abort from a
// genuine fault.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Canceled reports whether the failure was caused by context cancellation
// rather than a genuine network fault.
func (e *TransportError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// AsProviderError unwraps err as a *ProviderError if possible.
func AsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr, true
	}
	return nil, false
}

// AsTransportError unwraps err as a *TransportError if possible.
func AsTransportError(err error) (*TransportError, bool) {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr, true
	}
	return nil, false
}

// IsCanceled reports whether err represents a caller-triggered cancellation,
// either directly or wrapped in a TransportError.
func IsCanceled(err error) bool {
	if transportErr, ok := AsTransportError(err); ok {
		return transportErr.Canceled()
	}
	return errors.Is(err, context.Canceled)
}
