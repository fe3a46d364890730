package llm

import "errors"

// Classified completion failures. Providers wrap these so callers can branch
// on the failure class without inspecting provider-specific payloads.
var (
	// ErrAuth means the provider rejected our credentials (401/403).
	ErrAuth = errors.New("llm: authentication failed")

	// ErrQuota means the provider refused the call for rate or quota reasons (429).
	ErrQuota = errors.New("llm: quota exceeded")

	// ErrNetwork covers transport-level failures: DNS, timeouts, resets.
	ErrNetwork = errors.New("llm: network error")

	// ErrEmptyResponse means the provider answered 200 with no usable text.
	// An empty body is a failure, never an empty-string success.
	ErrEmptyResponse = errors.New("llm: empty response")
)
