package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNoCredentials indicates the provider requires an API key and none was configured.
// Surfaced at client construction time, never mid-review.
var ErrNoCredentials = errors.New("ai credentials missing")
