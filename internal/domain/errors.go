package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals an empty or oversized search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnknownProvider signals an intent provider id outside the supported set.
	ErrUnknownProvider = errors.New("unknown intent provider")
	// ErrMissingCredentials signals a hosted provider configured without an API key.
	ErrMissingCredentials = errors.New("missing provider credentials")

	// ErrMalformedIntent signals a provider response that is not parseable JSON.
	ErrMalformedIntent = errors.New("malformed intent payload")
	// ErrInvalidIntent signals a parseable payload that does not match the intent shape.
	ErrInvalidIntent = errors.New("invalid intent payload")
	// ErrIntentProviderError signals a hosted intent provider failure.
	ErrIntentProviderError = errors.New("intent provider error")

	// ErrCategorySearchUnavailable signals that the store lacks the aggregate category search.
	// It only drives the retrieval fallback and is never returned to callers.
	ErrCategorySearchUnavailable = errors.New("category search unavailable")
)
