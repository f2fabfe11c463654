package regalo

import "github.com/kailas-cloud/regalo/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrUnknownProvider     = domain.ErrUnknownProvider
	ErrMissingCredentials  = domain.ErrMissingCredentials
	ErrIntentProviderError = domain.ErrIntentProviderError
)
