package intent

import (
	"context"

	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
)

// Provider turns a free-text query into a structured intent.
type Provider interface {
	ParseIntent(ctx context.Context, query string) (domintent.Intent, error)
}
