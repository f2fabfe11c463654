package search

import (
	"context"

	"github.com/google/uuid"

	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
)

// IntentParser turns a free-text query into a structured intent.
type IntentParser interface {
	Parse(ctx context.Context, query string) (domintent.Intent, error)
}

// Retriever executes catalog queries.
type Retriever interface {
	Retrieve(ctx context.Context, q domcat.Query) (domcat.Result, error)
}

// SessionRecorder stores executed searches for analytics.
type SessionRecorder interface {
	RecordSearch(ctx context.Context, query string, in domintent.Intent, resultsCount int) (uuid.UUID, error)
}
