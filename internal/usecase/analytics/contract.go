package analytics

import (
	"context"

	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
)

// Repository persists analytics records.
type Repository interface {
	SaveSession(ctx context.Context, s *domanalytics.SearchSession) error
	SaveClick(ctx context.Context, c *domanalytics.ProductClick) error
}
