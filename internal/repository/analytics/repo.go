package analytics

import (
	"context"

	"github.com/kailas-cloud/regalo/internal/db"
	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
)

// store is the consumer interface for analytics writes (ISP).
type store interface {
	InsertSearchSession(ctx context.Context, r *db.SearchSessionRow) error
	InsertProductClick(ctx context.Context, r *db.ProductClickRow) error
}

// Repo implements usecase/analytics.Repository.
type Repo struct {
	store store
}

// New creates an analytics repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SaveSession persists a search session.
func (r *Repo) SaveSession(ctx context.Context, s *domanalytics.SearchSession) error {
	return r.store.InsertSearchSession(ctx, &db.SearchSessionRow{
		ID:           s.ID,
		Query:        s.Query,
		AIJSON:       s.Intent,
		Keywords:     s.Keywords,
		Categories:   s.Categories,
		ResultsCount: s.ResultsCount,
		CreatedAt:    s.CreatedAt,
	})
}

// SaveClick persists a product click.
func (r *Repo) SaveClick(ctx context.Context, c *domanalytics.ProductClick) error {
	return r.store.InsertProductClick(ctx, &db.ProductClickRow{
		ID:        c.ID,
		SessionID: c.SessionID,
		ProductID: c.ProductID,
		StoreID:   c.StoreID,
		UserAgent: c.UserAgent,
		Referrer:  c.Referrer,
		CreatedAt: c.CreatedAt,
	})
}
