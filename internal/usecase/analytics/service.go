package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/regalo/internal/domain"
	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
)

// ClickInput is a click-through reported by a client.
type ClickInput struct {
	SessionID uuid.UUID
	ProductID uuid.UUID
	StoreID   uuid.UUID
	UserAgent string
	Referrer  string
}

// Service records search sessions and product clicks.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates an analytics service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// RecordSearch stores a search session and returns its id.
func (s *Service) RecordSearch(
	ctx context.Context, query string, in domintent.Intent, resultsCount int,
) (uuid.UUID, error) {
	session, err := domanalytics.NewSearchSession(query, in, resultsCount, s.now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("build session: %w", err)
	}
	if err := s.repo.SaveSession(ctx, &session); err != nil {
		return uuid.Nil, fmt.Errorf("save session: %w", err)
	}
	return session.ID, nil
}

// RecordClick stores a product click and returns the lead it attributes to the store.
func (s *Service) RecordClick(ctx context.Context, in ClickInput) (domanalytics.LeadAttribution, error) {
	if in.SessionID == uuid.Nil || in.ProductID == uuid.Nil || in.StoreID == uuid.Nil {
		return domanalytics.LeadAttribution{},
			fmt.Errorf("%w: session_id, product_id and store_id are required", domain.ErrInvalidQuery)
	}

	click := domanalytics.ProductClick{
		ID:        uuid.New(),
		SessionID: in.SessionID,
		ProductID: in.ProductID,
		StoreID:   in.StoreID,
		UserAgent: optional(in.UserAgent),
		Referrer:  optional(in.Referrer),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveClick(ctx, &click); err != nil {
		return domanalytics.LeadAttribution{}, fmt.Errorf("save click: %w", err)
	}
	return domanalytics.AttributeLead(click), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
