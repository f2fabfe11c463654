// Package analytics holds search session and product click records.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/regalo/internal/domain/intent"
)

// SearchSession records one executed search.
type SearchSession struct {
	ID           uuid.UUID
	Query        string
	Intent       json.RawMessage
	Keywords     []string
	Categories   []string
	ResultsCount int
	CreatedAt    time.Time
}

// NewSearchSession builds a session for a parsed query.
func NewSearchSession(query string, in intent.Intent, resultsCount int, now time.Time) (SearchSession, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return SearchSession{}, err
	}
	return SearchSession{
		ID:           uuid.New(),
		Query:        query,
		Intent:       raw,
		Keywords:     in.Keywords(),
		Categories:   in.Categories(),
		ResultsCount: resultsCount,
		CreatedAt:    now,
	}, nil
}

// ProductClick records a click-through to a store.
type ProductClick struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	ProductID uuid.UUID
	StoreID   uuid.UUID
	UserAgent *string
	Referrer  *string
	CreatedAt time.Time
}

// LeadAttribution credits a store with a click.
type LeadAttribution struct {
	StoreID   uuid.UUID `json:"store_id"`
	SessionID uuid.UUID `json:"session_id"`
	ProductID uuid.UUID `json:"product_id"`
	ClickID   uuid.UUID `json:"click_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AttributeLead derives the lead attribution of a click.
func AttributeLead(c ProductClick) LeadAttribution {
	return LeadAttribution{
		StoreID:   c.StoreID,
		SessionID: c.SessionID,
		ProductID: c.ProductID,
		ClickID:   c.ID,
		Timestamp: c.CreatedAt,
	}
}

// CTR returns clicks per impression, 0 without impressions.
func CTR(clicks, impressions int) float64 {
	if impressions <= 0 {
		return 0
	}
	return float64(clicks) / float64(impressions)
}
