package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/kailas-cloud/regalo/internal/db"
)

// InsertSearchSession appends a search session.
func (s *Store) InsertSearchSession(ctx context.Context, r *db.SearchSessionRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_sessions (id, query, ai_json, keywords, categories, results_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Query, []byte(r.AIJSON), pq.Array(r.Keywords), pq.Array(r.Categories), r.ResultsCount, r.CreatedAt)
	if err != nil {
		return &db.Error{Op: db.OpInsertSearchSession, Err: err}
	}
	return nil
}

// InsertProductClick appends a product click.
func (s *Store) InsertProductClick(ctx context.Context, r *db.ProductClickRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product_clicks (id, session_id, product_id, store_id, user_agent, referrer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.SessionID, r.ProductID, r.StoreID, r.UserAgent, r.Referrer, r.CreatedAt)
	if err != nil {
		return &db.Error{Op: db.OpInsertProductClick, Err: err}
	}
	return nil
}
