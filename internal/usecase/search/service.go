package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/domain"
	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	"github.com/kailas-cloud/regalo/internal/domain/ranking"
)

// Request is a gift search with optional pagination.
type Request struct {
	Query  string
	Limit  int
	Offset int
}

// Hit is a ranked product with an optional price estimate in the display currency.
type Hit struct {
	Product  domcat.Product   `json:"product"`
	Score    float64          `json:"score"`
	Estimate *domcat.Estimate `json:"estimate,omitempty"`
}

// Response is one page of ranked search results.
type Response struct {
	Intent    domintent.Intent `json:"intent"`
	Keywords  []string         `json:"keywords"`
	Hits      []Hit            `json:"products"`
	Total     int              `json:"total"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SessionID *uuid.UUID       `json:"session_id"`
}

// Options configure price estimates.
type Options struct {
	DisplayCurrency domcat.Currency
	ExchangeRate    float64
}

// Service runs the query understanding and retrieval pipeline.
type Service struct {
	parser    IntentParser
	retriever Retriever
	sessions  SessionRecorder
	opts      Options
	logger    *zap.Logger
}

// New creates a search service. sessions may be nil to skip analytics.
func New(
	parser IntentParser, retriever Retriever, sessions SessionRecorder, opts Options, logger *zap.Logger,
) *Service {
	if opts.DisplayCurrency == "" {
		opts.DisplayCurrency = domcat.UYU
	}
	if opts.ExchangeRate <= 0 {
		opts.ExchangeRate = domcat.DefaultExchangeRateUSDUYU
	}
	return &Service{
		parser:    parser,
		retriever: retriever,
		sessions:  sessions,
		opts:      opts,
		logger:    logger,
	}
}

// Search parses the query, retrieves matching products and ranks them.
func (s *Service) Search(ctx context.Context, req Request) (Response, error) {
	in, err := s.parser.Parse(ctx, req.Query)
	if err != nil {
		return Response{}, fmt.Errorf("parse intent: %w", err)
	}

	q, err := domcat.BuildQuery(in).WithPage(req.Limit, req.Offset)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	res, err := s.Execute(ctx, q)
	if err != nil {
		return Response{}, err
	}
	res.Intent = in
	res.SessionID = s.recordSession(ctx, req.Query, in, res.Total)
	return res, nil
}

// Execute retrieves and ranks a prebuilt catalog query.
func (s *Service) Execute(ctx context.Context, q domcat.Query) (Response, error) {
	res, err := s.retriever.Retrieve(ctx, q)
	if err != nil {
		return Response{}, fmt.Errorf("retrieve: %w", err)
	}

	keywords := q.Keywords()
	scored := ranking.Rank(res.Products, keywords)
	hits := make([]Hit, len(scored))
	for i := range scored {
		hits[i] = Hit{Product: scored[i].Product, Score: scored[i].Score}
		if est, ok := domcat.EstimatePrice(&scored[i].Product, s.opts.DisplayCurrency, s.opts.ExchangeRate); ok {
			hits[i].Estimate = &est
		}
	}

	return Response{
		Keywords: keywords,
		Hits:     hits,
		Total:    res.Total,
		Limit:    res.Limit,
		Offset:   res.Offset,
	}, nil
}

func (s *Service) recordSession(ctx context.Context, query string, in domintent.Intent, total int) *uuid.UUID {
	if s.sessions == nil {
		return nil
	}
	id, err := s.sessions.RecordSearch(ctx, query, in, total)
	if err != nil {
		s.logger.Warn("Failed to record search session", zap.Error(err))
		return nil
	}
	return &id
}
