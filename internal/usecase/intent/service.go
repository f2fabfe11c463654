package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/domain"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	"github.com/kailas-cloud/regalo/internal/metrics"
)

// MaxHostedQueryLength caps the runes of a query sent to the hosted provider.
// The heuristic always sees the full query.
const MaxHostedQueryLength = 500

// Service parses queries with the configured provider and falls back to the heuristic.
type Service struct {
	primary  Provider
	fallback Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates an intent service. primary may be nil, in which case only the fallback is used.
// A zero timeout leaves the primary call bounded only by the caller's context.
func New(primary, fallback Provider, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

// Parse returns the structured intent of query. It fails only when the fallback fails too.
func (s *Service) Parse(ctx context.Context, query string) (domintent.Intent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domintent.Intent{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}

	if s.primary != nil {
		in, err := s.parsePrimary(ctx, query)
		if err == nil {
			return in, nil
		}
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.IntentFallbackTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("Intent provider failed, using heuristic",
			zap.String("reason", reason),
			zap.Error(err),
		)
	}

	in, err := s.fallback.ParseIntent(ctx, query)
	if err != nil {
		return domintent.Intent{}, fmt.Errorf("heuristic parse: %w", err)
	}
	return in, nil
}

func (s *Service) parsePrimary(ctx context.Context, query string) (domintent.Intent, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	in, err := s.primary.ParseIntent(ctx, truncate(query, MaxHostedQueryLength))
	if err != nil {
		return domintent.Intent{}, fmt.Errorf("parse intent: %w", err)
	}
	return in, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
