package catalog

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/regalo/internal/domain/intent"
	"github.com/kailas-cloud/regalo/internal/domain/keyword"
)

// Pagination defaults for catalog queries.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query is a retrieval request derived from an intent. Immutable once built.
type Query struct {
	keywords   []string
	categories []string
	priceRange intent.Range
	limit      int
	offset     int
}

// BuildQuery maps an intent to a catalog query.
// Keywords are filtered for relevance and deduplicated; when nothing survives
// the original keywords are kept, deduplicated the same way.
func BuildQuery(in intent.Intent) Query {
	kw := dedupe(keyword.FilterRelevant(in.Keywords()))
	if len(kw) == 0 {
		kw = dedupe(in.Keywords())
	}
	return Query{
		keywords:   kw,
		categories: in.Categories(),
		priceRange: in.PriceRange(),
		limit:      DefaultLimit,
		offset:     0,
	}
}

// dedupe drops case-insensitive repeats, keeping the first occurrence in order.
func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		key := strings.ToLower(strings.TrimSpace(w))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}

// NewQuery builds a query from explicit parts. Used by tests and by callers that skip intent parsing.
func NewQuery(keywords, categories []string, priceRange intent.Range, limit, offset int) (Query, error) {
	q := Query{
		keywords:   append([]string(nil), keywords...),
		categories: append([]string(nil), categories...),
		priceRange: priceRange,
	}
	return q.WithPage(limit, offset)
}

// WithPage returns a copy with different pagination. limit=0 means the default.
func (q Query) WithPage(limit, offset int) (Query, error) {
	if limit < 0 {
		return Query{}, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		return Query{}, fmt.Errorf("offset must not be negative, got %d", offset)
	}
	q.limit = limit
	q.offset = offset
	return q, nil
}

// Keywords returns a copy of the search keywords.
func (q Query) Keywords() []string { return append([]string(nil), q.keywords...) }

// Categories returns a copy of the category names.
func (q Query) Categories() []string { return append([]string(nil), q.categories...) }

// PriceRange returns the USD price bounds.
func (q Query) PriceRange() intent.Range { return q.priceRange }

// Limit returns the page size.
func (q Query) Limit() int { return q.limit }

// Offset returns the page offset.
func (q Query) Offset() int { return q.offset }

// HasCategories reports whether the query is category-scoped.
func (q Query) HasCategories() bool { return len(q.categories) > 0 }
