package postgres

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kailas-cloud/regalo/internal/db"
)

// textSearchConfig is the Postgres text search configuration of products.search_text.
const textSearchConfig = "spanish"

const productColumns = `p.id, p.store_id, p.title, COALESCE(p.description, ''), p.price_original,
	p.currency_original, p.price_usd, p.price_uyu, p.original_url, p.location,
	COALESCE(p.tags, '{}'), p.image_url, p.updated_at, p.created_at`

// queryBuilder accumulates positional arguments and WHERE conditions.
type queryBuilder struct {
	where []string
	args  []any
}

// arg binds v and returns its placeholder.
func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// FullText adds a websearch-style match on search_text and returns the tsquery expression.
func (b *queryBuilder) FullText(query string) string {
	tsq := "websearch_to_tsquery('" + textSearchConfig + "', " + b.arg(query) + ")"
	b.where = append(b.where, "p.search_text @@ "+tsq)
	return tsq
}

// PriceBetween bounds price_usd. Nil bounds are skipped.
func (b *queryBuilder) PriceBetween(lo, hi *float64) *queryBuilder {
	if lo != nil {
		b.where = append(b.where, "p.price_usd >= "+b.arg(*lo))
	}
	if hi != nil {
		b.where = append(b.where, "p.price_usd <= "+b.arg(*hi))
	}
	return b
}

// IDIn restricts to the given product ids.
func (b *queryBuilder) IDIn(ids []uuid.UUID) *queryBuilder {
	b.where = append(b.where, "p.id = ANY("+b.arg(pq.Array(uuidStrings(ids)))+"::uuid[])")
	return b
}

// Where renders the WHERE clause, empty when there are no conditions.
func (b *queryBuilder) Where() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *queryBuilder) apply(f *db.ProductFilter) (rankExpr string) {
	if f.SearchQuery != "" {
		tsq := b.FullText(f.SearchQuery)
		rankExpr = "ts_rank(p.search_text, " + tsq + ")"
	}
	if f.ProductIDs != nil {
		b.IDIn(f.ProductIDs)
	}
	b.PriceBetween(f.PriceMin, f.PriceMax)
	return rankExpr
}

// buildSearchProducts renders the paginated product query.
// Full-text queries order by rank, then recency.
func buildSearchProducts(f *db.ProductFilter) (string, []any) {
	b := &queryBuilder{}
	rank := b.apply(f)

	var sb strings.Builder
	sb.WriteString("SELECT " + productColumns + " FROM products p")
	sb.WriteString(b.Where())
	sb.WriteString(" ORDER BY ")
	if rank != "" {
		sb.WriteString(rank + " DESC, ")
	}
	sb.WriteString("p.updated_at DESC")
	sb.WriteString(" LIMIT " + b.arg(f.Limit))
	sb.WriteString(" OFFSET " + b.arg(f.Offset))
	return sb.String(), b.args
}

// buildCountProducts renders an exact count under the same filters, ignoring pagination.
func buildCountProducts(f *db.ProductFilter) (string, []any) {
	b := &queryBuilder{}
	b.apply(f)
	return "SELECT COUNT(*) FROM products p" + b.Where(), b.args
}

// buildCategorySearch renders the call of the category-aware search function.
func buildCategorySearch(p *db.CategorySearchParams) (string, []any) {
	b := &queryBuilder{}
	var search any
	if p.SearchQuery != nil {
		search = *p.SearchQuery
	}
	var lo, hi any
	if p.PriceMin != nil {
		lo = *p.PriceMin
	}
	if p.PriceMax != nil {
		hi = *p.PriceMax
	}
	q := "SELECT " + productColumns + " FROM " + categorySearchFunction + "(" +
		b.arg(search) + ", " +
		b.arg(pq.Array(p.CategoryNames)) + ", " +
		b.arg(lo) + ", " +
		b.arg(hi) + ", " +
		b.arg(p.Limit) + ", " +
		b.arg(p.Offset) + ") AS p"
	return q, b.args
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
