package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CatalogStore reads products, categories and the category-aware search function.
type CatalogStore interface {
	SearchProducts(ctx context.Context, f *ProductFilter) ([]ProductRow, error)
	CountProducts(ctx context.Context, f *ProductFilter) (int, error)
	CategoryIDs(ctx context.Context, names []string) ([]uuid.UUID, error)
	ProductIDsByCategories(ctx context.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error)
	SearchWithCategories(ctx context.Context, p *CategorySearchParams) ([]ProductRow, error)
	SupportsCategorySearch(ctx context.Context) bool
}

// AnalyticsStore appends search sessions and product clicks.
type AnalyticsStore interface {
	InsertSearchSession(ctx context.Context, r *SearchSessionRow) error
	InsertProductClick(ctx context.Context, r *ProductClickRow) error
}

// ProductFilter selects products from the catalog.
// A nil ProductIDs means unrestricted; an empty non-nil slice matches nothing.
type ProductFilter struct {
	// SearchQuery filters by full-text match and orders by rank.
	SearchQuery string
	ProductIDs  []uuid.UUID
	PriceMin    *float64
	PriceMax    *float64
	Limit       int
	Offset      int
}

// CategorySearchParams are the arguments of the category-aware search function.
type CategorySearchParams struct {
	// SearchQuery is only a ranking hint; nil ranks by recency.
	SearchQuery   *string
	CategoryNames []string
	PriceMin      *float64
	PriceMax      *float64
	Limit         int
	Offset        int
}

// ProductRow is a products table row.
type ProductRow struct {
	ID               uuid.UUID
	StoreID          uuid.UUID
	Title            string
	Description      string
	PriceOriginal    float64
	CurrencyOriginal string
	PriceUSD         *float64
	PriceUYU         *float64
	OriginalURL      string
	Location         *string
	Tags             []string
	ImageURL         *string
	UpdatedAt        time.Time
	CreatedAt        time.Time
}

// SearchSessionRow is a search_sessions table row.
type SearchSessionRow struct {
	ID           uuid.UUID
	Query        string
	AIJSON       json.RawMessage
	Keywords     []string
	Categories   []string
	ResultsCount int
	CreatedAt    time.Time
}

// ProductClickRow is a product_clicks table row.
type ProductClickRow struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	ProductID uuid.UUID
	StoreID   uuid.UUID
	UserAgent *string
	Referrer  *string
	CreatedAt time.Time
}
