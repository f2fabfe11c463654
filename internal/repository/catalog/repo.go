package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/db"
	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
	"github.com/kailas-cloud/regalo/internal/metrics"
)

// Retrieval paths, used as metric labels.
const (
	pathFullText = "fulltext"
	pathRPC      = "rpc"
	pathFallback = "fallback"
	pathEmpty    = "empty"
)

// store is the consumer interface for catalog reads (ISP).
type store interface {
	SearchProducts(ctx context.Context, f *db.ProductFilter) ([]db.ProductRow, error)
	CountProducts(ctx context.Context, f *db.ProductFilter) (int, error)
	CategoryIDs(ctx context.Context, names []string) ([]uuid.UUID, error)
	ProductIDsByCategories(ctx context.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error)
	SearchWithCategories(ctx context.Context, p *db.CategorySearchParams) ([]db.ProductRow, error)
	SupportsCategorySearch(ctx context.Context) bool
}

// Repo implements usecase/search.Retriever.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a catalog repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// Retrieve executes a catalog query.
// Without categories it runs a full-text search. With categories it uses the aggregate
// search function when installed and falls back to resolving category membership by hand
// when the function is missing or fails.
func (r *Repo) Retrieve(ctx context.Context, q domcat.Query) (domcat.Result, error) {
	start := time.Now()

	var (
		res  domcat.Result
		path string
		err  error
	)
	switch {
	case !q.HasCategories():
		res, path, err = r.fullText(ctx, q)
	case r.store.SupportsCategorySearch(ctx):
		res, path, err = r.categorySearch(ctx, q)
	default:
		res, path, err = r.categoryFallback(ctx, q)
	}
	if err != nil {
		return domcat.Result{}, err
	}

	metrics.RetrievalTotal.WithLabelValues(path).Inc()
	metrics.RetrievalDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	return res, nil
}

func (r *Repo) fullText(ctx context.Context, q domcat.Query) (domcat.Result, string, error) {
	pr := q.PriceRange()
	f := &db.ProductFilter{
		SearchQuery: strings.Join(q.Keywords(), " "),
		PriceMin:    pr.Min,
		PriceMax:    pr.Max,
		Limit:       q.Limit(),
		Offset:      q.Offset(),
	}
	return r.page(ctx, q, f, pathFullText)
}

func (r *Repo) categorySearch(ctx context.Context, q domcat.Query) (domcat.Result, string, error) {
	pr := q.PriceRange()
	params := &db.CategorySearchParams{
		CategoryNames: q.Categories(),
		PriceMin:      pr.Min,
		PriceMax:      pr.Max,
		Limit:         q.Limit(),
		Offset:        q.Offset(),
	}
	if kw := q.Keywords(); len(kw) > 0 {
		hint := strings.Join(kw, " ")
		params.SearchQuery = &hint
	}

	rows, err := r.store.SearchWithCategories(ctx, params)
	if err != nil {
		r.logger.Warn("Category search failed, using fallback",
			zap.Strings("categories", params.CategoryNames),
			zap.Error(err),
		)
		return r.categoryFallback(ctx, q)
	}

	productIDs, err := r.categoryProductIDs(ctx, q.Categories())
	if err != nil {
		return domcat.Result{}, "", err
	}
	if len(productIDs) == 0 {
		return domcat.EmptyResult(q), pathEmpty, nil
	}

	total, err := r.store.CountProducts(ctx, &db.ProductFilter{
		ProductIDs: productIDs,
		PriceMin:   pr.Min,
		PriceMax:   pr.Max,
	})
	if err != nil {
		return domcat.Result{}, "", fmt.Errorf("count category products: %w", err)
	}

	return domcat.Result{
		Products: rowsToProducts(rows),
		Total:    total,
		Limit:    q.Limit(),
		Offset:   q.Offset(),
	}, pathRPC, nil
}

func (r *Repo) categoryFallback(ctx context.Context, q domcat.Query) (domcat.Result, string, error) {
	productIDs, err := r.categoryProductIDs(ctx, q.Categories())
	if err != nil {
		return domcat.Result{}, "", err
	}
	if len(productIDs) == 0 {
		return domcat.EmptyResult(q), pathEmpty, nil
	}

	pr := q.PriceRange()
	f := &db.ProductFilter{
		ProductIDs: productIDs,
		PriceMin:   pr.Min,
		PriceMax:   pr.Max,
		Limit:      q.Limit(),
		Offset:     q.Offset(),
	}
	return r.page(ctx, q, f, pathFallback)
}

// categoryProductIDs resolves category names to the ids of their products.
// Unknown names are ignored; a nil result means nothing matched.
func (r *Repo) categoryProductIDs(ctx context.Context, names []string) ([]uuid.UUID, error) {
	categoryIDs, err := r.store.CategoryIDs(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	productIDs, err := r.store.ProductIDsByCategories(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve category products: %w", err)
	}
	return productIDs, nil
}

// page runs the filtered query and its exact count.
func (r *Repo) page(ctx context.Context, q domcat.Query, f *db.ProductFilter, path string) (domcat.Result, string, error) {
	rows, err := r.store.SearchProducts(ctx, f)
	if err != nil {
		return domcat.Result{}, "", fmt.Errorf("search products: %w", err)
	}
	total, err := r.store.CountProducts(ctx, f)
	if err != nil {
		return domcat.Result{}, "", fmt.Errorf("count products: %w", err)
	}
	return domcat.Result{
		Products: rowsToProducts(rows),
		Total:    total,
		Limit:    q.Limit(),
		Offset:   q.Offset(),
	}, path, nil
}
