package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kailas-cloud/regalo/internal/db"
)

// categorySearchFunction is the aggregate search function installed by the catalog migrations.
const categorySearchFunction = "search_products_with_categories"

// SearchProducts returns one page of products matching the filter.
func (s *Store) SearchProducts(ctx context.Context, f *db.ProductFilter) ([]db.ProductRow, error) {
	if f.ProductIDs != nil && len(f.ProductIDs) == 0 {
		return nil, nil
	}
	query, args := buildSearchProducts(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearchProducts, Err: err}
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearchProducts, Err: err}
	}
	return products, nil
}

// CountProducts returns the exact number of products matching the filter, ignoring pagination.
func (s *Store) CountProducts(ctx context.Context, f *db.ProductFilter) (int, error) {
	if f.ProductIDs != nil && len(f.ProductIDs) == 0 {
		return 0, nil
	}
	query, args := buildCountProducts(f)
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpCountProducts, Err: err}
	}
	return n, nil
}

// CategoryIDs resolves category names to ids. Unknown names are ignored.
func (s *Store) CategoryIDs(ctx context.Context, names []string) ([]uuid.UUID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM categories WHERE name = ANY($1)`, pq.Array(names))
	if err != nil {
		return nil, &db.Error{Op: db.OpCategoryIDs, Err: err}
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpCategoryIDs, Err: err}
	}
	return ids, nil
}

// ProductIDsByCategories returns the distinct products linked to any of the categories.
func (s *Store) ProductIDsByCategories(ctx context.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT product_id FROM product_categories WHERE category_id = ANY($1::uuid[])`,
		pq.Array(uuidStrings(categoryIDs)))
	if err != nil {
		return nil, &db.Error{Op: db.OpProductIDs, Err: err}
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpProductIDs, Err: err}
	}
	return ids, nil
}

// SearchWithCategories calls the category-aware search function.
func (s *Store) SearchWithCategories(ctx context.Context, p *db.CategorySearchParams) ([]db.ProductRow, error) {
	query, args := buildCategorySearch(p)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpCategorySearch, Err: err}
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, &db.Error{Op: db.OpCategorySearch, Err: err}
	}
	return products, nil
}

// SupportsCategorySearch reports whether the category-aware search function is installed.
// Probe errors count as unsupported.
func (s *Store) SupportsCategorySearch(ctx context.Context) bool {
	if s.categorySearch.Load() {
		return true
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_proc WHERE proname = $1)`, categorySearchFunction).Scan(&exists)
	if err != nil {
		return false
	}
	if exists {
		s.categorySearch.Store(true)
	}
	return exists
}

func scanProducts(rows *sql.Rows) ([]db.ProductRow, error) {
	defer rows.Close()

	var out []db.ProductRow
	for rows.Next() {
		var r db.ProductRow
		if err := rows.Scan(
			&r.ID, &r.StoreID, &r.Title, &r.Description, &r.PriceOriginal,
			&r.CurrencyOriginal, &r.PriceUSD, &r.PriceUYU, &r.OriginalURL, &r.Location,
			pq.Array(&r.Tags), &r.ImageURL, &r.UpdatedAt, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func scanIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return out, nil
}
