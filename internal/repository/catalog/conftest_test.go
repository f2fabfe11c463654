package catalog

import (
	"context"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/regalo/internal/db"
	"github.com/kailas-cloud/regalo/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

type fakeProduct struct {
	row        db.ProductRow
	categories []string
}

// fakeStore is an in-memory catalog that applies filters the way the SQL does.
type fakeStore struct {
	products   []fakeProduct
	categories map[string]uuid.UUID

	supportsRPC bool
	rpcErr      error
	searchErr   error
	countErr    error
	categoryErr error

	rpcCalls    int
	searchCalls int
	lastFilter  *db.ProductFilter
	lastRPC     *db.CategorySearchParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{categories: map[string]uuid.UUID{}}
}

func (s *fakeStore) addCategory(name string) {
	s.categories[name] = uuid.New()
}

func (s *fakeStore) add(title string, price float64, categories ...string) uuid.UUID {
	id := uuid.New()
	p := price
	s.products = append(s.products, fakeProduct{
		row: db.ProductRow{
			ID:               id,
			StoreID:          uuid.New(),
			Title:            title,
			PriceOriginal:    price,
			CurrencyOriginal: "USD",
			PriceUSD:         &p,
			UpdatedAt:        time.Now(),
		},
		categories: categories,
	})
	return id
}

func (s *fakeStore) match(f *db.ProductFilter) []db.ProductRow {
	var out []db.ProductRow
	for _, p := range s.products {
		if f.ProductIDs != nil && !slices.Contains(f.ProductIDs, p.row.ID) {
			continue
		}
		if f.SearchQuery != "" {
			title := strings.ToLower(p.row.Title)
			ok := true
			for _, w := range strings.Fields(f.SearchQuery) {
				if !strings.Contains(title, strings.ToLower(w)) {
					ok = false
				}
			}
			if !ok {
				continue
			}
		}
		if f.PriceMin != nil && *p.row.PriceUSD < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && *p.row.PriceUSD > *f.PriceMax {
			continue
		}
		out = append(out, p.row)
	}
	return out
}

func paginate(rows []db.ProductRow, limit, offset int) []db.ProductRow {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func (s *fakeStore) SearchProducts(_ context.Context, f *db.ProductFilter) ([]db.ProductRow, error) {
	s.searchCalls++
	s.lastFilter = f
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return paginate(s.match(f), f.Limit, f.Offset), nil
}

func (s *fakeStore) CountProducts(_ context.Context, f *db.ProductFilter) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.match(f)), nil
}

func (s *fakeStore) CategoryIDs(_ context.Context, names []string) ([]uuid.UUID, error) {
	if s.categoryErr != nil {
		return nil, s.categoryErr
	}
	var out []uuid.UUID
	for _, n := range names {
		if id, ok := s.categories[n]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *fakeStore) ProductIDsByCategories(_ context.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, p := range s.products {
		for _, c := range p.categories {
			if id, ok := s.categories[c]; ok && slices.Contains(categoryIDs, id) {
				out = append(out, p.row.ID)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) SearchWithCategories(_ context.Context, p *db.CategorySearchParams) ([]db.ProductRow, error) {
	s.rpcCalls++
	s.lastRPC = p
	if s.rpcErr != nil {
		return nil, s.rpcErr
	}
	var ids []uuid.UUID
	for _, fp := range s.products {
		for _, c := range fp.categories {
			if slices.Contains(p.CategoryNames, c) {
				ids = append(ids, fp.row.ID)
				break
			}
		}
	}
	rows := s.match(&db.ProductFilter{ProductIDs: ids, PriceMin: p.PriceMin, PriceMax: p.PriceMax})
	return paginate(rows, p.Limit, p.Offset), nil
}

func (s *fakeStore) SupportsCategorySearch(_ context.Context) bool {
	return s.supportsRPC
}
