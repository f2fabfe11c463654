package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regalo/internal/db"
	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
	"github.com/kailas-cloud/regalo/internal/domain/intent"
)

func mustQuery(t *testing.T, keywords, categories []string, pr intent.Range, limit, offset int) domcat.Query {
	t.Helper()
	q, err := domcat.NewQuery(keywords, categories, pr, limit, offset)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return q
}

func TestRetrieve_FullText(t *testing.T) {
	s := newFakeStore()
	s.add("Auriculares Bluetooth Sony", 80)
	s.add("Auriculares con cable", 15)
	s.add("Parlante Bluetooth", 60)
	repo := New(s, zap.NewNop())

	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"auriculares", "bluetooth"}, nil, intent.Range{}, 20, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || len(res.Products) != 1 || res.Products[0].Title != "Auriculares Bluetooth Sony" {
		t.Errorf("unexpected result %+v", res)
	}
	if s.lastFilter.SearchQuery != "auriculares bluetooth" {
		t.Errorf("expected joined keywords, got %q", s.lastFilter.SearchQuery)
	}
	if s.rpcCalls != 0 {
		t.Error("full-text path must not call the category search")
	}
}

func TestRetrieve_FullTextPriceFilter(t *testing.T) {
	s := newFakeStore()
	s.add("Reloj clásico", 30)
	s.add("Reloj deportivo", 120)
	repo := New(s, zap.NewNop())

	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"reloj"}, nil, intent.Between(50, 150), 20, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || res.Products[0].Title != "Reloj deportivo" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRetrieve_TotalInvariantUnderPagination(t *testing.T) {
	s := newFakeStore()
	for i := range 7 {
		s.add(fmt.Sprintf("Lego set %d", i), float64(10+i))
	}
	s.addCategory("juguetes")
	for i := range 5 {
		s.add(fmt.Sprintf("Peluche %d", i), 20, "juguetes")
	}

	for _, supportsRPC := range []bool{true, false} {
		s.supportsRPC = supportsRPC
		repo := New(s, zap.NewNop())

		pages := [][2]int{{20, 0}, {2, 0}, {2, 2}, {3, 6}, {1, 100}}
		for _, kw := range [][]string{{"lego"}, nil} {
			var cats []string
			if kw == nil {
				kw = []string{"peluche"}
				cats = []string{"juguetes"}
			}
			var totals []int
			for _, pg := range pages {
				res, err := repo.Retrieve(context.Background(), mustQuery(t, kw, cats, intent.Range{}, pg[0], pg[1]))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(res.Products) > pg[0] {
					t.Errorf("page larger than limit: %d > %d", len(res.Products), pg[0])
				}
				totals = append(totals, res.Total)
			}
			for _, total := range totals[1:] {
				if total != totals[0] {
					t.Errorf("rpc=%v categories=%v: total changed with pagination: %v", supportsRPC, cats, totals)
					break
				}
			}
		}
	}
}

func TestRetrieve_CategoryRPC(t *testing.T) {
	s := newFakeStore()
	s.addCategory("tecnología")
	s.add("Tablet 10", 150, "tecnología")
	s.add("Smartwatch", 90, "tecnología")
	s.add("Novela", 20)
	s.supportsRPC = true
	repo := New(s, zap.NewNop())

	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"tablet"}, []string{"tecnología"}, intent.Range{}, 20, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.rpcCalls != 1 {
		t.Fatalf("expected 1 rpc call, got %d", s.rpcCalls)
	}
	if s.lastRPC.SearchQuery == nil || *s.lastRPC.SearchQuery != "tablet" {
		t.Errorf("expected keywords as ranking hint, got %v", s.lastRPC.SearchQuery)
	}
	// Keywords only rank, so both category products come back.
	if res.Total != 2 || len(res.Products) != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	if s.searchCalls != 0 {
		t.Error("rpc path must not run the fallback query")
	}
}

func TestRetrieve_CategoryRPCWithoutResolvableProducts(t *testing.T) {
	s := newFakeStore()
	s.supportsRPC = true
	repo := New(s, zap.NewNop())

	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"x"}, []string{"inexistente"}, intent.Range{}, 20, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Products) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestRetrieve_RPCUnavailableFallsBack(t *testing.T) {
	s := newFakeStore()
	s.addCategory("tecnología")
	s.add("Tablet 10", 150, "tecnología")
	s.add("Smartwatch", 90, "tecnología")
	s.add("Tablet de dibujo", 40)
	repo := New(s, zap.NewNop())

	// Keywords play no part in the fallback path.
	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"mi"}, []string{"tecnología"}, intent.Range{}, 20, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.rpcCalls != 0 {
		t.Error("unsupported rpc must not be called")
	}
	if s.lastFilter.SearchQuery != "" {
		t.Errorf("fallback must not full-text filter, got %q", s.lastFilter.SearchQuery)
	}
	if res.Total != 2 || len(res.Products) != 2 {
		t.Fatalf("expected only category products, got %+v", res)
	}
	for _, p := range res.Products {
		if p.Title == "Tablet de dibujo" {
			t.Error("uncategorized product leaked into fallback result")
		}
	}
}

func TestRetrieve_RPCErrorFallsBack(t *testing.T) {
	s := newFakeStore()
	s.addCategory("libros")
	s.add("Novela negra", 25, "libros")
	s.supportsRPC = true
	s.rpcErr = &db.Error{Op: db.OpCategorySearch, Err: errors.New("connection reset")}
	repo := New(s, zap.NewNop())

	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"novela"}, []string{"libros"}, intent.Range{}, 20, 0))
	if err != nil {
		t.Fatalf("rpc errors must not surface: %v", err)
	}
	if s.rpcCalls != 1 || s.searchCalls != 1 {
		t.Errorf("expected rpc then fallback, got rpc=%d search=%d", s.rpcCalls, s.searchCalls)
	}
	if res.Total != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRetrieve_UnknownCategoryIsEmpty(t *testing.T) {
	s := newFakeStore()
	s.addCategory("ropa")
	s.add("Camisa", 30, "ropa")
	repo := New(s, zap.NewNop())

	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"camisa"}, []string{"astronomía"}, intent.Range{}, 20, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Products) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	if res.Products == nil {
		t.Error("products should be an empty slice")
	}
	if s.searchCalls != 0 {
		t.Error("no product query expected when nothing resolves")
	}
}

func TestRetrieve_FallbackPriceFilter(t *testing.T) {
	s := newFakeStore()
	s.addCategory("hogar")
	s.add("Lámpara", 30, "hogar")
	s.add("Sofá", 500, "hogar")
	repo := New(s, zap.NewNop())

	res, err := repo.Retrieve(context.Background(),
		mustQuery(t, []string{"casa"}, []string{"hogar"}, intent.Between(10, 100), 20, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || res.Products[0].Title != "Lámpara" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRetrieve_StorageErrorsAreFatal(t *testing.T) {
	boom := errors.New("db down")

	tests := []struct {
		name  string
		setup func(s *fakeStore)
		cats  []string
	}{
		{"full-text search", func(s *fakeStore) { s.searchErr = boom }, nil},
		{"full-text count", func(s *fakeStore) { s.countErr = boom }, nil},
		{"category resolution", func(s *fakeStore) { s.categoryErr = boom }, []string{"ropa"}},
		{"fallback count", func(s *fakeStore) { s.countErr = boom }, []string{"ropa"}},
		{"rpc count", func(s *fakeStore) { s.supportsRPC = true; s.countErr = boom }, []string{"ropa"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newFakeStore()
			s.addCategory("ropa")
			s.add("Camisa", 30, "ropa")
			tc.setup(s)

			_, err := New(s, zap.NewNop()).Retrieve(context.Background(),
				mustQuery(t, []string{"camisa"}, tc.cats, intent.Range{}, 20, 0))
			if !errors.Is(err, boom) {
				t.Fatalf("expected storage error, got %v", err)
			}
		})
	}
}

func TestRowToProduct(t *testing.T) {
	p := rowToProduct(&db.ProductRow{Title: "x", CurrencyOriginal: "EUR"})
	if p.CurrencyOriginal != domcat.Other {
		t.Errorf("unknown currency should map to other, got %q", p.CurrencyOriginal)
	}
	if p.Tags == nil {
		t.Error("tags should default to an empty slice")
	}
	if rowToProduct(&db.ProductRow{CurrencyOriginal: "UYU"}).CurrencyOriginal != domcat.UYU {
		t.Error("UYU should be preserved")
	}
}
