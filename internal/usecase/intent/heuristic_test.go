package intent

import (
	"context"
	"slices"
	"strings"
	"testing"
)

func TestHeuristic_GiftScenario(t *testing.T) {
	h := NewHeuristic()
	in, err := h.ParseIntent(context.Background(),
		"Regalo para mi hermana de 25 años que le gusta la tecnología, presupuesto 50-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Contains(in.Categories(), "tecnología") {
		t.Errorf("expected tecnología category, got %v", in.Categories())
	}
	pr := in.PriceRange()
	if pr.Min == nil || pr.Max == nil || *pr.Min != 50 || *pr.Max != 100 {
		t.Errorf("expected price 50-100, got %+v", pr)
	}
	ar := in.AgeRange()
	if ar.Min == nil || ar.Max == nil || *ar.Min != 25 || *ar.Max != 30 {
		t.Errorf("expected age 25-30, got %+v", ar)
	}
	if !slices.Contains(in.Keywords(), "hermana") || !slices.Contains(in.Keywords(), "tecnología") {
		t.Errorf("unexpected keywords %v", in.Keywords())
	}
}

func TestHeuristic_PriceWords(t *testing.T) {
	tests := []struct {
		query    string
		min, max float64
	}{
		{"auriculares de 20 a 40 dólares", 20, 40},
		{"reloj hasta 150 o 30 hasta 90", 30, 90},
		{"perfume $10 - $35", 10, 35},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			in, _ := NewHeuristic().ParseIntent(context.Background(), tc.query)
			pr := in.PriceRange()
			if pr.Min == nil || *pr.Min != tc.min || *pr.Max != tc.max {
				t.Errorf("got %+v, want %v-%v", pr, tc.min, tc.max)
			}
		})
	}
}

func TestHeuristic_DashWinsOverWords(t *testing.T) {
	in, _ := NewHeuristic().ParseIntent(context.Background(), "de 5 a 8 o bien 100-200")
	if *in.PriceRange().Min != 100 || *in.PriceRange().Max != 200 {
		t.Errorf("dash pattern must win, got %+v", in.PriceRange())
	}
}

func TestHeuristic_NoRanges(t *testing.T) {
	in, _ := NewHeuristic().ParseIntent(context.Background(), "algo lindo para mamá")
	if !in.PriceRange().IsZero() {
		t.Errorf("expected no price range, got %+v", in.PriceRange())
	}
	if !in.AgeRange().IsZero() {
		t.Errorf("expected no age range, got %+v", in.AgeRange())
	}
	if len(in.Categories()) != 0 {
		t.Errorf("expected no categories, got %v", in.Categories())
	}
}

func TestHeuristic_MultipleCategoriesInTableOrder(t *testing.T) {
	in, _ := NewHeuristic().ParseIntent(context.Background(), "un reloj y un libro de cocina")
	want := []string{"libros", "hogar", "accesorios"}
	if !slices.Equal(in.Categories(), want) {
		t.Errorf("got %v, want %v", in.Categories(), want)
	}
}

func TestHeuristic_KeywordFallbacks(t *testing.T) {
	in, _ := NewHeuristic().ParseIntent(context.Background(), "quiero regalar algo")
	if !slices.Equal(in.Keywords(), []string{"algo"}) {
		t.Errorf("expected relevant keyword, got %v", in.Keywords())
	}

	// Every token is a stopword, so long raw tokens are used instead.
	in, _ = NewHeuristic().ParseIntent(context.Background(), "para regalo")
	if !slices.Equal(in.Keywords(), []string{"para", "regalo"}) {
		t.Errorf("expected long raw tokens, got %v", in.Keywords())
	}

	in, _ = NewHeuristic().ParseIntent(context.Background(), "mi de la")
	if !slices.Equal(in.Keywords(), []string{"mi de la"}) {
		t.Errorf("expected raw query as keyword, got %v", in.Keywords())
	}
}

func TestHeuristic_KeywordCap(t *testing.T) {
	q := strings.Repeat("guitarra ", 15)
	in, _ := NewHeuristic().ParseIntent(context.Background(), q)
	if len(in.Keywords()) != 10 {
		t.Errorf("expected 10 keywords, got %d", len(in.Keywords()))
	}
}

func TestFold(t *testing.T) {
	if got := fold("Tecnología NIÑO"); got != "tecnologia nino" {
		t.Errorf("got %q", got)
	}
}
