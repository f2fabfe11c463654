// Package ranking re-scores retrieved products by keyword overlap.
package ranking

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/regalo/internal/domain/catalog"
)

// Field weights.
const (
	TitleWeight       = 10
	DescriptionWeight = 5
	TagWeight         = 3
)

// Score pairs a product with its relevance score.
type Score struct {
	Product catalog.Product `json:"product"`
	Score   float64         `json:"score"`
}

// Rank scores every product and sorts by score descending.
// Ties keep their input order and zero-score products are kept.
func Rank(products []catalog.Product, keywords []string) []Score {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	scores := make([]Score, len(products))
	for i := range products {
		scores[i] = Score{Product: products[i], Score: score(&products[i], lowered)}
	}

	slices.SortStableFunc(scores, func(a, b Score) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return scores
}

func score(p *catalog.Product, keywords []string) float64 {
	title := strings.ToLower(p.Title)
	desc := strings.ToLower(p.Description)

	var s float64
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			s += TitleWeight
		}
		if strings.Contains(desc, kw) {
			s += DescriptionWeight
		}
	}
	for _, tag := range p.Tags {
		tag = strings.ToLower(tag)
		for _, kw := range keywords {
			if strings.Contains(tag, kw) {
				s += TagWeight
			}
		}
	}
	return s
}
