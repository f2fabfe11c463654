package regalo

import (
	"time"

	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	searchuc "github.com/kailas-cloud/regalo/internal/usecase/search"
)

// Range is an optional numeric interval. Nil bounds were not mentioned in the query.
type Range struct {
	Min *float64
	Max *float64
}

// Intent is the structured form of a gift query.
type Intent struct {
	Keywords   []string
	Categories []string
	PriceRange Range // USD
	AgeRange   Range
	Notes      string
}

// Price is an amount in a currency.
type Price struct {
	Amount    float64
	Currency  string
	Formatted string // e.g. "US$ 25.00"; empty for unknown currencies
}

// Product is a catalog entry.
type Product struct {
	ID          string
	StoreID     string
	Title       string
	Description string
	Price       Price
	PriceUSD    *float64
	PriceUYU    *float64
	URL         string
	ImageURL    *string
	Location    *string
	Tags        []string
	UpdatedAt   time.Time
}

// Hit is a ranked product.
type Hit struct {
	Product Product
	Score   float64
	// EstimatedPrice is the price in the display currency, nil when no conversion applies.
	EstimatedPrice *Price
}

// SearchRequest is a gift search. Zero Limit uses the default page size.
type SearchRequest struct {
	Query  string
	Limit  int
	Offset int
}

// SearchResult is one page of ranked products.
type SearchResult struct {
	Intent    Intent
	Keywords  []string
	Hits      []Hit
	Total     int
	Limit     int
	Offset    int
	SessionID string // empty when the session could not be recorded
}

// Click is a click-through to a store product page.
type Click struct {
	SessionID string
	ProductID string
	StoreID   string
	UserAgent string
	Referrer  string
}

// Lead credits a store with a click.
type Lead struct {
	ClickID   string
	StoreID   string
	SessionID string
	ProductID string
	Timestamp time.Time
}

func intentFromDomain(in domintent.Intent) Intent {
	pr, ar := in.PriceRange(), in.AgeRange()
	return Intent{
		Keywords:   in.Keywords(),
		Categories: in.Categories(),
		PriceRange: Range{Min: pr.Min, Max: pr.Max},
		AgeRange:   Range{Min: ar.Min, Max: ar.Max},
		Notes:      in.Notes(),
	}
}

func productFromDomain(p *domcat.Product) Product {
	price := Price{
		Amount:    p.PriceOriginal,
		Currency:  string(p.CurrencyOriginal),
		Formatted: domcat.FormatPrice(p.PriceOriginal, p.CurrencyOriginal),
	}
	return Product{
		ID:          p.ID.String(),
		StoreID:     p.StoreID.String(),
		Title:       p.Title,
		Description: p.Description,
		Price:       price,
		PriceUSD:    p.PriceUSD,
		PriceUYU:    p.PriceUYU,
		URL:         p.OriginalURL,
		ImageURL:    p.ImageURL,
		Location:    p.Location,
		Tags:        append([]string(nil), p.Tags...),
		UpdatedAt:   p.UpdatedAt,
	}
}

func searchResultFromDomain(resp *searchuc.Response) SearchResult {
	hits := make([]Hit, len(resp.Hits))
	for i := range resp.Hits {
		h := &resp.Hits[i]
		hits[i] = Hit{Product: productFromDomain(&h.Product), Score: h.Score}
		if h.Estimate != nil {
			hits[i].EstimatedPrice = &Price{
				Amount:    h.Estimate.Amount,
				Currency:  string(h.Estimate.Currency),
				Formatted: h.Estimate.Formatted,
			}
		}
	}

	out := SearchResult{
		Intent:   intentFromDomain(resp.Intent),
		Keywords: append([]string(nil), resp.Keywords...),
		Hits:     hits,
		Total:    resp.Total,
		Limit:    resp.Limit,
		Offset:   resp.Offset,
	}
	if resp.SessionID != nil {
		out.SessionID = resp.SessionID.String()
	}
	return out
}

func leadFromDomain(l domanalytics.LeadAttribution) Lead {
	return Lead{
		ClickID:   l.ClickID.String(),
		StoreID:   l.StoreID.String(),
		SessionID: l.SessionID.String(),
		ProductID: l.ProductID.String(),
		Timestamp: l.Timestamp,
	}
}
