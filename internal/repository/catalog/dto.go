package catalog

import (
	"github.com/kailas-cloud/regalo/internal/db"
	domcat "github.com/kailas-cloud/regalo/internal/domain/catalog"
)

// rowToProduct converts a products row into a domain Product.
func rowToProduct(r *db.ProductRow) domcat.Product {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return domcat.Product{
		ID:               r.ID,
		StoreID:          r.StoreID,
		Title:            r.Title,
		Description:      r.Description,
		PriceOriginal:    r.PriceOriginal,
		CurrencyOriginal: parseCurrency(r.CurrencyOriginal),
		PriceUSD:         r.PriceUSD,
		PriceUYU:         r.PriceUYU,
		OriginalURL:      r.OriginalURL,
		Location:         r.Location,
		Tags:             tags,
		ImageURL:         r.ImageURL,
		UpdatedAt:        r.UpdatedAt,
		CreatedAt:        r.CreatedAt,
	}
}

func rowsToProducts(rows []db.ProductRow) []domcat.Product {
	out := make([]domcat.Product, len(rows))
	for i := range rows {
		out[i] = rowToProduct(&rows[i])
	}
	return out
}

func parseCurrency(s string) domcat.Currency {
	switch c := domcat.Currency(s); c {
	case domcat.USD, domcat.UYU:
		return c
	default:
		return domcat.Other
	}
}
