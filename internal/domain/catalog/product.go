package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Currency is an ISO-like currency code used by the catalog.
type Currency string

// Catalog currencies.
const (
	USD   Currency = "USD"
	UYU   Currency = "UYU"
	Other Currency = "other"
)

// Product is a read-only catalog entry owned by the store.
type Product struct {
	ID               uuid.UUID `json:"id"`
	StoreID          uuid.UUID `json:"store_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	PriceOriginal    float64   `json:"price_original"`
	CurrencyOriginal Currency  `json:"currency_original"`
	PriceUSD         *float64  `json:"price_usd"`
	PriceUYU         *float64  `json:"price_uyu"`
	OriginalURL      string    `json:"original_url"`
	Location         *string   `json:"location"`
	Tags             []string  `json:"tags"`
	ImageURL         *string   `json:"image_url"`
	UpdatedAt        time.Time `json:"updated_at"`
	CreatedAt        time.Time `json:"created_at"`
}
