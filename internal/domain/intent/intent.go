package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/regalo/internal/domain"
)

// GiftSearch is the only intent kind the parser emits.
const GiftSearch = "gift_search"

// MaxKeywords caps the keyword list of a parsed intent.
const MaxKeywords = 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// Range is an optional numeric interval. Nil bounds mean "not mentioned".
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Between builds a closed range with both bounds set.
func Between(lo, hi float64) Range {
	return Range{Min: &lo, Max: &hi}
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool { return r.Min == nil && r.Max == nil }

// Payload is the wire shape of an intent, shared by the hosted providers, the cache and the HTTP API.
type Payload struct {
	Intent     string   `json:"intent" validate:"required,eq=gift_search"`
	Keywords   []string `json:"keywords" validate:"required,min=1,dive,required"`
	Categories []string `json:"categories" validate:"omitempty,dive,required"`
	PriceRange Range    `json:"price_range"`
	AgeRange   Range    `json:"age_range"`
	Notes      string   `json:"notes"`
}

// Validate checks a payload against the intent shape.
func (p *Payload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidIntent, err)
	}
	return nil
}

// Intent is the structured form of a free-text gift query. Immutable once built.
type Intent struct {
	keywords   []string
	categories []string
	priceRange Range
	ageRange   Range
	notes      string
}

// New builds an intent. Keywords beyond MaxKeywords are dropped;
// empty keyword lists fall back to the raw query as the only keyword.
func New(query string, keywords, categories []string, priceRange, ageRange Range, notes string) Intent {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if len(kw) == MaxKeywords {
			break
		}
		if k = strings.TrimSpace(k); k != "" {
			kw = append(kw, k)
		}
	}
	if len(kw) == 0 {
		kw = []string{query}
	}
	cats := make([]string, 0, len(categories))
	cats = append(cats, categories...)

	return Intent{
		keywords:   kw,
		categories: cats,
		priceRange: priceRange,
		ageRange:   ageRange,
		notes:      notes,
	}
}

// FromPayload validates a payload and converts it into an intent.
func FromPayload(query string, p *Payload) (Intent, error) {
	if err := p.Validate(); err != nil {
		return Intent{}, err
	}
	return New(query, p.Keywords, p.Categories, p.PriceRange, p.AgeRange, p.Notes), nil
}

// Decode parses raw JSON into a validated intent.
// Unparseable input yields ErrMalformedIntent, shape mismatches yield ErrInvalidIntent.
func Decode(query string, data []byte) (Intent, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Intent{}, fmt.Errorf("%w: %w", domain.ErrMalformedIntent, err)
	}
	return FromPayload(query, &p)
}

// Keywords returns a copy of the extracted keywords (never empty).
func (i Intent) Keywords() []string { return append([]string(nil), i.keywords...) }

// Categories returns a copy of the detected categories.
func (i Intent) Categories() []string { return append([]string(nil), i.categories...) }

// PriceRange returns the requested price range in USD.
func (i Intent) PriceRange() Range { return i.priceRange }

// AgeRange returns the recipient age range.
func (i Intent) AgeRange() Range { return i.ageRange }

// Notes returns free-form remarks from the provider.
func (i Intent) Notes() string { return i.notes }

// Payload converts the intent back to its wire shape.
func (i Intent) Payload() Payload {
	cats := i.Categories()
	if cats == nil {
		cats = []string{}
	}
	return Payload{
		Intent:     GiftSearch,
		Keywords:   i.Keywords(),
		Categories: cats,
		PriceRange: i.priceRange,
		AgeRange:   i.ageRange,
		Notes:      i.notes,
	}
}

// MarshalJSON encodes the intent in its wire shape.
func (i Intent) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Payload())
}
