package catalog

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultExchangeRateUSDUYU is the fallback USD→UYU rate.
const DefaultExchangeRateUSDUYU = 40.0

// Estimate is a converted price shown next to the original one.
type Estimate struct {
	Amount    float64  `json:"amount"`
	Currency  Currency `json:"currency"`
	Formatted string   `json:"formatted"`
}

// Display locales per currency.
var (
	usdPrinter = message.NewPrinter(language.AmericanEnglish)
	uyuPrinter = message.NewPrinter(language.MustParse("es-UY"))
)

// FormatPrice renders amount with the currency symbol of its display locale.
// Currencies other than USD and UYU render as an empty string.
func FormatPrice(amount float64, c Currency) string {
	var p *message.Printer
	switch c {
	case USD:
		p = usdPrinter
	case UYU:
		p = uyuPrinter
	default:
		return ""
	}
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return ""
	}
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}

// Convert converts between USD and UYU. Other pairs return the amount unchanged.
func Convert(amount float64, from, to Currency, rate float64) float64 {
	if from == to {
		return amount
	}
	if rate <= 0 {
		rate = DefaultExchangeRateUSDUYU
	}
	switch {
	case from == USD && to == UYU:
		return amount * rate
	case from == UYU && to == USD:
		return amount / rate
	default:
		return amount
	}
}

// EstimatePrice converts the product price to target.
// ok is false when the currencies match or the original currency has no known rate.
func EstimatePrice(p *Product, target Currency, rate float64) (Estimate, bool) {
	if p.CurrencyOriginal == target || p.CurrencyOriginal == Other || target == Other {
		return Estimate{}, false
	}
	amount := Convert(p.PriceOriginal, p.CurrencyOriginal, target, rate)
	return Estimate{
		Amount:    amount,
		Currency:  target,
		Formatted: FormatPrice(amount, target),
	}, true
}
