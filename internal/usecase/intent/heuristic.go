package intent

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	"github.com/kailas-cloud/regalo/internal/domain/keyword"
)

// ageSpan is added to the detected age to form the upper bound.
const ageSpan = 5

var (
	priceDashRe  = regexp.MustCompile(`(?i)\$?(\d+)\s*-\s*\$?(\d+)`)
	priceWordsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:a|hasta)\s*(\d+)`)
	ageRe        = regexp.MustCompile(`(?i)(\d+)\s*años`)
)

type categoryTriggers struct {
	name     string
	triggers []string
}

// categoryTable is ordered so detected categories come out in a stable order.
var categoryTable = []categoryTriggers{
	{"tecnología", []string{"tecnologia", "tech", "electronico", "smartphone", "laptop", "tablet"}},
	{"ropa", []string{"ropa", "vestido", "camisa", "pantalon", "zapatos"}},
	{"libros", []string{"libro", "lectura", "novela", "cuento"}},
	{"deportes", []string{"deporte", "futbol", "gym", "ejercicio", "running"}},
	{"hogar", []string{"hogar", "cocina", "decoracion", "mueble"}},
	{"juguetes", []string{"juguete", "toy", "niño", "niña", "bebe"}},
	{"belleza", []string{"belleza", "cosmetico", "perfume", "maquillaje"}},
	{"accesorios", []string{"accesorio", "reloj", "bolso", "cartera"}},
}

// Heuristic is the local rule-based provider. It never calls the network.
type Heuristic struct{}

// NewHeuristic creates the local provider.
func NewHeuristic() *Heuristic { return &Heuristic{} }

// ParseIntent implements Provider.
func (h *Heuristic) ParseIntent(_ context.Context, query string) (domintent.Intent, error) {
	return domintent.New(
		query,
		heuristicKeywords(query),
		detectCategories(query),
		detectPriceRange(query),
		detectAgeRange(query),
		"",
	), nil
}

func heuristicKeywords(query string) []string {
	kw := keyword.ExtractRelevantKeywords(query)
	if len(kw) == 0 {
		for _, tok := range strings.Fields(query) {
			if utf8.RuneCountInString(tok) > 3 {
				kw = append(kw, tok)
			}
		}
	}
	if len(kw) > domintent.MaxKeywords {
		kw = kw[:domintent.MaxKeywords]
	}
	return kw
}

func detectCategories(query string) []string {
	folded := fold(query)
	var cats []string
	for _, c := range categoryTable {
		for _, trig := range c.triggers {
			if strings.Contains(folded, fold(trig)) {
				cats = append(cats, c.name)
				break
			}
		}
	}
	return cats
}

func detectPriceRange(query string) domintent.Range {
	m := priceDashRe.FindStringSubmatch(query)
	if m == nil {
		m = priceWordsRe.FindStringSubmatch(query)
	}
	if m == nil {
		return domintent.Range{}
	}
	lo, errLo := strconv.ParseFloat(m[1], 64)
	hi, errHi := strconv.ParseFloat(m[2], 64)
	if errLo != nil || errHi != nil {
		return domintent.Range{}
	}
	return domintent.Between(lo, hi)
}

func detectAgeRange(query string) domintent.Range {
	m := ageRe.FindStringSubmatch(query)
	if m == nil {
		return domintent.Range{}
	}
	age, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domintent.Range{}
	}
	return domintent.Between(age, age+ageSpan)
}

// fold lower-cases s and strips diacritics so "tecnología" matches "tecnologia".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
