// Package keyword filters free-text tokens down to terms likely to name a product or category.
package keyword

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minLength is the shortest rune length kept for words outside the whitelist.
const minLength = 4

const punctuation = ".,!?;:()[]{}'\""

// stopwords are Spanish pronouns, auxiliaries, articles, connectors, time words
// and generic gift-request phrasing.
var stopwords = newSet(
	// verbs
	"tengo", "tiene", "tienen", "tener", "tenemos",
	"soy", "es", "son", "ser", "somos",
	"estoy", "está", "están", "estar", "estamos",
	"hacer", "hace", "hacen", "hago", "hacemos",
	"dar", "doy", "da", "dan", "damos",
	"ver", "veo", "ve", "ven", "vemos",
	"saber", "sé", "sabe", "saben", "sabemos",
	"querer", "quiero", "quiere", "quieren", "queremos",
	"poder", "puedo", "puede", "pueden", "podemos",
	"decir", "digo", "dice", "dicen", "decimos",
	"ir", "voy", "va", "van", "vamos",
	"venir", "vengo", "viene", "vienen", "venimos",

	// pronouns
	"yo", "tú", "él", "ella", "nosotros", "nosotras", "ustedes", "ellos", "ellas",
	"me", "te", "le", "nos", "les", "se", "lo",
	"mi", "mis", "tu", "tus", "su", "sus", "nuestro", "nuestra", "nuestros", "nuestras",

	// articles, connectors, demonstratives
	"que", "qué", "cual", "cuál", "como", "cómo", "cuando", "cuándo", "donde", "dónde",
	"un", "una", "unos", "unas", "el", "la", "los", "las",
	"de", "del", "al", "a", "en", "con", "por", "para", "sin", "sobre",
	"y", "o", "pero", "mas", "más", "menos", "muy", "mucho", "muchos", "muchas",
	"este", "esta", "estos", "estas", "ese", "esa", "esos", "esas",
	"aquel", "aquella", "aquellos", "aquellas",

	// time and age
	"años", "año", "mes", "meses", "día", "días", "semana", "semanas",
	"hoy", "ayer", "mañana", "ahora", "después", "antes",

	// request phrasing
	"no", "sí", "si", "también", "tampoco", "solo", "sólo", "solamente",
	"apasiona", "apasionan", "gusta", "gustan", "encanta", "encantan",
	"regalarle", "regalar", "regalo", "regalos", "regalarles",
	"busco", "busca", "buscan", "buscamos", "encontrar",
)

// productWords are always kept, even when short or ambiguous.
var productWords = newSet(
	"anime", "manga", "tecnologia", "tecnología", "tech", "electronico", "electrónico",
	"smartphone", "laptop", "tablet", "computadora", "pc",
	"ropa", "vestido", "camisa", "pantalon", "pantalón", "zapatos",
	"libro", "libros", "lectura", "novela",
	"deporte", "deportes", "futbol", "fútbol", "gym", "ejercicio", "running",
	"hogar", "cocina", "decoracion", "decoración", "mueble", "muebles",
	"juguete", "juguetes", "toy", "niño", "niña", "niños", "niñas",
	"belleza", "cosmetico", "cosmético", "perfume", "maquillaje",
	"accesorio", "accesorios", "reloj", "bolso", "cartera",
)

func newSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// FilterRelevant lower-cases and trims keywords and keeps only product-relevant ones.
// The result is never longer than the input and filtering it again is a no-op.
func FilterRelevant(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if isRelevant(kw) {
			out = append(out, kw)
		}
	}
	return out
}

// ExtractRelevantKeywords tokenizes raw text and filters the tokens.
func ExtractRelevantKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(stripPunctuation(f), isEdgeRune)
		if w != "" {
			words = append(words, w)
		}
	}
	return FilterRelevant(words)
}

func isRelevant(kw string) bool {
	if _, ok := productWords[kw]; ok {
		return true
	}
	if _, ok := stopwords[kw]; ok {
		return false
	}
	return utf8.RuneCountInString(kw) >= minLength
}

// isEdgeRune matches runes trimmed from token edges, such as the Spanish ¿ and ¡ or typographic quotes.
func isEdgeRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
}
