package classifier

import (
	"regexp"
	"strings"
)

// infoMapping pairs each answerable field with the phrasings that ask
// for it.
var infoMapping = []struct {
	field    string
	keywords []string
}{
	{"price", []string{"price", "sell price", "selling price", "sale price", "cost to customer", "map", "advertised price", "retail price"}},
	{"cost", []string{"cost", "unit cost", "internal cost", "how much does it cost"}},
	{"profit", []string{"profit", "profitability"}},
	{"margin", []string{"margin", "profit margin", "percentage margin"}},
	{"markup", []string{"markup", "mark up", "mark-up"}},
	{"inventory", []string{"inventory", "stock", "quantity", "how many", "quantities"}},
	{"dimensions", []string{"dimensions", "dimension", "size", "measurements"}},
	{"image_url", []string{"image", "picture", "photo", "show me", "url image", "image url", "url of image", "url"}},
	{"cost_update", []string{"cost updated", "cost last updated", "last cost update", "when cost updated", "cost update time"}},
	{"weight", []string{"weight", "how heavy", "mass", "weighs", "heavy", "weigh", "weights"}},
	{"wheels", []string{"wheels", "wheel", "rolling", "roll", "portable", "wheeled"}},
	{"part_number", []string{"part number", "p/n", "sku", "model number", "product number", "item number"}},
}

var (
	weightQuestionPattern = regexp.MustCompile(`\bwhat\s+is\s+the\s+weight\b`)
	partNumberPattern     = regexp.MustCompile(`\bwhat.*part\s+number\b`)
	skuQuestionPattern    = regexp.MustCompile(`\bwhat.*sku\b`)
)

var detailWords = []string{"details", "info", "information", "tell me", "show me"}

// generalDetailFields is what "tell me about it" means.
var generalDetailFields = []string{"price", "cost", "inventory", "profit", "margin"}

// RequestedFields maps an utterance to the fields it asks for. Never
// empty: a query naming nothing specific defaults to price, and a
// details-style query to the general field set.
func RequestedFields(text string) []string {
	lower := strings.ToLower(text)

	var fields []string
	seen := map[string]bool{}
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}

	for _, m := range infoMapping {
		for _, kw := range m.keywords {
			if strings.Contains(lower, kw) {
				add(m.field)
				break
			}
		}
	}

	// Question shapes the keyword pass can miss
	if weightQuestionPattern.MatchString(lower) {
		add("weight")
	}
	if partNumberPattern.MatchString(lower) || skuQuestionPattern.MatchString(lower) {
		add("part_number")
	}

	if len(fields) > 0 {
		return fields
	}

	for _, w := range detailWords {
		if strings.Contains(lower, w) {
			return append([]string(nil), generalDetailFields...)
		}
	}
	return []string{"price"}
}
