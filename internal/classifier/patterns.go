package classifier

import (
	"regexp"
	"strings"
)

// ============================================================
// COUNT / MARGIN FORMULA
// ============================================================

var countPatterns = []*regexp.Regexp{
	regexp.MustCompile(`how many products`),
	regexp.MustCompile(`total products`),
	regexp.MustCompile(`count.*products`),
	regexp.MustCompile(`number.*products`),
	regexp.MustCompile(`products.*count`),
	regexp.MustCompile(`products.*total`),
	regexp.MustCompile(`product.*total`),
	regexp.MustCompile(`product.*count`),
}

var marginFormulaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`margin.*formula`),
	regexp.MustCompile(`how.*calculate.*margin`),
	regexp.MustCompile(`margin.*calculation`),
	regexp.MustCompile(`formula.*margin`),
	regexp.MustCompile(`calculate.*margin`),
}

// ============================================================
// COST UPDATE
// ============================================================

var costUpdatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`cost.*updated`),
	regexp.MustCompile(`cost.*changed`),
	regexp.MustCompile(`cost.*modified`),
	regexp.MustCompile(`updated.*cost`),
	regexp.MustCompile(`changed.*cost`),
	regexp.MustCompile(`modified.*cost`),
	regexp.MustCompile(`when.*cost.*updated`),
	regexp.MustCompile(`when.*updated.*cost`),
	regexp.MustCompile(`last.*cost.*update`),
	regexp.MustCompile(`cost.*last.*updated`),
}

// generalCostUpdatePatterns force the no-product reading: the user is
// asking about whatever product the conversation is on.
var generalCostUpdatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^when was.*cost.*updated`),
	regexp.MustCompile(`^when was.*last.*cost`),
	regexp.MustCompile(`^when.*last.*cost.*updated`),
	regexp.MustCompile(`^when.*cost.*last.*updated`),
	regexp.MustCompile(`when was the last time.*cost.*updated`),
	regexp.MustCompile(`when did.*cost.*get updated`),
}

// costUpdateStopWords are stripped when isolating a product name from a
// cost-update question.
var costUpdateStopWords = map[string]struct{}{
	"cost": {}, "costs": {}, "updated": {}, "changed": {}, "modified": {},
	"update": {}, "change": {}, "modification": {}, "when": {}, "was": {},
	"the": {}, "last": {}, "of": {}, "for": {}, "time": {}, "date": {},
	"product": {}, "item": {}, "we": {}, "had": {}, "did": {}, "get": {},
	"have": {},
}

func isCostUpdateQuery(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return matchesAny(costUpdatePatterns, lower)
}

// costUpdateProduct isolates the product named in a cost-update
// question. Empty means none was named.
func costUpdateProduct(text string) string {
	lower := strings.ToLower(text)
	if matchesAny(generalCostUpdatePatterns, lower) {
		return ""
	}

	var productWords []string
	for _, word := range strings.Fields(text) {
		clean := strings.ToLower(strings.Trim(word, ".,!?"))
		if _, stop := costUpdateStopWords[clean]; stop || len(clean) <= 1 {
			continue
		}
		productWords = append(productWords, word)
	}

	product := strings.TrimSpace(strings.Join(productWords, " "))
	return strings.Trim(product, `"'`)
}

// ============================================================
// CHIT-CHAT FILTER
// ============================================================

var nonProductPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(hi|hii|hello|hey|good morning|good afternoon|good evening)$`),
	regexp.MustCompile(`^(how are you|what's up|how's it going)$`),
	regexp.MustCompile(`^(thanks|thank you|bye|goodbye|exit|quit)$`),
	regexp.MustCompile(`^(help|what can you do|what do you do)$`),
	regexp.MustCompile(`^(test|testing)$`),
}

var productKeywords = []string{
	"price", "cost", "inventory", "stock", "dimensions", "profit", "margin", "markup",
	"product", "item", "sku", "part number", "p/n", "compare", "vs", "versus",
	"show me", "tell me about", "find", "search", "looking for",
	"how much", "what is the", "give me", "i need", "i want",
	"weight", "wheels", "total products", "how many products", "count",
	"part", "number", "model", "formula",
	"draft", "active", "archived", "published", "unpublished", "status",
	"category", "categorized", "type", "product type",
	"created after", "created before", "created on", "after", "before", "since",
}

var skuShapePattern = regexp.MustCompile(`\b[A-Z0-9]{2,}[-A-Z0-9]*\b`)

// isProductRelated reports whether the utterance is about the catalog at
// all. Everything that fails this check is handled as chit-chat.
func isProductRelated(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))

	if matchesAny(nonProductPatterns, lower) {
		return false
	}

	for _, kw := range productKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if skuShapePattern.MatchString(strings.ToUpper(text)) {
		return true
	}

	// Long utterances that dodge every keyword still deserve a real
	// classification attempt.
	return len(strings.Fields(text)) > 3
}

// ============================================================
// CURRENT-PRODUCT FOLLOW-UP
// ============================================================

var currentProductPatterns = []*regexp.Regexp{
	// Pronouns referring to the remembered product
	regexp.MustCompile(`\bit\b`),
	regexp.MustCompile(`\bthis\b`),
	regexp.MustCompile(`\bthat\b`),
	regexp.MustCompile(`\bthe product\b`),

	// Direct questions about product attributes
	regexp.MustCompile(`\bwhat\s+is\s+the\s+(price|cost|profit|margin|markup|inventory|dimensions?|weight|part\s+number|sku)\b`),
	regexp.MustCompile(`\bwhat\s+(price|cost|profit|margin|markup|inventory|dimensions?|weight|part\s+number|sku)\b`),
	regexp.MustCompile(`\b(price|cost|profit|margin|markup|inventory|dimensions?|weight|part\s+number|sku)\s*\?\s*$`),
	regexp.MustCompile(`^\s*(price|cost|profit|margin|markup|inventory|dimensions?|weight|part\s+number|sku)\s*$`),

	// Flexible question shapes
	regexp.MustCompile(`\b(what|whats|tell|show|give|provide).*\b(price|cost|profit|margin|markup|inventory|dimensions?|map|url|image|weight|part\s+number|sku)\b`),
	regexp.MustCompile(`\bhow much\b`),
	regexp.MustCompile(`\bwhat does it cost\b`),

	// Image/URL shapes
	regexp.MustCompile(`url image`),
	regexp.MustCompile(`image url`),
	regexp.MustCompile(`url of.*image`),
	regexp.MustCompile(`image.*url`),
	regexp.MustCompile(`^url$`),
	regexp.MustCompile(`^image$`),
	regexp.MustCompile(`^picture$`),
	regexp.MustCompile(`^photo$`),

	// Selling price shapes
	regexp.MustCompile(`sell price`),
	regexp.MustCompile(`selling price`),
	regexp.MustCompile(`sale price`),
	regexp.MustCompile(`advertised price`),
	regexp.MustCompile(`retail price`),

	// More-details requests
	regexp.MustCompile(`more details`),
	regexp.MustCompile(`other details`),
	regexp.MustCompile(`additional info`),
	regexp.MustCompile(`more info`),
}

// isCurrentProductQuestion reports whether the utterance asks for more
// about the product already in memory without naming one.
func isCurrentProductQuestion(text string) bool {
	return matchesAny(currentProductPatterns, strings.ToLower(strings.TrimSpace(text)))
}

// ============================================================
// DATE / STATUS / CATEGORY GATES
// ============================================================

var dateKeywords = []string{"created after", "created before", "created on", "after", "before", "since"}

func hasDateKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range dateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// statusKeywords are checked in order; first hit wins.
var statusKeywords = []struct {
	keyword string
	status  string
}{
	{"draft", "DRAFT"},
	{"active", "ACTIVE"},
	{"archived", "ARCHIVED"},
	{"published", "ACTIVE"},
	{"unpublished", "DRAFT"},
}

var categoryKeywords = []string{"category", "categorized", "type", "product type"}

var categoryValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`categorized as ['"]([^'"]+)['"]`),
	regexp.MustCompile(`category ['"]([^'"]+)['"]`),
	regexp.MustCompile(`in category ['"]([^'"]+)['"]`),
	regexp.MustCompile(`with category ['"]([^'"]+)['"]`),
	regexp.MustCompile(`type ['"]([^'"]+)['"]`),
	regexp.MustCompile(`product type ['"]([^'"]+)['"]`),
}

var commonCategories = []string{"uncategorized", "wine", "spirits", "beer", "accessories", "gift"}

// ============================================================
// COMPARISON FALLBACK
// ============================================================

var comparisonWords = []string{"compare", "vs", "versus", "difference between", "and"}

var comparisonPairPattern = regexp.MustCompile(`(?i)(\w+[-\w]*)\s+(?:and|vs|versus)\s+(\w+[-\w]*)`)

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
