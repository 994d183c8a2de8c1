package catalog

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Unavailable is the display text for a product attribute the catalog
// holds no value for.
const Unavailable = "information unavailable"

// wheelKeywords mark a product as a wheeled unit. Matched against the
// description, tags, and title.
var wheelKeywords = []string{
	"wheel", "wheels", "wheeled", "rolling", "rollable", "portable",
	"mobility", "mobile", "transport", "trolley", "cart",
}

// plainDescription converts the catalog's HTML description into plain
// markdown text. A description that fails to convert, or is empty, comes
// back as Unavailable so callers never render raw HTML.
func plainDescription(converter *md.Converter, html string) string {
	if strings.TrimSpace(html) == "" {
		return Unavailable
	}
	text, err := converter.ConvertString(html)
	if err != nil {
		return Unavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Unavailable
	}
	return text
}

// DisplayWeight renders a variant's shipping weight, or Unavailable when
// the catalog has no measurement for it.
func DisplayWeight(v Variant) string {
	w := v.InventoryItem.Weight
	if w.Value == 0 {
		return Unavailable
	}
	unit := displayUnit(w.Unit)
	return fmt.Sprintf("%.2f %s", w.Value, unit)
}

func displayUnit(unit string) string {
	switch strings.ToUpper(unit) {
	case "POUNDS", "LB", "LBS":
		return "lbs"
	case "KILOGRAMS", "KG":
		return "kg"
	case "GRAMS", "G":
		return "g"
	case "OUNCES", "OZ":
		return "oz"
	case "":
		return "lbs"
	default:
		return strings.ToLower(unit)
	}
}

// DetectWheels reports whether a product has wheels, judged from keyword
// inspection over its description, tags, and title. The catalog carries
// no structured flag for this, so the answer is "Yes" or
// "No clear indication", never a hard "No".
func DetectWheels(detail *ProductDetail) string {
	parts := []string{strings.ToLower(detail.Description)}
	for _, tag := range detail.Tags {
		parts = append(parts, strings.ToLower(tag))
	}
	parts = append(parts, strings.ToLower(detail.Title))
	allText := strings.Join(parts, " ")

	for _, kw := range wheelKeywords {
		if strings.Contains(allText, kw) {
			return "Yes"
		}
	}
	return "No clear indication"
}
