package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopmate-ai/shopmate/internal/catalog"
)

const listLimit = 15

// timestampLayout renders catalog timestamps for humans.
const timestampLayout = "January 2, 2006 at 3:04 PM UTC"

// CountAnswer formats the total-product-count reply.
func CountAnswer(n int) string {
	return fmt.Sprintf("We have %d products on the site.", n)
}

// MarginFormulaAnswer is the canned margin-formula explanation.
func MarginFormulaAnswer() string {
	return "Profit margin is calculated using the formula: **Margin % = ((Selling Price - Cost) / Selling Price) × 100**\n\n" +
		"For example, if a product sells for $100 and costs $60:\nMargin % = (($100 - $60) / $100) × 100 = 40%"
}

// StatusCategoryAnswer formats a status/category result set. Lists cap
// at 15 entries with the total noted.
func StatusCategoryAnswer(products catalog.MatchSet, status, category, queryType string) string {
	criteria := criteriaDisplay(status, category)

	if len(products) == 0 {
		return fmt.Sprintf("No products found with %s. Please verify the criteria or try different search terms.", criteria)
	}

	if queryType == "count" {
		return fmt.Sprintf("Found %d products with %s.", len(products), criteria)
	}

	lines := make([]string, 0, listLimit)
	for _, p := range products[:min(len(products), listLimit)] {
		lines = append(lines, fmt.Sprintf("• %s (Status: %s, Type: %s)", p.Title, orText(p.Status), orText(p.ProductType)))
	}

	if len(products) > listLimit {
		return fmt.Sprintf("Showing first %d of %d products with %s:\n%s", listLimit, len(products), criteria, strings.Join(lines, "\n"))
	}
	return fmt.Sprintf("Products with %s:\n%s", criteria, strings.Join(lines, "\n"))
}

// DateAnswer formats a creation-date result set.
func DateAnswer(products catalog.MatchSet, condition, date, queryType string) string {
	if len(products) == 0 {
		return fmt.Sprintf("No products found created %s %s.", condition, date)
	}

	if queryType == "count" {
		return fmt.Sprintf("Found %d products created %s %s.", len(products), condition, date)
	}

	lines := make([]string, 0, listLimit)
	for _, p := range products[:min(len(products), listLimit)] {
		created := p.CreatedAt
		if len(created) >= 10 {
			created = created[:10]
		}
		lines = append(lines, fmt.Sprintf("• %s (Created: %s, Type: %s)", p.Title, orText(created), orText(p.ProductType)))
	}

	if len(products) > listLimit {
		return fmt.Sprintf("Showing first %d of %d products created %s %s:\n%s", listLimit, len(products), condition, date, strings.Join(lines, "\n"))
	}
	return fmt.Sprintf("Products created %s %s:\n%s", condition, date, strings.Join(lines, "\n"))
}

// CostUpdateAnswer formats an inventory-item cost timestamp.
func CostUpdateAnswer(title, updatedAt, cost string) string {
	if updatedAt == "" {
		return fmt.Sprintf("Cost update information is not available for '%s'.", title)
	}

	costDisplay := "unavailable"
	if cost != "" && cost != "N/A" {
		costDisplay = "$" + cost
	}

	if formatted, ok := formatTimestamp(updatedAt); ok {
		return fmt.Sprintf("The cost information for '%s' was last updated on %s. Current cost: %s. Note: This reflects the inventory item's last modification time.", title, formatted, costDisplay)
	}
	return fmt.Sprintf("The cost information for '%s' was last updated at %s. Current cost: %s.", title, updatedAt, costDisplay)
}

// ProductUpdateAnswer formats the product-level fallback when no
// tracked inventory item exists; it carries less fidelity and says so.
func ProductUpdateAnswer(title, updatedAt string) string {
	if updatedAt == "" {
		return fmt.Sprintf("Update information is not available for '%s'.", title)
	}

	if formatted, ok := formatTimestamp(updatedAt); ok {
		return fmt.Sprintf("'%s' was last updated on %s. Note: Specific cost update tracking is not available for this product.", title, formatted)
	}
	return fmt.Sprintf("'%s' was last updated at %s. Note: Specific cost update tracking is not available.", title, updatedAt)
}

// CostUpdateChoicePrompt asks which of several products a cost-update
// question is about. At most five are listed.
func CostUpdateChoicePrompt(products catalog.MatchSet) string {
	lines := make([]string, 0, 5)
	for _, p := range products[:min(len(products), 5)] {
		lines = append(lines, "• "+p.Title)
	}
	return "I found multiple products matching your search:\n" + strings.Join(lines, "\n") +
		"\n\nCould you please specify which product you're asking about?"
}

// Fixed clarification and failure texts.
const (
	MultipleProductsPrompt = "I found multiple products matching your search. Could you please specify the color and interior option you're looking for?"
	MultipleVariantsPrompt = "This product has multiple variants. Could you please specify the color and interior option you're looking for?"

	ProductComboUnavailable = "Product with the specified color and interior combination is unavailable."
	VariantComboUnavailable = "Variant with the specified color and interior combination is unavailable."
	CostUpdateChoiceFailed  = "Could not find the specified product to check cost update information."

	NoProductMatched = "No product matched your query."
	NotUnderstood    = "Sorry, I couldn't understand your question."

	SpecifyCostUpdateProduct = "Please specify which product you'd like to check the cost update information for, or ask about a specific product first."

	CollaboratorApology = "An error occurred. Please refresh the page and try again."
)

// NoMatchFor formats the miss message for one side of a comparison.
func NoMatchFor(name string) string {
	return fmt.Sprintf("No product found for '%s'. Please check the spelling or try a different search term.", name)
}

// NoCostUpdateMatch formats the miss message for a cost-update search.
func NoCostUpdateMatch(name string) string {
	return fmt.Sprintf("No product found matching '%s' to check cost update information.", name)
}

// NoVariantInfo covers products with no variants at all.
func NoVariantInfo(title string) string {
	return fmt.Sprintf("No variant information available for '%s' to check cost updates.", title)
}

// TrackingUnavailable covers products whose variants carry no inventory
// item.
func TrackingUnavailable(title string) string {
	return fmt.Sprintf("Detailed cost update information is not available for '%s'. The product may not have inventory tracking enabled.", title)
}

func formatTimestamp(iso string) (string, bool) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(timestampLayout), true
}

func criteriaDisplay(status, category string) string {
	var parts []string
	if status != "" {
		parts = append(parts, fmt.Sprintf("status '%s'", status))
	}
	if category != "" {
		parts = append(parts, fmt.Sprintf("category '%s'", category))
	}
	if len(parts) == 0 {
		return "specified criteria"
	}
	return strings.Join(parts, " and ")
}

func orText(v string) string {
	if v == "" {
		return "unavailable"
	}
	return v
}
