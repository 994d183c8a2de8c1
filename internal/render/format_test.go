package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopmate-ai/shopmate/internal/catalog"
)

func TestCountAnswer(t *testing.T) {
	assert.Equal(t, "We have 252 products on the site.", CountAnswer(252))
}

func TestMarginFormulaAnswer(t *testing.T) {
	got := MarginFormulaAnswer()
	assert.Contains(t, got, "((Selling Price - Cost) / Selling Price) × 100")
	assert.Contains(t, got, "40%")
}

func TestStatusCategoryAnswer(t *testing.T) {
	products := catalog.MatchSet{
		{Title: "Hard Case", Status: "DRAFT", ProductType: "Cases"},
		{Title: "Foam Set", Status: "DRAFT", ProductType: ""},
	}

	t.Run("list", func(t *testing.T) {
		got := StatusCategoryAnswer(products, "DRAFT", "", "list")
		assert.Contains(t, got, "Products with status 'DRAFT':")
		assert.Contains(t, got, "• Hard Case (Status: DRAFT, Type: Cases)")
		assert.Contains(t, got, "• Foam Set (Status: DRAFT, Type: unavailable)")
	})

	t.Run("count", func(t *testing.T) {
		got := StatusCategoryAnswer(products, "DRAFT", "Uncategorized", "count")
		assert.Equal(t, "Found 2 products with status 'DRAFT' and category 'Uncategorized'.", got)
	})

	t.Run("empty", func(t *testing.T) {
		got := StatusCategoryAnswer(nil, "", "wine", "list")
		assert.Equal(t, "No products found with category 'wine'. Please verify the criteria or try different search terms.", got)
	})

	t.Run("truncates at fifteen", func(t *testing.T) {
		var many catalog.MatchSet
		for i := 0; i < 20; i++ {
			many = append(many, catalog.ProductSummary{Title: fmt.Sprintf("P%d", i), Status: "ACTIVE"})
		}
		got := StatusCategoryAnswer(many, "ACTIVE", "", "list")
		assert.Contains(t, got, "Showing first 15 of 20 products with status 'ACTIVE':")
		assert.Equal(t, 15, strings.Count(got, "• "))
	})
}

func TestDateAnswer(t *testing.T) {
	products := catalog.MatchSet{
		{Title: "New Case", CreatedAt: "2024-08-02T10:00:00Z", ProductType: "Cases"},
	}

	got := DateAnswer(products, "after", "2024-08-01", "list")
	assert.Contains(t, got, "Products created after 2024-08-01:")
	assert.Contains(t, got, "• New Case (Created: 2024-08-02, Type: Cases)")

	assert.Equal(t, "Found 1 products created after 2024-08-01.",
		DateAnswer(products, "after", "2024-08-01", "count"))
	assert.Equal(t, "No products found created before 2023-01-01.",
		DateAnswer(nil, "before", "2023-01-01", "list"))
}

func TestCostUpdateAnswer(t *testing.T) {
	got := CostUpdateAnswer("Pelican-1150", "2023-05-12T14:30:00Z", "31.50")
	assert.Contains(t, got, "'Pelican-1150'")
	assert.Contains(t, got, "May 12, 2023 at 2:30 PM UTC")
	assert.Contains(t, got, "Current cost: $31.50")
	assert.Contains(t, got, "inventory item's last modification time")

	assert.Contains(t, CostUpdateAnswer("X", "2023-05-12T14:30:00Z", ""), "Current cost: unavailable")
	assert.Equal(t, "Cost update information is not available for 'X'.", CostUpdateAnswer("X", "", "1"))
}

func TestProductUpdateAnswer(t *testing.T) {
	got := ProductUpdateAnswer("Pelican-1150", "2023-05-12T14:30:00Z")
	assert.Contains(t, got, "last updated on May 12, 2023 at 2:30 PM UTC")
	assert.Contains(t, got, "Specific cost update tracking is not available")

	assert.Equal(t, "Update information is not available for 'X'.", ProductUpdateAnswer("X", ""))
}

func TestCostUpdateChoicePromptCapsAtFive(t *testing.T) {
	var many catalog.MatchSet
	for i := 0; i < 8; i++ {
		many = append(many, catalog.ProductSummary{Title: fmt.Sprintf("P%d", i)})
	}
	got := CostUpdateChoicePrompt(many)
	assert.Equal(t, 5, strings.Count(got, "• "))
	assert.Contains(t, got, "which product you're asking about")
}

func TestGeneralReply(t *testing.T) {
	assert.Contains(t, GeneralReply("hi"), "product assistant")
	assert.Contains(t, GeneralReply("HELP"), "Compare Products")
	assert.Contains(t, GeneralReply("thank you so much"), "You're welcome")
	assert.Contains(t, GeneralReply("goodbye then"), "Goodbye")
	assert.Contains(t, GeneralReply("zzz"), "What product would you like to know about?")
}
