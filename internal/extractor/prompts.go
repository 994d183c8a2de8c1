package extractor

import (
	"fmt"
	"strings"
)

func productIntentPrompt(text string) string {
	return fmt.Sprintf(`From the query below, extract:
1. product_name_or_sku (string) - can be SKU, part number, P/N, or product title keywords
2. requested_info (list of fields like price, cost, inventory, dimensions, profit, margin, markup)

Note: SKU can also be referred to as "part number" or "P/N"

IMPORTANT: Only extract if this is clearly a product-related query. If the query is a greeting, general question, or doesn't mention any specific product, return null.

Respond as JSON:
{"product_name_or_sku": "...", "requested_info": ["...", "..."]}

If this is not a product query, respond with:
{"product_name_or_sku": null, "requested_info": []}

Query: %q`, text)
}

func comparisonIntentPrompt(text string) string {
	return fmt.Sprintf(`From the query below, determine if this is a comparison query and extract:
1. is_comparison (boolean)
2. product1_name_or_sku (string)
3. product2_name_or_sku (string)
4. requested_info (list of fields like price, cost, inventory, dimensions, profit, margin)

Look for keywords like "compare", "vs", "versus", "difference between", "and" connecting two products.

Respond as JSON:
{"is_comparison": true/false, "product1_name_or_sku": "...", "product2_name_or_sku": "...", "requested_info": ["...", "..."]}

Query: %q`, text)
}

func statusCategoryPrompt(text string) string {
	return fmt.Sprintf(`From the query below, extract:
1. status_value (one of: DRAFT, ACTIVE, ARCHIVED, or empty string if not mentioned)
2. category_value (the product category/type mentioned, or empty string if not mentioned)

Query: %q

Examples:
- "Which products have status 'Draft' and are categorized as 'Uncategorized'?"
  -> status_value: "DRAFT", category_value: "Uncategorized"
- "How many active wine products?"
  -> status_value: "ACTIVE", category_value: "wine"
- "List all draft products"
  -> status_value: "DRAFT", category_value: ""

Respond as JSON:
{"status_value": "...", "category_value": "..."}`, text)
}

func dateFilterPrompt(text string) string {
	return fmt.Sprintf(`From the query below, extract:
1. date_condition (one of: "after", "before", "on")
2. date_value (in YYYY-MM-DD format)
3. query_type (one of: "list", "count")

Examples:
- "List products created after August 1, 2024" -> date_condition: "after", date_value: "2024-08-01", query_type: "list"
- "How many products were created before January 15, 2024?" -> date_condition: "before", date_value: "2024-01-15", query_type: "count"
- "Show products created on December 1, 2023" -> date_condition: "on", date_value: "2023-12-01", query_type: "list"

Query: %q

Respond as JSON:
{"date_condition": "...", "date_value": "...", "query_type": "..."}`, text)
}

func matchCandidatePrompt(text string, candidates []string) string {
	var list strings.Builder
	for _, c := range candidates {
		list.WriteString("- ")
		list.WriteString(c)
		list.WriteString("\n")
	}

	return fmt.Sprintf(`The user is choosing between products and specified: %q

Available products:
%s
Your task is to find the best matching product ONLY if the user's specified color and interior both exist in the product title or SKU.

DO NOT try to guess or offer a similar product. If no product contains the actual color or interior mentioned by the user (e.g., "purple" or "velvet"), return null with "low" confidence.

Be flexible with matching:
- Match colors regardless of case (Red = red = RED)
- If the user only mentions a color, match any product with that color
- If the user mentions color + other specs, try to match both

Color mappings:
- Yellow/Yellow color = YLW
- Orange/Orange color = OD
- Black/Black color = BLK
- Clear/Transparent = CLR
- Red/Red color = RED

Interior options:
- No Foam/Empty/Without foam = NF
- Foam/With foam = F
- Dividers/With dividers = DIV
- Padded/Padded dividers = PD

Look for these patterns in the product SKUs and titles.

Examples:
- "black empty" should match products with "BLK" and "NF"
- "yellow with foam" should match products with "YLW" and "F"
- "orange dividers" should match products with "OD" and "DIV"

Respond as JSON:
{"matched_product_title": "exact title from the list", "confidence": "high/medium/low"}

IMPORTANT: If no product contains the actual color or interior option mentioned by the user, do not guess. Respond with:
{"matched_product_title": null, "confidence": "low"}`, text, list.String())
}
