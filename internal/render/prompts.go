package render

import (
	"fmt"
	"strings"

	"github.com/shopmate-ai/shopmate/internal/session"
)

func infoStr(fields []string) string {
	if len(fields) == 0 {
		return "all relevant fields"
	}
	return strings.Join(fields, ", ")
}

const marginCalculationInstruction = `1. MARGIN CALCULATION: The user is asking about margin. Provide the margin value AND show the calculation. Extract the actual price and cost values from the product data and show: 'Margin: X% (calculated as: (($Y - $Z) / $Y) × 100 = X%)' where Y is the price and Z is the cost. The formula must be explicitly included as part of the response.`

func productAnswerPrompt(query string, mem *session.ProductMemory, fields []string, weight, wheels, partNumber string, marginRequest bool) string {
	special := ""
	if marginRequest {
		special = marginCalculationInstruction
	}

	return fmt.Sprintf(`User asked: %q

Product Data:
%s
Additional Information:
- Weight: %s
- Has Wheels: %s
- Part Number/SKU: %s

SPECIAL INSTRUCTIONS:
%s

RESPONSE FORMAT REQUIREMENTS:
1. For numerical values: Provide exact figures with relevant units:
   - Price/Cost: Include currency symbol (e.g., $25.99)
   - Dimensions: Include units (e.g., 750ml, 12.5cm)
   - Weight: Include units (e.g., 5.2 kg, 11.5 lbs)
   - Percentages: Include %% symbol (e.g., 15.5%%)
   - Inventory: Include "units" (e.g., 50 units)

2. For categorical data: Reference exact terms or values from the dataset:
   - Product status: Use exact status (e.g., ACTIVE, DRAFT, ARCHIVED)
   - Categories: Use exact category names from productType or tags
   - Wheels: Yes/No/No clear indication
   - Part Number: Exact SKU value

3. Missing Data: If a value is absent in the dataset, clearly state "information unavailable" (not "N/A")

4. Error Handling: If data is missing or unavailable for a requested field, indicate this clearly without making assumptions

5. Stick to what is explicitly provided - avoid assumptions where data is incomplete

6. MARGIN FORMULA: If the user asks about margin calculation or formula, provide:
   "Profit margin is calculated using: Margin %% = ((Selling Price - Cost) / Selling Price) × 100"

Field definitions:
- 'price' = customer-facing selling price from variant
- 'cost' = internal cost from inventory item
- 'profit' = calculated profit (price - cost)
- 'margin' = calculated margin percentage ((profit/price) * 100)
- 'markup' = calculated markup (price / cost)
- 'inventory' = stock quantity
- 'dimensions' = product dimensions in order: length, width, height
- 'weight' = product weight with appropriate units
- 'wheels' = whether the product has wheels for mobility
- 'part_number' = SKU/part number/model number
- 'image_url' = main product image URL

Respond using only: %s.

For missing fields, state "information unavailable" clearly.
If 'image_url' is requested, return the direct image URL only once without markdown or formatting.
If margin formula is requested, include the calculation formula.
Use factual, precise language with exact values and appropriate units.`,
		query, productFacts(mem), weight, wheels, partNumber, special, infoStr(fields))
}

func focusedComparisonPrompt(query string, a, b *session.ProductMemory, field string) string {
	capField := strings.ToUpper(field[:1]) + field[1:]

	return fmt.Sprintf(`User asked: %q

Product 1: %s
%s: %s

Product 2: %s
%s: %s

RESPONSE FORMAT REQUIREMENTS:
1. For numerical values: Provide exact figures with relevant units (e.g., price in dollars, dimensions in cm)
2. For categorical data: Reference exact terms or values from the dataset
3. Missing Data: If a value is absent, clearly state "unavailable" or "information unavailable"
4. Error Handling: If data is missing, indicate this clearly without making assumptions
5. Stick to what is explicitly provided in the data

IMPORTANT: The user is asking ONLY about %s comparison.

Response format:
- If both values are available: "%s %s is [exact value with units], while %s %s is [exact value with units]."
- If one value is unavailable: "%s %s is [value/unavailable], while %s %s is [value/unavailable]."
- If both values are unavailable: "%s information is unavailable for both products."

For price/cost values: Include currency symbol (e.g., $25.99)
For percentage values: Include %% symbol (e.g., 15.5%%)
For inventory: Include units (e.g., 50 units)

DO NOT mention any other fields. Use only normal text without markdown formatting.`,
		query,
		a.Title, capField, fieldValue(a, field),
		b.Title, capField, fieldValue(b, field),
		field,
		a.Title, field, b.Title, field,
		a.Title, field, b.Title, field,
		capField)
}

func generalComparisonPrompt(query string, a, b *session.ProductMemory, fields []string) string {
	return fmt.Sprintf(`User asked: %q

Product 1 Data:
%s
Product 2 Data:
%s
RESPONSE FORMAT REQUIREMENTS:
1. For numerical values: Provide exact figures with relevant units (e.g., price in dollars, cost in dollars, dimensions in cm)
2. For categorical data: Reference exact terms or values from the dataset
3. Missing Data: If a value is absent, clearly state "unavailable" or "information unavailable"
4. Error Handling: If data is missing, indicate this clearly without making assumptions
5. Stick to what is explicitly provided in the data

Field definitions:
- 'price' = customer-facing selling price from variant (include $ symbol)
- 'cost' = internal cost from inventory item (include $ symbol)
- 'profit' = calculated profit (price - cost) (include $ symbol)
- 'margin' = calculated margin percentage ((profit/price) * 100) (include %% symbol)
- 'inventory' = stock quantity (include "units" if applicable)

Compare these two products focusing on: %s.

For each field:
- Provide exact values with appropriate units
- If data is missing, state "unavailable"
- Do not make assumptions about missing data
- Use clear, factual language

Format: Use normal text without special characters, markdown, asterisks, underscores, or formatting symbols.`,
		query, productFacts(a), productFacts(b), infoStr(fields))
}
