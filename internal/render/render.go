// Package render turns resolved data into the assistant's replies.
// Product and comparison answers are phrased by the LLM from fully
// resolved facts; list, count, cost-update, and chit-chat replies are
// formatted deterministically with no model call.
package render

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shopmate-ai/shopmate/internal/catalog"
	"github.com/shopmate-ai/shopmate/internal/session"
)

// Completer phrases one prompt. Satisfied by the extractor's LLM client.
type Completer interface {
	Complete(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

// Renderer produces assistant replies.
type Renderer struct {
	llm    Completer
	logger *zap.Logger
}

// New creates a renderer.
func New(llm Completer, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{llm: llm, logger: logger}
}

// ProductAnswer phrases an answer about one resolved product. The
// memory snapshot carries everything needed; nothing is refetched here.
func (r *Renderer) ProductAnswer(ctx context.Context, query string, mem *session.ProductMemory, fields []string) (string, error) {
	weight := catalog.DisplayWeight(mem.Variant)

	wheels := catalog.Unavailable
	if mem.Detail != nil {
		wheels = catalog.DetectWheels(mem.Detail)
	}

	partNumber := mem.Variant.SKU
	if partNumber == "" {
		partNumber = catalog.Unavailable
	}

	marginRequest := strings.Contains(strings.ToLower(query), "margin") && containsField(fields, "margin")

	prompt := productAnswerPrompt(query, mem, fields, weight, wheels, partNumber, marginRequest)
	return r.llm.Complete(ctx, prompt, false)
}

// ComparisonAnswer phrases a two-product comparison. When the user asked
// about exactly one field, the reply is restricted to that field.
func (r *Renderer) ComparisonAnswer(ctx context.Context, query string, a, b *session.ProductMemory, fields []string) (string, error) {
	field := specificField(query, fields)

	var prompt string
	if field != "" {
		prompt = focusedComparisonPrompt(query, a, b, field)
	} else {
		prompt = generalComparisonPrompt(query, a, b, fields)
	}
	return r.llm.Complete(ctx, prompt, false)
}

// comparisonFieldKeywords pairs comparable fields with the phrasings
// that single them out.
var comparisonFieldKeywords = []struct {
	field    string
	keywords []string
}{
	{"price", []string{"price", "pricing", "cost to customer", "selling price", "prices"}},
	{"cost", []string{"cost", "unit cost", "internal cost", "costs"}},
	{"profit", []string{"profit", "profitability", "profits"}},
	{"margin", []string{"margin", "profit margin", "percentage", "margins"}},
	{"markup", []string{"markup", "mark up", "mark-up", "markups"}},
	{"inventory", []string{"inventory", "stock", "quantity", "quantities"}},
	{"dimensions", []string{"dimensions", "dimension", "exterior dimensions", "size", "measurements"}},
}

// specificField decides whether the comparison is about exactly one
// field: either the request named just one, or the query text singles
// one out.
func specificField(query string, fields []string) string {
	if len(fields) == 1 {
		single := strings.ToLower(fields[0])
		for _, fk := range comparisonFieldKeywords {
			if fk.field == single {
				return single
			}
		}
	}

	lower := strings.ToLower(query)
	for _, fk := range comparisonFieldKeywords {
		for _, kw := range fk.keywords {
			if strings.Contains(lower, kw) {
				if len(fields) == 0 || containsField(fields, fk.field) {
					return fk.field
				}
			}
		}
	}
	return ""
}

// fieldValue pulls one comparable value out of a memory snapshot.
func fieldValue(mem *session.ProductMemory, field string) string {
	switch field {
	case "price":
		return orUnavailable(mem.Variant.Price)
	case "cost":
		return orUnavailable(mem.Cost)
	case "profit":
		return orUnavailable(mem.Profit)
	case "margin":
		return orUnavailable(mem.Margin)
	case "markup":
		return orUnavailable(mem.Markup)
	case "inventory":
		return fmt.Sprintf("%d units", mem.Variant.InventoryQuantity)
	default:
		return "unavailable"
	}
}

func orUnavailable(v string) string {
	if v == "" || v == "N/A" {
		return "unavailable"
	}
	return v
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

// productFacts renders a memory snapshot as the fact block the phrasing
// prompts consume.
func productFacts(mem *session.ProductMemory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", mem.Title)
	fmt.Fprintf(&b, "Variant: %s\n", orUnavailable(mem.Variant.Title))
	fmt.Fprintf(&b, "Price: %s\n", orUnavailable(mem.Variant.Price))
	fmt.Fprintf(&b, "Cost: %s\n", orUnavailable(mem.Cost))
	fmt.Fprintf(&b, "Profit: %s\n", orUnavailable(mem.Profit))
	fmt.Fprintf(&b, "Margin: %s\n", orUnavailable(mem.Margin))
	fmt.Fprintf(&b, "Markup: %s\n", orUnavailable(mem.Markup))
	fmt.Fprintf(&b, "Inventory: %d units\n", mem.Variant.InventoryQuantity)
	fmt.Fprintf(&b, "Status: %s\n", detailField(mem, func(d *catalog.ProductDetail) string { return d.Status }))
	fmt.Fprintf(&b, "Image URL: %s\n", orUnavailable(mem.ImageURL))
	return b.String()
}

func detailField(mem *session.ProductMemory, get func(*catalog.ProductDetail) string) string {
	if mem.Detail == nil {
		return "unavailable"
	}
	return orUnavailable(get(mem.Detail))
}
