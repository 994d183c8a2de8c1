// Package extractor pulls structured intent out of free-form user text
// with an LLM. Model output is never trusted as-is: every operation
// decodes the reply as JSON into a typed struct and runs it through
// schema validation before a caller sees it.
package extractor

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
)

// Extractor is the intent-extraction contract. Implementations must be
// stateless across calls so classification stays repeatable for the
// same input.
type Extractor interface {
	// ProductIntent extracts a product reference and the fields asked
	// about. Returns nil when the text is not a product query.
	ProductIntent(ctx context.Context, text string) (*ProductQuery, error)

	// ComparisonIntent determines whether the text compares two products.
	ComparisonIntent(ctx context.Context, text string) (*ComparisonQuery, error)

	// StatusCategoryFallback extracts status/category values the regex
	// layer could not pin down.
	StatusCategoryFallback(ctx context.Context, text string) (*StatusCategoryQuery, error)

	// DateFilter extracts a creation-date condition. Returns nil when no
	// usable date intent is present.
	DateFilter(ctx context.Context, text string) (*DateQuery, error)

	// MatchCandidate picks which of the candidate titles the text refers
	// to. Returns nil when there is no confident match; a title outside
	// the candidate set is discarded, never surfaced.
	MatchCandidate(ctx context.Context, text string, candidates []string) (*CandidateMatch, error)
}

// ProductQuery is a single-product question.
type ProductQuery struct {
	Entity string   `json:"product_name_or_sku"`
	Fields []string `json:"requested_info"`
}

// ComparisonQuery is a two-product comparison question.
type ComparisonQuery struct {
	IsComparison bool     `json:"is_comparison"`
	Entity1      string   `json:"product1_name_or_sku" validate:"required_if=IsComparison true"`
	Entity2      string   `json:"product2_name_or_sku" validate:"required_if=IsComparison true"`
	Fields       []string `json:"requested_info"`
}

// StatusCategoryQuery carries status and/or category values. Either may
// be empty; an empty struct means the model found neither.
type StatusCategoryQuery struct {
	Status   string `json:"status_value" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	Category string `json:"category_value"`
}

// DateQuery is a creation-date filter.
type DateQuery struct {
	Condition string `json:"date_condition" validate:"required,oneof=after before on"`
	Date      string `json:"date_value" validate:"required,datetime=2006-01-02"`
	QueryType string `json:"query_type" validate:"required,oneof=list count"`
}

// CandidateMatch names the candidate a clarifying reply refers to.
type CandidateMatch struct {
	Title      string `json:"matched_product_title"`
	Confidence string `json:"confidence" validate:"omitempty,oneof=high medium low"`
}

var validate = validator.New()

// decodeStrict parses model output into out and validates it. Models
// sometimes fence their JSON in markdown; the fence is stripped before
// decoding, nothing else is repaired.
func decodeStrict(raw string, out any) error {
	cleaned := stripFence(raw)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return apperrors.ExtractionMalformed(err)
	}
	if err := validate.Struct(out); err != nil {
		return apperrors.ExtractionMalformed(err)
	}
	return nil
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
