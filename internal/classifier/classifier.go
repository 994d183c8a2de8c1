package classifier

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
	"github.com/shopmate-ai/shopmate/internal/extractor"
	"github.com/shopmate-ai/shopmate/internal/session"
)

// Classifier classifies user utterances against the session state.
type Classifier struct {
	extractor extractor.Extractor
	logger    *zap.Logger
}

// New creates a classifier backed by the given extractor.
func New(ex extractor.Extractor, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{extractor: ex, logger: logger}
}

// Classify determines the intent of one utterance. Rules run in a fixed
// order and the first match wins. The only session mutation performed
// here is clearing the remembered product when the utterance moves the
// conversation to a different one.
//
// A malformed extractor reply counts as "no intent detected" for the
// rule that asked, never as a failure of the whole call. Only an
// unreachable extractor surfaces as an error.
func (c *Classifier) Classify(ctx context.Context, text string, sess *session.Context) (Intent, error) {
	text = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), "?"))
	lower := strings.ToLower(text)

	// Rule 1: product count
	if matchesAny(countPatterns, lower) {
		return Count{}, nil
	}

	// Rule 2: margin formula
	if matchesAny(marginFormulaPatterns, lower) {
		return MarginFormula{}, nil
	}

	// Rule 3: cost update timestamps
	if isCostUpdateQuery(text) {
		return CostUpdate{Product: costUpdateProduct(text)}, nil
	}

	// Rule 4: remembered-product short circuit
	if sess.Current != nil && sess.Pending == nil {
		fresh, err := c.isNewProductRequest(ctx, text, sess)
		if err != nil {
			return nil, err
		}
		if fresh {
			sess.ClearCurrent()
		} else if isCurrentProductQuestion(text) {
			return CurrentProduct{Fields: RequestedFields(text)}, nil
		}
	}

	// Rule 5: pending clarification owns the utterance
	if sess.Pending != nil {
		return ClarificationReply{Text: text}, nil
	}

	// Rule 6: chit-chat filter
	if !isProductRelated(text) {
		return Chitchat{}, nil
	}

	// Rule 7: creation-date filter
	if intent, ok, err := c.dateIntent(ctx, text); err != nil {
		return nil, err
	} else if ok {
		return intent, nil
	}

	// Rule 8: status and/or category
	if intent, ok, err := c.statusCategoryIntent(ctx, text); err != nil {
		return nil, err
	} else if ok {
		return intent, nil
	}

	// Rule 9: comparison
	if intent, ok, err := c.comparisonIntent(ctx, text); err != nil {
		return nil, err
	} else if ok {
		return intent, nil
	}

	// Rule 10: single product
	q, err := c.extractor.ProductIntent(ctx, text)
	if err != nil && !apperrors.IsExtractionMalformed(err) {
		return nil, err
	}
	if q == nil {
		return Unrecognized{}, nil
	}
	return SingleProduct{Query: q.Entity, Fields: q.Fields}, nil
}

// isNewProductRequest reports whether the utterance moves the
// conversation away from the remembered product: a different entity
// (substring test both directions) or any comparison.
func (c *Classifier) isNewProductRequest(ctx context.Context, text string, sess *session.Context) (bool, error) {
	current := strings.ToLower(sess.Current.Title)

	q, err := c.extractor.ProductIntent(ctx, text)
	if err != nil && !apperrors.IsExtractionMalformed(err) {
		return false, err
	}
	if q != nil {
		requested := strings.ToLower(q.Entity)
		if !strings.Contains(current, requested) && !strings.Contains(requested, current) {
			return true, nil
		}
	}

	cmp, err := c.extractor.ComparisonIntent(ctx, text)
	if err != nil && !apperrors.IsExtractionMalformed(err) {
		return false, err
	}
	if cmp != nil && cmp.IsComparison {
		return true, nil
	}
	return false, nil
}

func (c *Classifier) dateIntent(ctx context.Context, text string) (Intent, bool, error) {
	if !hasDateKeyword(text) {
		return nil, false, nil
	}

	q, err := c.extractor.DateFilter(ctx, text)
	if err != nil {
		if apperrors.IsExtractionMalformed(err) {
			c.logger.Debug("date extraction failed, falling through", zap.Error(err))
			return nil, false, nil
		}
		return nil, false, err
	}
	if q == nil {
		return nil, false, nil
	}
	return DateFilter{Condition: q.Condition, Date: q.Date, QueryType: q.QueryType}, true, nil
}

// statusCategoryIntent detects status/category queries with keywords
// first, then asks the extractor only for values the keywords could not
// pin down.
func (c *Classifier) statusCategoryIntent(ctx context.Context, text string) (Intent, bool, error) {
	lower := strings.ToLower(text)

	isStatus := strings.Contains(lower, "status")
	status := ""
	if isStatus {
		for _, sk := range statusKeywords {
			if strings.Contains(lower, sk.keyword) {
				status = sk.status
				break
			}
		}
	}

	isCategory := false
	category := ""
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw) {
			isCategory = true
			break
		}
	}
	if isCategory {
		for _, p := range categoryValuePatterns {
			if m := p.FindStringSubmatch(lower); m != nil {
				category = strings.TrimSpace(m[1])
				break
			}
		}
		if category == "" {
			for _, cat := range commonCategories {
				if strings.Contains(lower, cat) {
					category = cat
					break
				}
			}
		}
	}

	if !isStatus && !isCategory {
		return nil, false, nil
	}

	// Extractor fallback for values the keywords missed
	if (isStatus && status == "") || (isCategory && category == "") {
		q, err := c.extractor.StatusCategoryFallback(ctx, text)
		if err != nil && !apperrors.IsExtractionMalformed(err) {
			return nil, false, err
		}
		if q != nil {
			if q.Status != "" {
				status = q.Status
				isStatus = true
			}
			if q.Category != "" {
				category = q.Category
				isCategory = true
			}
		}
	}

	queryType := "list"
	if strings.Contains(lower, "how many") || strings.Contains(lower, "count") {
		queryType = "count"
	}

	return StatusCategory{Status: status, Category: category, QueryType: queryType}, true, nil
}

func (c *Classifier) comparisonIntent(ctx context.Context, text string) (Intent, bool, error) {
	cmp, err := c.extractor.ComparisonIntent(ctx, text)
	if err != nil && !apperrors.IsExtractionMalformed(err) {
		return nil, false, err
	}

	if cmp != nil && cmp.IsComparison {
		return Comparison{Product1: cmp.Entity1, Product2: cmp.Entity2, Fields: cmp.Fields}, true, nil
	}

	// Regex fallback when the extractor saw no comparison
	lower := strings.ToLower(text)
	hasWord := false
	for _, w := range comparisonWords {
		if strings.Contains(lower, w) {
			hasWord = true
			break
		}
	}
	if !hasWord {
		return nil, false, nil
	}

	m := comparisonPairPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false, nil
	}

	fields := []string{"price", "cost", "inventory"}
	for _, w := range []string{"cost", "profit", "margin"} {
		if strings.Contains(lower, w) {
			fields = []string{"price", "cost", "profit", "margin"}
			break
		}
	}
	return Comparison{Product1: m[1], Product2: m[2], Fields: fields}, true, nil
}
