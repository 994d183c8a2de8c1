// Package dialog runs the conversation: it classifies each utterance,
// resolves it against the catalog, drives the disambiguation state
// machine, and keeps the session's memory and pending state in step
// with what was answered.
package dialog

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopmate-ai/shopmate/internal/catalog"
	"github.com/shopmate-ai/shopmate/internal/classifier"
	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
	"github.com/shopmate-ai/shopmate/internal/extractor"
	"github.com/shopmate-ai/shopmate/internal/finance"
	"github.com/shopmate-ai/shopmate/internal/render"
	"github.com/shopmate-ai/shopmate/internal/session"
)

// Catalog is the product lookup surface the engine needs.
type Catalog interface {
	SearchByText(ctx context.Context, text string) (catalog.MatchSet, error)
	FetchDetail(ctx context.Context, id string) (*catalog.ProductDetail, error)
	SearchByCriteria(ctx context.Context, status, category string) (catalog.MatchSet, error)
	SearchByDate(ctx context.Context, cond catalog.DateCondition, date string) (catalog.MatchSet, error)
	InventoryUpdateTime(ctx context.Context, inventoryItemID string) (*catalog.InventoryTimestamp, error)
	CountProducts(ctx context.Context) (int, error)
}

// Renderer phrases resolved product data.
type Renderer interface {
	ProductAnswer(ctx context.Context, query string, mem *session.ProductMemory, fields []string) (string, error)
	ComparisonAnswer(ctx context.Context, query string, a, b *session.ProductMemory, fields []string) (string, error)
}

// Engine is the conversation loop body.
type Engine struct {
	catalog    Catalog
	extractor  extractor.Extractor
	classifier *classifier.Classifier
	renderer   Renderer
	logger     *zap.Logger
}

// New creates a dialog engine.
func New(cat Catalog, ex extractor.Extractor, cls *classifier.Classifier, r Renderer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog:    cat,
		extractor:  ex,
		classifier: cls,
		renderer:   r,
		logger:     logger,
	}
}

// ProcessTurn handles one user utterance and returns the assistant's
// reply. Both turns are appended to the session log. A collaborator
// failure never escapes: the session is reset and the user gets an
// apology, because stale pending state after a failure cannot be
// trusted.
func (e *Engine) ProcessTurn(ctx context.Context, sess *session.Context, text string) string {
	sess.Append(session.SpeakerUser, text)

	answer, err := e.dispatch(ctx, sess, text)
	if err != nil {
		e.logger.Error("turn failed",
			zap.String("session", sess.ID),
			zap.Stringer("category", apperrors.GetCategory(err)),
			zap.Error(err))
		sess.Reset()
		answer = render.CollaboratorApology
	}

	sess.Append(session.SpeakerAssistant, answer)
	return answer
}

func (e *Engine) dispatch(ctx context.Context, sess *session.Context, text string) (string, error) {
	intent, err := e.classifier.Classify(ctx, text, sess)
	if err != nil {
		return "", err
	}

	switch it := intent.(type) {
	case classifier.Count:
		n, err := e.catalog.CountProducts(ctx)
		if err != nil {
			return "", err
		}
		return render.CountAnswer(n), nil

	case classifier.MarginFormula:
		return render.MarginFormulaAnswer(), nil

	case classifier.CostUpdate:
		return e.handleCostUpdate(ctx, sess, text, it.Product)

	case classifier.CurrentProduct:
		return e.renderer.ProductAnswer(ctx, text, sess.Current, it.Fields)

	case classifier.ClarificationReply:
		return e.handleClarification(ctx, sess, it.Text)

	case classifier.Chitchat:
		return render.GeneralReply(text), nil

	case classifier.DateFilter:
		matches, err := e.catalog.SearchByDate(ctx, catalog.DateCondition(it.Condition), it.Date)
		if err != nil {
			return "", err
		}
		return render.DateAnswer(matches, it.Condition, it.Date, it.QueryType), nil

	case classifier.StatusCategory:
		matches, err := e.catalog.SearchByCriteria(ctx, it.Status, it.Category)
		if err != nil {
			return "", err
		}
		return render.StatusCategoryAnswer(matches, it.Status, it.Category, it.QueryType), nil

	case classifier.Comparison:
		return e.handleComparison(ctx, text, it)

	case classifier.SingleProduct:
		return e.handleSingleProduct(ctx, sess, text, it.Query, it.Fields)

	default:
		return render.NotUnderstood, nil
	}
}

// handleSingleProduct resolves a named product: zero matches fail,
// several ask for a pick, one goes on to variant resolution.
func (e *Engine) handleSingleProduct(ctx context.Context, sess *session.Context, text, query string, fields []string) (string, error) {
	matches, err := e.catalog.SearchByText(ctx, query)
	if err != nil {
		return "", err
	}

	switch {
	case len(matches) == 0:
		return render.NoProductMatched, nil

	case len(matches) > 1:
		sess.SetPending(&session.Clarification{
			Kind:           session.ProductChoice,
			Products:       matches,
			OriginalQuery:  text,
			OriginalFields: fields,
		})
		return render.MultipleProductsPrompt, nil
	}

	detail, err := e.catalog.FetchDetail(ctx, matches[0].ID)
	if err != nil {
		return "", err
	}

	if len(detail.Variants) > 1 {
		sess.SetPending(&session.Clarification{
			Kind:           session.VariantChoice,
			Parent:         detail,
			OriginalQuery:  text,
			OriginalFields: fields,
		})
		return render.MultipleVariantsPrompt, nil
	}

	return e.answerWithProduct(ctx, sess, detail, firstVariant(detail), text, fields)
}

// handleComparison resolves both sides and phrases the comparison.
// Comparisons take the first match of each search and never ask for
// clarification; the remembered product is untouched.
func (e *Engine) handleComparison(ctx context.Context, text string, it classifier.Comparison) (string, error) {
	matches1, err := e.catalog.SearchByText(ctx, it.Product1)
	if err != nil {
		return "", err
	}
	if len(matches1) == 0 {
		return render.NoMatchFor(it.Product1), nil
	}

	matches2, err := e.catalog.SearchByText(ctx, it.Product2)
	if err != nil {
		return "", err
	}
	if len(matches2) == 0 {
		return render.NoMatchFor(it.Product2), nil
	}

	detail1, err := e.catalog.FetchDetail(ctx, matches1[0].ID)
	if err != nil {
		return "", err
	}
	detail2, err := e.catalog.FetchDetail(ctx, matches2[0].ID)
	if err != nil {
		return "", err
	}

	memA := buildMemory(detail1, firstVariant(detail1))
	memB := buildMemory(detail2, firstVariant(detail2))

	return e.renderer.ComparisonAnswer(ctx, text, memA, memB, it.Fields)
}

// handleCostUpdate resolves a cost-timestamp question. With no product
// named it falls back to the remembered product; with several matches
// it asks for a pick.
func (e *Engine) handleCostUpdate(ctx context.Context, sess *session.Context, text, product string) (string, error) {
	if product == "" {
		if sess.Current == nil {
			return render.SpecifyCostUpdateProduct, nil
		}

		itemID := sess.Current.Variant.InventoryItem.ID
		if itemID == "" {
			return render.TrackingUnavailable(sess.Current.Title), nil
		}

		ts, err := e.catalog.InventoryUpdateTime(ctx, itemID)
		if err != nil {
			return "", err
		}
		return render.CostUpdateAnswer(sess.Current.Title, ts.UpdatedAt, ts.Cost), nil
	}

	matches, err := e.catalog.SearchByText(ctx, product)
	if err != nil {
		return "", err
	}

	switch {
	case len(matches) == 0:
		return render.NoCostUpdateMatch(product), nil

	case len(matches) > 1:
		sess.SetPending(&session.Clarification{
			Kind:          session.CostUpdateChoice,
			Products:      matches,
			OriginalQuery: text,
		})
		return render.CostUpdateChoicePrompt(matches), nil
	}

	detail, err := e.catalog.FetchDetail(ctx, matches[0].ID)
	if err != nil {
		return "", err
	}
	return e.costUpdateForDetail(ctx, detail)
}

// costUpdateForDetail answers with the best timestamp the catalog has:
// the inventory item's own update time when a tracked item exists, else
// the product-level update time flagged as lower fidelity.
func (e *Engine) costUpdateForDetail(ctx context.Context, detail *catalog.ProductDetail) (string, error) {
	if len(detail.Variants) == 0 {
		return render.NoVariantInfo(detail.Title), nil
	}

	itemID := detail.Variants[0].InventoryItem.ID
	if itemID == "" {
		return render.ProductUpdateAnswer(detail.Title, detail.UpdatedAt), nil
	}

	ts, err := e.catalog.InventoryUpdateTime(ctx, itemID)
	if err != nil {
		return "", err
	}
	return render.CostUpdateAnswer(detail.Title, ts.UpdatedAt, ts.Cost), nil
}

// answerWithProduct stores the resolved product in memory and phrases
// the answer to the given query.
func (e *Engine) answerWithProduct(ctx context.Context, sess *session.Context, detail *catalog.ProductDetail, variant catalog.Variant, query string, fields []string) (string, error) {
	mem := buildMemory(detail, variant)
	sess.SetCurrent(mem)
	return e.renderer.ProductAnswer(ctx, query, mem, fields)
}

// buildMemory derives the memory snapshot for one resolved variant.
func buildMemory(detail *catalog.ProductDetail, variant catalog.Variant) *session.ProductMemory {
	cost := ""
	if variant.HasCost() {
		cost = variant.InventoryItem.UnitCost.Amount
	}

	pm := finance.ProfitAndMargin(cost, variant.Price)

	return &session.ProductMemory{
		Title:    detail.Title,
		Detail:   detail,
		Variant:  variant,
		Cost:     cost,
		Profit:   pm.Profit,
		Margin:   pm.Margin,
		Markup:   finance.Markup(cost, variant.Price),
		ImageURL: detail.ImageURL,
	}
}

func firstVariant(detail *catalog.ProductDetail) catalog.Variant {
	if len(detail.Variants) == 0 {
		return catalog.Variant{}
	}
	return detail.Variants[0]
}
