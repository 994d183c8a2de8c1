package dialog

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopmate-ai/shopmate/internal/catalog"
	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
	"github.com/shopmate-ai/shopmate/internal/render"
	"github.com/shopmate-ai/shopmate/internal/session"
)

// handleClarification consumes the reply to a pending question. The
// pending state never survives the reply: it either resolves into an
// answer or the conversation gives up on it, so a stray follow-up can't
// be captured by a stale question.
func (e *Engine) handleClarification(ctx context.Context, sess *session.Context, reply string) (string, error) {
	pending := sess.Pending
	if pending == nil {
		return render.NotUnderstood, nil
	}

	switch pending.Kind {
	case session.ProductChoice:
		return e.resolveProductChoice(ctx, sess, pending, reply)
	case session.VariantChoice:
		return e.resolveVariantChoice(ctx, sess, pending, reply)
	case session.CostUpdateChoice:
		return e.resolveCostUpdateChoice(ctx, sess, pending, reply)
	default:
		sess.ClearPending()
		return render.NotUnderstood, nil
	}
}

// resolveProductChoice picks a product from the candidate list. When
// the pick itself has several variants, the same reply is first tried
// against the variant titles before asking again; users often name the
// full combination in one go.
func (e *Engine) resolveProductChoice(ctx context.Context, sess *session.Context, pending *session.Clarification, reply string) (string, error) {
	summary, ok, err := e.pickCandidate(ctx, reply, pending.Products)
	if err != nil {
		return "", err
	}
	if !ok {
		sess.ClearPending()
		return render.ProductComboUnavailable, nil
	}

	detail, err := e.catalog.FetchDetail(ctx, summary.ID)
	if err != nil {
		return "", err
	}

	if len(detail.Variants) > 1 {
		if variant, found, err := e.pickVariant(ctx, reply, detail); err != nil {
			return "", err
		} else if found {
			sess.ClearPending()
			return e.answerWithProduct(ctx, sess, detail, variant, pending.OriginalQuery, pending.OriginalFields)
		}

		sess.SetPending(&session.Clarification{
			Kind:           session.VariantChoice,
			Parent:         detail,
			OriginalQuery:  pending.OriginalQuery,
			OriginalFields: pending.OriginalFields,
		})
		return render.MultipleVariantsPrompt, nil
	}

	sess.ClearPending()
	return e.answerWithProduct(ctx, sess, detail, firstVariant(detail), pending.OriginalQuery, pending.OriginalFields)
}

func (e *Engine) resolveVariantChoice(ctx context.Context, sess *session.Context, pending *session.Clarification, reply string) (string, error) {
	variant, ok, err := e.pickVariant(ctx, reply, pending.Parent)
	if err != nil {
		return "", err
	}

	sess.ClearPending()
	if !ok {
		return render.VariantComboUnavailable, nil
	}
	return e.answerWithProduct(ctx, sess, pending.Parent, variant, pending.OriginalQuery, pending.OriginalFields)
}

func (e *Engine) resolveCostUpdateChoice(ctx context.Context, sess *session.Context, pending *session.Clarification, reply string) (string, error) {
	summary, ok, err := e.pickCandidate(ctx, reply, pending.Products)
	if err != nil {
		return "", err
	}

	sess.ClearPending()
	if !ok {
		return render.CostUpdateChoiceFailed, nil
	}

	detail, err := e.catalog.FetchDetail(ctx, summary.ID)
	if err != nil {
		return "", err
	}
	return e.costUpdateForDetail(ctx, detail)
}

// pickCandidate matches the reply against the candidate product titles.
// Anything short of a high-confidence match on a listed title counts as
// no pick. A malformed extractor reply counts as no pick too; only an
// unreachable extractor is an error.
func (e *Engine) pickCandidate(ctx context.Context, reply string, candidates catalog.MatchSet) (catalog.ProductSummary, bool, error) {
	match, err := e.extractor.MatchCandidate(ctx, reply, candidates.Titles())
	if err != nil {
		if apperrors.IsExtractionMalformed(err) {
			e.logger.Debug("candidate match malformed", zap.Error(err))
			return catalog.ProductSummary{}, false, nil
		}
		return catalog.ProductSummary{}, false, err
	}
	if match == nil || match.Confidence != "high" {
		return catalog.ProductSummary{}, false, nil
	}

	summary, found := candidates.FindByTitle(match.Title)
	return summary, found, nil
}

// pickVariant matches the reply against a product's variant titles.
func (e *Engine) pickVariant(ctx context.Context, reply string, detail *catalog.ProductDetail) (catalog.Variant, bool, error) {
	match, err := e.extractor.MatchCandidate(ctx, reply, detail.VariantTitles())
	if err != nil {
		if apperrors.IsExtractionMalformed(err) {
			e.logger.Debug("variant match malformed", zap.Error(err))
			return catalog.Variant{}, false, nil
		}
		return catalog.Variant{}, false, err
	}
	if match == nil || match.Confidence != "high" {
		return catalog.Variant{}, false, nil
	}

	variant, found := detail.FindVariantByTitle(match.Title)
	return variant, found, nil
}
