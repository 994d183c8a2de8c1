package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate-ai/shopmate/internal/catalog"
	"github.com/shopmate-ai/shopmate/internal/classifier"
	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
	"github.com/shopmate-ai/shopmate/internal/extractor"
	"github.com/shopmate-ai/shopmate/internal/render"
	"github.com/shopmate-ai/shopmate/internal/session"
)

type stubCatalog struct {
	matches   map[string]catalog.MatchSet
	searchErr error
	details   map[string]*catalog.ProductDetail
	criteria  catalog.MatchSet
	byDate    catalog.MatchSet
	timestamp *catalog.InventoryTimestamp
	count     int

	searched []string
	itemIDs  []string
}

func (s *stubCatalog) SearchByText(ctx context.Context, text string) (catalog.MatchSet, error) {
	s.searched = append(s.searched, text)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.matches[text], nil
}

func (s *stubCatalog) FetchDetail(ctx context.Context, id string) (*catalog.ProductDetail, error) {
	d, ok := s.details[id]
	if !ok {
		return nil, apperrors.NoCatalogMatch(id)
	}
	return d, nil
}

func (s *stubCatalog) SearchByCriteria(ctx context.Context, status, category string) (catalog.MatchSet, error) {
	return s.criteria, nil
}

func (s *stubCatalog) SearchByDate(ctx context.Context, cond catalog.DateCondition, date string) (catalog.MatchSet, error) {
	return s.byDate, nil
}

func (s *stubCatalog) InventoryUpdateTime(ctx context.Context, inventoryItemID string) (*catalog.InventoryTimestamp, error) {
	s.itemIDs = append(s.itemIDs, inventoryItemID)
	return s.timestamp, nil
}

func (s *stubCatalog) CountProducts(ctx context.Context) (int, error) {
	return s.count, nil
}

// stubExtractor returns canned extractions; candidate matches pop from a
// queue so multi-step clarifications can script successive replies.
type stubExtractor struct {
	product        *extractor.ProductQuery
	comparison     *extractor.ComparisonQuery
	statusCategory *extractor.StatusCategoryQuery
	date           *extractor.DateQuery
	matchQueue     []*extractor.CandidateMatch
}

func (s *stubExtractor) ProductIntent(ctx context.Context, text string) (*extractor.ProductQuery, error) {
	return s.product, nil
}

func (s *stubExtractor) ComparisonIntent(ctx context.Context, text string) (*extractor.ComparisonQuery, error) {
	return s.comparison, nil
}

func (s *stubExtractor) StatusCategoryFallback(ctx context.Context, text string) (*extractor.StatusCategoryQuery, error) {
	return s.statusCategory, nil
}

func (s *stubExtractor) DateFilter(ctx context.Context, text string) (*extractor.DateQuery, error) {
	return s.date, nil
}

func (s *stubExtractor) MatchCandidate(ctx context.Context, text string, candidates []string) (*extractor.CandidateMatch, error) {
	if len(s.matchQueue) == 0 {
		return nil, nil
	}
	m := s.matchQueue[0]
	s.matchQueue = s.matchQueue[1:]
	return m, nil
}

type stubRenderer struct {
	productQuery  string
	productMem    *session.ProductMemory
	productFields []string

	comparisonQuery  string
	memA, memB       *session.ProductMemory
	comparisonFields []string

	reply string
}

func (s *stubRenderer) ProductAnswer(ctx context.Context, query string, mem *session.ProductMemory, fields []string) (string, error) {
	s.productQuery = query
	s.productMem = mem
	s.productFields = fields
	return s.reply, nil
}

func (s *stubRenderer) ComparisonAnswer(ctx context.Context, query string, a, b *session.ProductMemory, fields []string) (string, error) {
	s.comparisonQuery = query
	s.memA = a
	s.memB = b
	s.comparisonFields = fields
	return s.reply, nil
}

func newEngine(cat *stubCatalog, ex *stubExtractor, r *stubRenderer) *Engine {
	return New(cat, ex, classifier.New(ex, nil), r, nil)
}

func caseDetail() *catalog.ProductDetail {
	return &catalog.ProductDetail{
		ID:        "gid://shopify/Product/1",
		Title:     "Pelican 1150 Case w/Foam",
		UpdatedAt: "2023-05-12T14:30:00Z",
		ImageURL:  "https://cdn.example.com/1150.jpg",
		Variants: []catalog.Variant{{
			ID:    "gid://shopify/ProductVariant/11",
			SKU:   "1150-BLK-NF",
			Title: "Black / No Foam",
			Price: "64.95",
			InventoryItem: catalog.InventoryItem{
				ID:       "gid://shopify/InventoryItem/111",
				UnitCost: catalog.Money{Amount: "31.50", Currency: "USD"},
				Tracked:  true,
			},
		}},
	}
}

func twoVariantDetail() *catalog.ProductDetail {
	d := caseDetail()
	d.Variants = append(d.Variants, catalog.Variant{
		ID:    "gid://shopify/ProductVariant/12",
		SKU:   "1150-YLW-NF",
		Title: "Yellow / No Foam",
		Price: "64.95",
	})
	return d
}

func summaryOf(d *catalog.ProductDetail) catalog.ProductSummary {
	return catalog.ProductSummary{ID: d.ID, Title: d.Title}
}

func TestSingleProductAnswerStoresMemory(t *testing.T) {
	detail := caseDetail()
	cat := &stubCatalog{
		matches: map[string]catalog.MatchSet{"Pelican 1150": {summaryOf(detail)}},
		details: map[string]*catalog.ProductDetail{detail.ID: detail},
	}
	ex := &stubExtractor{product: &extractor.ProductQuery{Entity: "Pelican 1150", Fields: []string{"price", "cost"}}}
	r := &stubRenderer{reply: "answer"}
	sess := session.New()

	reply := newEngine(cat, ex, r).ProcessTurn(context.Background(), sess, "What is the price of the Pelican 1150?")

	assert.Equal(t, "answer", reply)
	require.NotNil(t, sess.Current)
	assert.Equal(t, "Pelican 1150 Case w/Foam", sess.Current.Title)
	assert.Equal(t, "31.50", sess.Current.Cost)
	assert.Equal(t, "33.45", sess.Current.Profit)
	assert.Equal(t, "51.50%", sess.Current.Margin)
	assert.Equal(t, []string{"price", "cost"}, r.productFields)
	assert.Len(t, sess.Turns, 2)
	assert.Equal(t, session.SpeakerAssistant, sess.Turns[1].Speaker)
}

func TestSingleProductNoMatch(t *testing.T) {
	cat := &stubCatalog{matches: map[string]catalog.MatchSet{}}
	ex := &stubExtractor{product: &extractor.ProductQuery{Entity: "widget", Fields: []string{"price"}}}
	sess := session.New()

	reply := newEngine(cat, ex, &stubRenderer{}).ProcessTurn(context.Background(), sess, "What is the price of the widget?")

	assert.Equal(t, render.NoProductMatched, reply)
	assert.Nil(t, sess.Current)
}

func TestMultipleProductsAskForChoice(t *testing.T) {
	cat := &stubCatalog{matches: map[string]catalog.MatchSet{"Pelican 1150": {
		{ID: "p1", Title: "Pelican 1150 Case w/Foam"},
		{ID: "p2", Title: "Pelican 1150 Case No Foam"},
	}}}
	ex := &stubExtractor{product: &extractor.ProductQuery{Entity: "Pelican 1150", Fields: []string{"price"}}}
	sess := session.New()

	reply := newEngine(cat, ex, &stubRenderer{}).ProcessTurn(context.Background(), sess, "What is the price of the Pelican 1150?")

	assert.Equal(t, render.MultipleProductsPrompt, reply)
	require.NotNil(t, sess.Pending)
	assert.Equal(t, session.ProductChoice, sess.Pending.Kind)
	assert.Equal(t, "What is the price of the Pelican 1150?", sess.Pending.OriginalQuery)
	assert.Equal(t, []string{"price"}, sess.Pending.OriginalFields)
	assert.Nil(t, sess.Current)
}

func TestProductChoiceResolvesWithOriginalQuery(t *testing.T) {
	detail := caseDetail()
	cat := &stubCatalog{details: map[string]*catalog.ProductDetail{detail.ID: detail}}
	ex := &stubExtractor{matchQueue: []*extractor.CandidateMatch{
		{Title: detail.Title, Confidence: "high"},
	}}
	r := &stubRenderer{reply: "answer"}
	sess := session.New()
	sess.SetPending(&session.Clarification{
		Kind:           session.ProductChoice,
		Products:       catalog.MatchSet{summaryOf(detail), {ID: "p2", Title: "Pelican 1150 Case No Foam"}},
		OriginalQuery:  "how much does the pelican 1150 cost",
		OriginalFields: []string{"price"},
	})

	reply := newEngine(cat, ex, r).ProcessTurn(context.Background(), sess, "the one with foam")

	assert.Equal(t, "answer", reply)
	assert.Equal(t, "how much does the pelican 1150 cost", r.productQuery)
	assert.Equal(t, []string{"price"}, r.productFields)
	assert.Nil(t, sess.Pending)
	require.NotNil(t, sess.Current)
	assert.Equal(t, detail.Title, sess.Current.Title)
}

func TestProductChoiceResolvesVariantDirectly(t *testing.T) {
	detail := twoVariantDetail()
	cat := &stubCatalog{details: map[string]*catalog.ProductDetail{detail.ID: detail}}
	ex := &stubExtractor{matchQueue: []*extractor.CandidateMatch{
		{Title: detail.Title, Confidence: "high"},
		{Title: "Yellow / No Foam", Confidence: "high"},
	}}
	r := &stubRenderer{reply: "answer"}
	sess := session.New()
	sess.SetPending(&session.Clarification{
		Kind:           session.ProductChoice,
		Products:       catalog.MatchSet{summaryOf(detail)},
		OriginalQuery:  "pelican 1150 price",
		OriginalFields: []string{"price"},
	})

	reply := newEngine(cat, ex, r).ProcessTurn(context.Background(), sess, "yellow no foam")

	assert.Equal(t, "answer", reply)
	assert.Nil(t, sess.Pending)
	require.NotNil(t, sess.Current)
	assert.Equal(t, "Yellow / No Foam", sess.Current.Variant.Title)
}

func TestProductChoiceEscalatesToVariantChoice(t *testing.T) {
	detail := twoVariantDetail()
	cat := &stubCatalog{details: map[string]*catalog.ProductDetail{detail.ID: detail}}
	ex := &stubExtractor{matchQueue: []*extractor.CandidateMatch{
		{Title: detail.Title, Confidence: "high"},
		nil,
	}}
	sess := session.New()
	sess.SetPending(&session.Clarification{
		Kind:           session.ProductChoice,
		Products:       catalog.MatchSet{summaryOf(detail)},
		OriginalQuery:  "pelican 1150 price",
		OriginalFields: []string{"price"},
	})

	reply := newEngine(cat, ex, &stubRenderer{}).ProcessTurn(context.Background(), sess, "the case with foam")

	assert.Equal(t, render.MultipleVariantsPrompt, reply)
	require.NotNil(t, sess.Pending)
	assert.Equal(t, session.VariantChoice, sess.Pending.Kind)
	assert.Same(t, detail, sess.Pending.Parent)
	assert.Equal(t, "pelican 1150 price", sess.Pending.OriginalQuery)
}

func TestProductChoiceLowConfidenceClearsPending(t *testing.T) {
	ex := &stubExtractor{matchQueue: []*extractor.CandidateMatch{
		{Title: "Pelican 1150 Case w/Foam", Confidence: "low"},
	}}
	sess := session.New()
	sess.SetPending(&session.Clarification{
		Kind:     session.ProductChoice,
		Products: catalog.MatchSet{{ID: "p1", Title: "Pelican 1150 Case w/Foam"}},
	})

	reply := newEngine(&stubCatalog{}, ex, &stubRenderer{}).ProcessTurn(context.Background(), sess, "the purple one")

	assert.Equal(t, render.ProductComboUnavailable, reply)
	assert.Nil(t, sess.Pending)
}

func TestVariantChoiceUnavailableClearsPending(t *testing.T) {
	detail := twoVariantDetail()
	ex := &stubExtractor{}
	sess := session.New()
	sess.SetPending(&session.Clarification{
		Kind:   session.VariantChoice,
		Parent: detail,
	})

	reply := newEngine(&stubCatalog{}, ex, &stubRenderer{}).ProcessTurn(context.Background(), sess, "the red one")

	assert.Equal(t, render.VariantComboUnavailable, reply)
	assert.Nil(t, sess.Pending)
	assert.Nil(t, sess.Current)
}

func TestCostUpdateUsesRememberedProduct(t *testing.T) {
	cat := &stubCatalog{timestamp: &catalog.InventoryTimestamp{
		UpdatedAt: "2023-05-12T14:30:00Z",
		Cost:      "31.50",
	}}
	sess := session.New()
	sess.SetCurrent(&session.ProductMemory{
		Title:   "Pelican 1150 Case w/Foam",
		Variant: caseDetail().Variants[0],
	})

	reply := newEngine(cat, &stubExtractor{}, &stubRenderer{}).ProcessTurn(context.Background(), sess, "when was the cost last updated?")

	assert.Equal(t, []string{"gid://shopify/InventoryItem/111"}, cat.itemIDs)
	assert.Contains(t, reply, "Pelican 1150 Case w/Foam")
	assert.Contains(t, reply, "$31.50")
}

func TestCostUpdateWithoutMemoryAsksForProduct(t *testing.T) {
	reply := newEngine(&stubCatalog{}, &stubExtractor{}, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "when was the cost last updated?")

	assert.Equal(t, render.SpecifyCostUpdateProduct, reply)
}

func TestCostUpdatePrefersInventoryItemTime(t *testing.T) {
	detail := caseDetail()
	cat := &stubCatalog{
		matches:   map[string]catalog.MatchSet{"Pelican-1150": {summaryOf(detail)}},
		details:   map[string]*catalog.ProductDetail{detail.ID: detail},
		timestamp: &catalog.InventoryTimestamp{UpdatedAt: "2023-05-12T14:30:00Z", Cost: "31.50"},
	}
	sess := session.New()

	reply := newEngine(cat, &stubExtractor{}, &stubRenderer{}).ProcessTurn(context.Background(), sess, "Pelican-1150 cost last updated?")

	assert.Equal(t, render.CostUpdateAnswer(detail.Title, "2023-05-12T14:30:00Z", "31.50"), reply)
	assert.Equal(t, []string{"gid://shopify/InventoryItem/111"}, cat.itemIDs)
}

func TestCostUpdateFallsBackToProductTime(t *testing.T) {
	detail := caseDetail()
	detail.Variants[0].InventoryItem = catalog.InventoryItem{}
	cat := &stubCatalog{
		matches: map[string]catalog.MatchSet{"Pelican-1150": {summaryOf(detail)}},
		details: map[string]*catalog.ProductDetail{detail.ID: detail},
	}

	reply := newEngine(cat, &stubExtractor{}, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "Pelican-1150 cost last updated?")

	assert.Equal(t, render.ProductUpdateAnswer(detail.Title, detail.UpdatedAt), reply)
	assert.Empty(t, cat.itemIDs)
}

func TestCostUpdateMultipleMatchesAskForChoice(t *testing.T) {
	cat := &stubCatalog{matches: map[string]catalog.MatchSet{"Pelican-1150": {
		{ID: "p1", Title: "Pelican 1150 Case w/Foam"},
		{ID: "p2", Title: "Pelican 1150 Case No Foam"},
	}}}
	sess := session.New()

	reply := newEngine(cat, &stubExtractor{}, &stubRenderer{}).ProcessTurn(context.Background(), sess, "Pelican-1150 cost last updated?")

	require.NotNil(t, sess.Pending)
	assert.Equal(t, session.CostUpdateChoice, sess.Pending.Kind)
	assert.Contains(t, reply, "Pelican 1150 Case w/Foam")
	assert.Contains(t, reply, "Pelican 1150 Case No Foam")
}

func TestCostUpdateChoiceResolves(t *testing.T) {
	detail := caseDetail()
	cat := &stubCatalog{
		details:   map[string]*catalog.ProductDetail{detail.ID: detail},
		timestamp: &catalog.InventoryTimestamp{UpdatedAt: "2023-05-12T14:30:00Z", Cost: "31.50"},
	}
	ex := &stubExtractor{matchQueue: []*extractor.CandidateMatch{
		{Title: detail.Title, Confidence: "high"},
	}}
	sess := session.New()
	sess.SetPending(&session.Clarification{
		Kind:     session.CostUpdateChoice,
		Products: catalog.MatchSet{summaryOf(detail), {ID: "p2", Title: "Pelican 1150 Case No Foam"}},
	})

	reply := newEngine(cat, ex, &stubRenderer{}).ProcessTurn(context.Background(), sess, "the one with foam")

	assert.Equal(t, render.CostUpdateAnswer(detail.Title, "2023-05-12T14:30:00Z", "31.50"), reply)
	assert.Nil(t, sess.Pending)
}

func TestComparisonUsesFirstMatchesAndSkipsMemory(t *testing.T) {
	d1 := caseDetail()
	d2 := twoVariantDetail()
	d2.ID = "gid://shopify/Product/2"
	d2.Title = "Pelican 1200 Case"
	cat := &stubCatalog{
		matches: map[string]catalog.MatchSet{
			"Pelican 1150": {summaryOf(d1), {ID: "px", Title: "ignored second match"}},
			"Pelican 1200": {summaryOf(d2)},
		},
		details: map[string]*catalog.ProductDetail{d1.ID: d1, d2.ID: d2},
	}
	ex := &stubExtractor{comparison: &extractor.ComparisonQuery{
		IsComparison: true,
		Entity1:      "Pelican 1150",
		Entity2:      "Pelican 1200",
		Fields:       []string{"price", "cost"},
	}}
	r := &stubRenderer{reply: "comparison"}
	sess := session.New()

	reply := newEngine(cat, ex, r).ProcessTurn(context.Background(), sess, "compare the price of the Pelican 1150 and Pelican 1200")

	assert.Equal(t, "comparison", reply)
	require.NotNil(t, r.memA)
	require.NotNil(t, r.memB)
	assert.Equal(t, "Pelican 1150 Case w/Foam", r.memA.Title)
	assert.Equal(t, "Pelican 1200 Case", r.memB.Title)
	assert.Nil(t, sess.Current)
}

func TestComparisonMissingSideReportsName(t *testing.T) {
	d1 := caseDetail()
	cat := &stubCatalog{
		matches: map[string]catalog.MatchSet{"Pelican 1150": {summaryOf(d1)}},
		details: map[string]*catalog.ProductDetail{d1.ID: d1},
	}
	ex := &stubExtractor{comparison: &extractor.ComparisonQuery{
		IsComparison: true,
		Entity1:      "Pelican 1150",
		Entity2:      "Nonexistent",
		Fields:       []string{"price"},
	}}

	reply := newEngine(cat, ex, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "compare the price of the Pelican 1150 and Nonexistent")

	assert.Equal(t, render.NoMatchFor("Nonexistent"), reply)
}

func TestCollaboratorFailureApologizesAndResets(t *testing.T) {
	cat := &stubCatalog{searchErr: apperrors.CatalogUnavailable(errors.New("502"))}
	ex := &stubExtractor{product: &extractor.ProductQuery{Entity: "Pelican 1150", Fields: []string{"price"}}}
	sess := session.New()

	reply := newEngine(cat, ex, &stubRenderer{}).ProcessTurn(context.Background(), sess, "What is the price of the Pelican 1150?")

	assert.Equal(t, render.CollaboratorApology, reply)
	assert.Nil(t, sess.Current)
	assert.Nil(t, sess.Pending)
	assert.Len(t, sess.Turns, 2)
}

func TestCountDispatch(t *testing.T) {
	cat := &stubCatalog{count: 252}

	reply := newEngine(cat, &stubExtractor{}, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "How many products do we have?")

	assert.Equal(t, render.CountAnswer(252), reply)
}

func TestMarginFormulaDispatch(t *testing.T) {
	reply := newEngine(&stubCatalog{}, &stubExtractor{}, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "What is the margin formula?")

	assert.Equal(t, render.MarginFormulaAnswer(), reply)
}

func TestChitchatDispatch(t *testing.T) {
	reply := newEngine(&stubCatalog{}, &stubExtractor{}, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "hello")

	assert.Equal(t, render.GeneralReply("hello"), reply)
}

func TestDateFilterDispatch(t *testing.T) {
	cat := &stubCatalog{byDate: catalog.MatchSet{{ID: "p1", Title: "Pelican 1150 Case w/Foam", CreatedAt: "2024-03-01T00:00:00Z"}}}
	ex := &stubExtractor{date: &extractor.DateQuery{Condition: "after", Date: "2024-01-01", QueryType: "count"}}

	reply := newEngine(cat, ex, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "which products were created after January 2024?")

	assert.Equal(t, render.DateAnswer(cat.byDate, "after", "2024-01-01", "count"), reply)
}

func TestStatusCategoryDispatch(t *testing.T) {
	cat := &stubCatalog{criteria: catalog.MatchSet{{ID: "p1", Title: "Pelican 1150 Case w/Foam", Status: "DRAFT"}}}

	reply := newEngine(cat, &stubExtractor{}, &stubRenderer{}).
		ProcessTurn(context.Background(), session.New(), "which products have status 'draft'?")

	assert.Equal(t, render.StatusCategoryAnswer(cat.criteria, "DRAFT", "", "list"), reply)
}

func TestCurrentProductFollowUp(t *testing.T) {
	r := &stubRenderer{reply: "follow-up answer"}
	sess := session.New()
	sess.SetCurrent(&session.ProductMemory{Title: "Pelican 1150 Case w/Foam"})

	reply := newEngine(&stubCatalog{}, &stubExtractor{}, r).
		ProcessTurn(context.Background(), sess, "what is its profit?")

	assert.Equal(t, "follow-up answer", reply)
	assert.Same(t, sess.Current, r.productMem)
	assert.Contains(t, r.productFields, "profit")
}
