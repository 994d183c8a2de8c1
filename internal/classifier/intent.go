// Package classifier decides what a user utterance is asking for.
//
// Classification flow:
// 1. Rule-based patterns (instant, free)
// 2. LLM extraction fallback (for entity and comparison parsing)
//
// The rules run in a fixed order; the first one that fires wins, so
// cheap regex checks always get a chance before any extractor call.
package classifier

// Intent is the classified meaning of one utterance. Exactly one
// concrete variant is returned per call.
type Intent interface {
	intent()
}

// Count asks for the total product count.
type Count struct{}

// MarginFormula asks how margin is calculated, not for a value.
type MarginFormula struct{}

// CostUpdate asks when a cost last changed. Product is empty when the
// utterance named no product; the dialog layer then falls back to the
// remembered product or asks for one.
type CostUpdate struct {
	Product string
}

// CurrentProduct asks about the product already in memory.
type CurrentProduct struct {
	Fields []string
}

// ClarificationReply is an answer to a question the assistant asked on
// the previous turn. Routed to the disambiguation state machine.
type ClarificationReply struct {
	Text string
}

// Chitchat is a greeting or other non-product utterance.
type Chitchat struct{}

// DateFilter asks for products by creation date.
type DateFilter struct {
	Condition string // after, before, on
	Date      string // YYYY-MM-DD
	QueryType string // list or count
}

// StatusCategory asks for products by status and/or category.
type StatusCategory struct {
	Status    string
	Category  string
	QueryType string // list or count
}

// Comparison asks to compare two products.
type Comparison struct {
	Product1 string
	Product2 string
	Fields   []string
}

// SingleProduct asks about one named product.
type SingleProduct struct {
	Query  string
	Fields []string
}

// Unrecognized is an utterance no rule could place.
type Unrecognized struct{}

func (Count) intent()              {}
func (MarginFormula) intent()      {}
func (CostUpdate) intent()         {}
func (CurrentProduct) intent()     {}
func (ClarificationReply) intent() {}
func (Chitchat) intent()           {}
func (DateFilter) intent()         {}
func (StatusCategory) intent()     {}
func (Comparison) intent()         {}
func (SingleProduct) intent()      {}
func (Unrecognized) intent()       {}
