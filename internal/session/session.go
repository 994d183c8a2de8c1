// Package session holds the per-conversation state: the turn log, the
// remembered product, and any question the assistant is waiting to have
// answered. One Context belongs to one conversation and is driven from a
// single goroutine; it is not safe for concurrent use.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopmate-ai/shopmate/internal/catalog"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one utterance in the conversation.
type Turn struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// ClarificationKind names what the pending question is about.
type ClarificationKind string

const (
	// ProductChoice: multiple products matched; waiting for a
	// color/interior pick.
	ProductChoice ClarificationKind = "product_choice"

	// VariantChoice: one product, multiple variants; waiting for a
	// color/interior pick among them.
	VariantChoice ClarificationKind = "variant_choice"

	// CostUpdateChoice: multiple products matched a cost-update question;
	// waiting for a product pick.
	CostUpdateChoice ClarificationKind = "cost_update_choice"
)

// Clarification is a question awaiting the user's next utterance. The
// original query and requested fields ride along so the eventual answer
// addresses what was first asked, not the clarifying reply.
type Clarification struct {
	Kind ClarificationKind

	// Products are candidate matches for ProductChoice and
	// CostUpdateChoice.
	Products catalog.MatchSet

	// Parent is the resolved product whose variants are being chosen
	// between. Set for VariantChoice only.
	Parent *catalog.ProductDetail

	OriginalQuery  string
	OriginalFields []string
}

// ProductMemory is the product the conversation is currently about,
// with everything needed to answer follow-ups without refetching.
type ProductMemory struct {
	Title    string
	Detail   *catalog.ProductDetail
	Variant  catalog.Variant
	Cost     string
	Profit   string
	Margin   string
	Markup   string
	ImageURL string
}

// Context is the state of one conversation.
type Context struct {
	ID      string
	Started time.Time
	Turns   []Turn

	Pending *Clarification
	Current *ProductMemory
}

// New creates a fresh conversation context.
func New() *Context {
	return &Context{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}
}

// Append records a turn in order.
func (c *Context) Append(speaker Speaker, text string) {
	c.Turns = append(c.Turns, Turn{Speaker: speaker, Text: text, At: time.Now()})
}

// SetPending replaces any pending clarification with the given one.
// Whole-value overwrite; a new question forgets the old one entirely.
func (c *Context) SetPending(p *Clarification) {
	c.Pending = p
}

// ClearPending drops the pending clarification.
func (c *Context) ClearPending() {
	c.Pending = nil
}

// SetCurrent replaces the remembered product. Whole-value overwrite.
func (c *Context) SetCurrent(m *ProductMemory) {
	c.Current = m
}

// ClearCurrent forgets the remembered product.
func (c *Context) ClearCurrent() {
	c.Current = nil
}

// Reset clears both the pending clarification and the remembered
// product. Used when a collaborator failure leaves the conversation in a
// state that can no longer be trusted.
func (c *Context) Reset() {
	c.Pending = nil
	c.Current = nil
}
