package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate-ai/shopmate/internal/catalog"
)

func TestNewContext(t *testing.T) {
	a := New()
	b := New()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Pending)
	assert.Nil(t, a.Current)
}

func TestAppendKeepsOrder(t *testing.T) {
	c := New()
	c.Append(SpeakerUser, "price of the 1150?")
	c.Append(SpeakerAssistant, "The price is $64.95.")
	c.Append(SpeakerUser, "and the cost?")

	require.Len(t, c.Turns, 3)
	assert.Equal(t, SpeakerUser, c.Turns[0].Speaker)
	assert.Equal(t, "The price is $64.95.", c.Turns[1].Text)
	assert.Equal(t, "and the cost?", c.Turns[2].Text)
}

func TestSetPendingOverwrites(t *testing.T) {
	c := New()
	c.SetPending(&Clarification{
		Kind:          ProductChoice,
		OriginalQuery: "pelican price",
		Products:      catalog.MatchSet{{Title: "Pelican-1150"}},
	})
	c.SetPending(&Clarification{
		Kind:          CostUpdateChoice,
		OriginalQuery: "when was the cost updated",
	})

	require.NotNil(t, c.Pending)
	assert.Equal(t, CostUpdateChoice, c.Pending.Kind)
	assert.Equal(t, "when was the cost updated", c.Pending.OriginalQuery)
	assert.Empty(t, c.Pending.Products)
}

func TestSetCurrentOverwrites(t *testing.T) {
	c := New()
	c.SetCurrent(&ProductMemory{Title: "Pelican-1150", Cost: "31.50"})
	c.SetCurrent(&ProductMemory{Title: "Pelican-1200"})

	require.NotNil(t, c.Current)
	assert.Equal(t, "Pelican-1200", c.Current.Title)
	assert.Empty(t, c.Current.Cost)
}

func TestResetClearsBoth(t *testing.T) {
	c := New()
	c.SetPending(&Clarification{Kind: VariantChoice})
	c.SetCurrent(&ProductMemory{Title: "Pelican-1150"})
	c.Append(SpeakerUser, "something")

	c.Reset()

	assert.Nil(t, c.Pending)
	assert.Nil(t, c.Current)
	assert.Len(t, c.Turns, 1)
}
