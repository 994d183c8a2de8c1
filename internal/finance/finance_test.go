package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfitAndMargin(t *testing.T) {
	tests := []struct {
		name       string
		cost       string
		price      string
		wantProfit string
		wantMargin string
	}{
		{"typical", "40", "100", "60.00", "60.00%"},
		{"decimal amounts", "12.50", "19.99", "7.49", "37.47%"},
		{"negative profit", "120", "100", "-20.00", "-20.00%"},
		{"zero cost", "0", "100", Unavailable, Unavailable},
		{"zero price", "40", "0", Unavailable, Unavailable},
		{"both zero", "0", "0", Unavailable, Unavailable},
		{"missing cost", "", "100", Unavailable, Unavailable},
		{"legacy N/A marker", "N/A", "100", Unavailable, Unavailable},
		{"non-numeric cost", "forty", "100", Unavailable, Unavailable},
		{"non-numeric price", "40", "a lot", Unavailable, Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProfitAndMargin(tt.cost, tt.price)
			assert.Equal(t, tt.wantProfit, got.Profit)
			assert.Equal(t, tt.wantMargin, got.Margin)
		})
	}
}

func TestMarkup(t *testing.T) {
	tests := []struct {
		name  string
		cost  string
		price string
		want  string
	}{
		{"typical", "40", "100", "2.50"},
		{"below one", "100", "50", "0.50"},
		{"zero price still computes", "40", "0", "0.00"},
		{"zero cost", "0", "100", Unavailable},
		{"missing cost", "", "100", Unavailable},
		{"non-numeric cost", "cheap", "100", Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markup(tt.cost, tt.price))
		})
	}
}

func TestProfitAndMarginRounding(t *testing.T) {
	got := ProfitAndMargin("33.33", "99.99")
	assert.Equal(t, "66.66", got.Profit)
	assert.Equal(t, "66.67%", got.Margin)
}
