// Package finance derives profit, margin, and markup figures from the
// cost/price pair of a resolved variant.
//
// All functions are total: bad input produces the Unavailable sentinel,
// never an error. Catalog money amounts arrive as decimal strings and are
// passed through here unparsed by callers.
package finance

import (
	"fmt"
	"strconv"
	"strings"
)

// Unavailable is the sentinel for any figure that cannot be derived.
// The renderer maps it to user-facing "information unavailable" wording.
const Unavailable = "unavailable"

// ProfitMargin holds derived profit and margin values, each either a
// two-decimal string ("60.00", "60.00%") or Unavailable.
type ProfitMargin struct {
	Profit string
	Margin string
}

// ProfitAndMargin computes profit (price - cost) and margin percent
// (profit / price * 100). A zero or unparseable cost OR price makes both
// figures Unavailable: margin divides by price, and a zero cost means the
// catalog has no cost on record rather than a free item.
func ProfitAndMargin(cost, price string) ProfitMargin {
	c := parseAmount(cost)
	p := parseAmount(price)

	if c == 0 || p == 0 {
		return ProfitMargin{Profit: Unavailable, Margin: Unavailable}
	}

	profit := p - c
	margin := profit / p * 100

	return ProfitMargin{
		Profit: fmt.Sprintf("%.2f", profit),
		Margin: fmt.Sprintf("%.2f%%", margin),
	}
}

// Markup computes price / cost as a two-decimal string. Only a zero or
// unparseable cost gates the result; a zero price yields "0.00".
func Markup(cost, price string) string {
	c := parseAmount(cost)
	p := parseAmount(price)

	if c == 0 {
		return Unavailable
	}

	return fmt.Sprintf("%.2f", p/c)
}

// parseAmount converts a catalog money string to a float. Missing or
// non-numeric values collapse to zero, which the zero-guards above treat
// as "no figure on record".
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" || s == Unavailable {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
