package renderer

import (
	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/date"
)

// Position is one line of the holdings table. Cost is the cost basis of the
// trades, Value the market value on the day.
type Position struct {
	Symbol   string
	Quantity portfolio.Quantity
	Cost     portfolio.Money
	Value    portfolio.Money
}

// Holdings is the content of a portfolio on a day.
type Holdings struct {
	Portfolio string
	Date      date.Date
	Positions []Position
	Cash      portfolio.Money
	Total     portfolio.Money
}

// HoldingsMarkdown renders the positions, then the cash and the total.
func HoldingsMarkdown(h *Holdings) string {
	partials := map[string]string{
		"holding_positions": "holding_positions.md",
	}
	if len(h.Positions) == 0 {
		partials["holding_positions"] = "holding_no_position.md"
	}
	return renderTemplate("holding", "holding.md", partials, h)
}
