package renderer

import (
	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/date"
)

// Bar is a dated portfolio.Bar.
type Bar struct {
	Date date.Date
	portfolio.Bar
}

// Quote is the market history of a symbol.
type Quote struct {
	Symbol string
	Bars   []Bar
}

// NewQuote sorts the series by day.
func NewQuote(symbol string, s portfolio.Series) *Quote {
	q := &Quote{Symbol: symbol}
	for _, on := range s.Days() {
		q.Bars = append(q.Bars, Bar{Date: on, Bar: s[on]})
	}
	return q
}

// QuoteMarkdown renders the daily bars as a table.
func QuoteMarkdown(q *Quote) string {
	return renderTemplate("quote", "quote.md", nil, q)
}
