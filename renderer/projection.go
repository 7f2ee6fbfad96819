package renderer

import (
	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/date"
)

// Projection is a future value of the portfolio positions.
type Projection struct {
	From, To    date.Date
	Years, Days int
	Rate        string // human readable, "5%" or "per symbol"
	Present     portfolio.Money
	Projected   portfolio.Money
	Quartiles   *Quartiles // optional
}

// Quartiles summarizes simulated annual returns, in percent.
type Quartiles struct {
	Mean, Volatility float64
	Q1, Q2, Q3       float64
}

// ProjectionMarkdown renders the projection, and the simulated quartiles when
// there are some.
func ProjectionMarkdown(p *Projection) string {
	partials := map[string]string{
		"projection_quartiles": "",
	}
	if p.Quartiles != nil {
		partials["projection_quartiles"] = "projection_quartiles.md"
	}
	return renderTemplate("projection", "projection.md", partials, p)
}
