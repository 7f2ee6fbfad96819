package portfolio

import (
	"fmt"

	"github.com/FredPerr/gesport/date"
)

// Point is the value of something on a day.
type Point struct {
	Date  date.Date
	Value Money
}

// Balance returns the cash balance on day on.
func (p *Portfolio) Balance(on date.Date) (Money, error) {
	if err := p.checkDate(on); err != nil {
		return Money{}, err
	}
	return p.cash.Balance(on), nil
}

// Holdings returns the net quantity per symbol held on day on.
func (p *Portfolio) Holdings(on date.Date) (Holdings, error) {
	if err := p.checkDate(on); err != nil {
		return nil, err
	}
	return p.trades.HoldingsAsOf(on), nil
}

// Symbols returns every symbol ever traded in the portfolio.
func (p *Portfolio) Symbols() []string { return p.trades.Symbols() }

// selection accepts the given symbols, or every symbol if none is given.
func selection(symbols []string) func(string) bool {
	if len(symbols) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if s, err := normalizeSymbol(s); err == nil {
			set[s] = true
		}
	}
	return func(s string) bool { return set[s] }
}

// PositionsValue values the selected symbols at cost: the sum of quantity ×
// execution price of their trades dated on or before on. Sales count
// negatively at their own price. An empty selection means every symbol.
func (p *Portfolio) PositionsValue(symbols []string, on date.Date) (Money, error) {
	if err := p.checkDate(on); err != nil {
		return Money{}, err
	}
	return p.trades.CostBasis(selection(symbols), on), nil
}

// MarketValue values the positions of the selected symbols held on day on at
// the oracle price of that day. An empty selection means every symbol.
func (p *Portfolio) MarketValue(symbols []string, on date.Date) (Money, error) {
	if err := p.checkDate(on); err != nil {
		return Money{}, err
	}
	accept := selection(symbols)
	total := M(0, p.currency)
	holdings := p.trades.HoldingsAsOf(on)
	for _, symbol := range holdings.Symbols() {
		if !accept(symbol) {
			continue
		}
		price, err := p.price(symbol, on)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(price.Mul(holdings[symbol]))
	}
	return total, nil
}

// Value returns the total value of the portfolio on day on: the cash balance
// plus the market value of every position.
func (p *Portfolio) Value(on date.Date) (Money, error) {
	balance, err := p.Balance(on)
	if err != nil {
		return Money{}, err
	}
	positions, err := p.MarketValue(nil, on)
	if err != nil {
		return Money{}, err
	}
	return balance.Add(positions), nil
}

// History samples PositionsValue every step days over [from, to].
func (p *Portfolio) History(symbols []string, from, to date.Date, step int) ([]Point, error) {
	if err := p.checkDate(to); err != nil {
		return nil, err
	}
	r, err := date.NewRange(from, to)
	if err != nil {
		return nil, err
	}
	if step < 1 {
		return nil, fmt.Errorf("history step must be at least one day, got %d", step)
	}
	accept := selection(symbols)
	var points []Point
	for on := range r.Every(step) {
		points = append(points, Point{Date: on, Value: p.trades.CostBasis(accept, on)})
	}
	return points, nil
}

// ProjectedValue projects the positions held today on the selected symbols to
// day on. Each position is valued at today's price and grows at its own rate.
func (p *Portfolio) ProjectedValue(symbols []string, on date.Date, rates Rates) (Money, error) {
	today := p.clock.Today()
	if on.Before(today) {
		return Money{}, fmt.Errorf("cannot project to %s: %w", on, ErrPastHorizon)
	}
	years, days := SplitHorizon(today, on)
	accept := selection(symbols)
	total := M(0, p.currency)
	holdings := p.trades.HoldingsAsOf(today)
	for _, symbol := range holdings.Symbols() {
		if !accept(symbol) {
			continue
		}
		price, err := p.price(symbol, today)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(ProjectValue(price.Mul(holdings[symbol]), rates.For(symbol), years, days))
	}
	return total, nil
}

// ProjectedQuartiles simulates annual returns of mean meanReturn and standard
// deviation volatility with the portfolio random source. See Quartiles.
func (p *Portfolio) ProjectedQuartiles(meanReturn, volatility float64) (q1, q2, q3 float64, err error) {
	return Quartiles(p.rnd, meanReturn, volatility)
}
