package portfolio

import (
	"slices"

	"github.com/FredPerr/gesport/date"
	"github.com/shopspring/decimal"
)

// PriceOracle gives historical market prices.
//
// Price must fail with a *FutureDateError when on is after today. How a
// closed market day is resolved is the oracle's business.
type PriceOracle interface {
	Price(symbol string, on date.Date) (decimal.Decimal, error)
	History(symbol string, from, to date.Date) (Series, error)
}

// Bar is one day of market data for a symbol.
type Bar struct {
	Open   decimal.Decimal
	Close  decimal.Decimal
	Min    decimal.Decimal
	Max    decimal.Decimal
	Volume int64
}

// Series is the market data of a symbol, indexed by day.
type Series map[date.Date]Bar

// Days returns the days of the series in chronological order.
func (s Series) Days() []date.Date {
	days := make([]date.Date, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	slices.SortFunc(days, date.Date.Compare)
	return days
}

// LatestClose returns the close of the most recent day not after on.
func (s Series) LatestClose(on date.Date) (date.Date, decimal.Decimal, bool) {
	var (
		best  date.Date
		price decimal.Decimal
		found bool
	)
	for d, bar := range s {
		if d.After(on) {
			continue
		}
		if !found || d.After(best) {
			best, price, found = d, bar.Close, true
		}
	}
	return best, price, found
}
