package portfolio

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/FredPerr/gesport/date"
	"github.com/shopspring/decimal"
)

// today is the day every test portfolio believes it is.
var today = date.New(2025, time.June, 16)

// day is a short hand for date.MustParse.
func day(s string) date.Date { return date.MustParse(s) }

// CAD is a helper for test to create money in the default currency.
func CAD(v float64) Money { return M(v, DefaultCurrency) }

// staticOracle serves closes from a map, looking back a few days like a real
// market would on week-ends.
type staticOracle struct {
	closes map[string]map[date.Date]float64
	err    error // returned by every call when set
	calls  int
}

func newStaticOracle() *staticOracle {
	return &staticOracle{closes: make(map[string]map[date.Date]float64)}
}

// set records the close of symbol on day on.
func (o *staticOracle) set(symbol, on string, price float64) *staticOracle {
	if o.closes[symbol] == nil {
		o.closes[symbol] = make(map[date.Date]float64)
	}
	o.closes[symbol][day(on)] = price
	return o
}

func (o *staticOracle) Price(symbol string, on date.Date) (decimal.Decimal, error) {
	o.calls++
	if err := CheckNotFuture(on, date.Fixed(today)); err != nil {
		return decimal.Zero, err
	}
	if o.err != nil {
		return decimal.Zero, o.err
	}
	series, _ := o.History(symbol, on.Add(-3), on)
	if _, price, ok := series.LatestClose(on); ok {
		return price, nil
	}
	return decimal.Zero, ErrNoPrice
}

func (o *staticOracle) History(symbol string, from, to date.Date) (Series, error) {
	if o.err != nil {
		return nil, o.err
	}
	s := make(Series)
	for on, price := range o.closes[symbol] {
		if on.Before(from) || on.After(to) {
			continue
		}
		p := decimal.NewFromFloat(price)
		s[on] = Bar{Open: p, Close: p, Min: p, Max: p}
	}
	return s, nil
}

// failingStore fails every Save after the first ok ones.
type failingStore struct {
	*MemoryStore
	ok int
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Save(name string, l Ledgers) error {
	if s.ok <= 0 {
		return errDiskFull
	}
	s.ok--
	return s.MemoryStore.Save(name, l)
}

// newTestPortfolio opens an empty portfolio frozen on today, with a seeded
// random source.
func newTestPortfolio(t *testing.T, oracle PriceOracle, opts ...Option) *Portfolio {
	t.Helper()
	opts = append([]Option{
		WithClock(date.Fixed(today)),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}, opts...)
	p, err := Open(DefaultName, oracle, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return p
}

// mustDo fails the test if err is not nil.
func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
