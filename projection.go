package portfolio

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/FredPerr/gesport/date"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// DaysPerYear is the length of a projection year. Leap days are not special.
const DaysPerYear = 365

// Samples is the number of draws behind Quartiles.
const Samples = 1000

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(DaysPerYear)
)

// ProjectValue compounds presentValue at ratePercent a year for whole years,
// then accrues simple interest on the result for the remaining days:
//
//	fv = pv × (1 + r)^years
//	fv + (days/365) × fv × r
func ProjectValue(presentValue Money, ratePercent float64, years, partialYearDays int) Money {
	rate := decimal.NewFromFloat(ratePercent).Div(hundred)
	// decimal gives 0 for 0^0, a -100% rate over no whole year keeps pv.
	growth := decimal.NewFromInt(1)
	if years != 0 {
		growth = growth.Add(rate).Pow(decimal.NewFromInt(int64(years)))
	}
	fv := presentValue.value.Mul(growth)
	accrued := fv.Mul(rate).Mul(decimal.NewFromInt(int64(partialYearDays))).Div(daysPerYear)
	return Money{value: fv.Add(accrued), cur: presentValue.cur}
}

// SplitHorizon splits the days from 'from' to 'to' into whole years and
// remaining days.
func SplitHorizon(from, to date.Date) (years, days int) {
	n := to.Sub(from)
	return n / DaysPerYear, n % DaysPerYear
}

// Rates holds annual return rates in percent, either one for the whole
// portfolio or one per symbol.
type Rates struct {
	flat     float64
	bySymbol map[string]float64
}

// FlatRate applies the same rate to every symbol.
func FlatRate(percent float64) Rates { return Rates{flat: percent} }

// SymbolRates applies a rate per symbol. Symbols are matched the way the
// ledgers store them, trimmed and upper-cased. Missing symbols get 0.
func SymbolRates(percents map[string]float64) Rates {
	bySymbol := make(map[string]float64, len(percents))
	for symbol, rate := range percents {
		if symbol, err := normalizeSymbol(symbol); err == nil {
			bySymbol[symbol] = rate
		}
	}
	return Rates{bySymbol: bySymbol}
}

// For returns the rate of symbol.
func (r Rates) For(symbol string) float64 {
	if r.bySymbol == nil {
		return r.flat
	}
	return r.bySymbol[symbol]
}

// Quartiles draws Samples returns from a normal distribution of mean
// meanReturn and standard deviation volatility, and returns the 25th, 50th
// and 75th percentiles of the sample.
func Quartiles(rnd *rand.Rand, meanReturn, volatility float64) (q1, q2, q3 float64, err error) {
	if volatility < 0 {
		return 0, 0, 0, fmt.Errorf("volatility must not be negative, got %v", volatility)
	}
	if rnd == nil {
		return 0, 0, 0, errors.New("no random source")
	}
	sample := make(stats.Float64Data, Samples)
	for i := range sample {
		sample[i] = meanReturn + volatility*rnd.NormFloat64()
	}
	if q1, err = sample.Percentile(25); err != nil {
		return 0, 0, 0, err
	}
	if q2, err = sample.Percentile(50); err != nil {
		return 0, 0, 0, err
	}
	if q3, err = sample.Percentile(75); err != nil {
		return 0, 0, 0, err
	}
	return q1, q2, q3, nil
}
