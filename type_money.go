package portfolio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of a portfolio unless configured otherwise.
const DefaultCurrency = "CAD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Simple wrapper around decimal.Decimal

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) AsFloat() float64                { return m.value.InexactFloat64() }

// In returns the same amount tagged with another currency.
func (m Money) In(currency string) Money { return Money{value: m.value, cur: currency} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
