package portfolio

import (
	"iter"
	"slices"

	"github.com/FredPerr/gesport/date"
)

// CashEntry is a dated cash movement. Amount is positive for inflows
// (deposits, sale proceeds) and negative for purchase costs.
type CashEntry struct {
	Date   date.Date
	Amount Money
}

// TradeEntry is a dated trade. Quantity is positive for buys and negative for
// sells. Price is the unit price at execution, fixed when the trade is recorded.
type TradeEntry struct {
	Date     date.Date
	Symbol   string
	Quantity Quantity
	Price    Money
}

// Cost returns the signed cost of the trade at its execution price.
func (t TradeEntry) Cost() Money { return t.Price.Mul(t.Quantity) }

// CashLedger is the append-only list of cash movements.
//
// Entries are kept in insertion order. Every query filters on dates, so the
// order never changes a result.
type CashLedger struct {
	entries  []CashEntry
	currency string
}

// Entries returns an iterator over the entries in insertion order.
func (l *CashLedger) Entries() iter.Seq[CashEntry] { return slices.Values(l.entries) }

// Len returns the number of entries.
func (l *CashLedger) Len() int { return len(l.entries) }

func (l *CashLedger) append(e CashEntry) { l.entries = append(l.entries, e) }

// truncate drops entries appended after the ledger had n entries.
func (l *CashLedger) truncate(n int) { l.entries = l.entries[:n] }

// Balance sums all the entries dated on or before on.
func (l *CashLedger) Balance(on date.Date) Money {
	balance := M(0, l.currency)
	for _, e := range l.entries {
		if e.Date.After(on) {
			continue
		}
		balance = balance.Add(e.Amount)
	}
	return balance
}

// TradeLedger is the append-only list of trades.
type TradeLedger struct {
	entries  []TradeEntry
	currency string
}

// Entries returns an iterator over the entries in insertion order.
func (l *TradeLedger) Entries() iter.Seq[TradeEntry] { return slices.Values(l.entries) }

// Len returns the number of entries.
func (l *TradeLedger) Len() int { return len(l.entries) }

// record appends a trade. Buy and Sell call it once the trade is validated.
func (l *TradeLedger) record(e TradeEntry) { l.entries = append(l.entries, e) }

func (l *TradeLedger) truncate(n int) { l.entries = l.entries[:n] }

// NetQuantity sums the signed quantities of symbol traded on or before on.
func (l *TradeLedger) NetQuantity(symbol string, on date.Date) Quantity {
	var total Quantity
	for _, e := range l.entries {
		if e.Symbol != symbol || e.Date.After(on) {
			continue
		}
		total = total.Add(e.Quantity)
	}
	return total
}

// CostBasis sums quantity × execution price of the trades on or before on
// whose symbol is accepted.
func (l *TradeLedger) CostBasis(accept func(string) bool, on date.Date) Money {
	total := M(0, l.currency)
	for _, e := range l.entries {
		if e.Date.After(on) || !accept(e.Symbol) {
			continue
		}
		total = total.Add(e.Cost())
	}
	return total
}

// Symbols returns every symbol ever traded, sorted.
func (l *TradeLedger) Symbols() []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, e := range l.entries {
		if !seen[e.Symbol] {
			seen[e.Symbol] = true
			symbols = append(symbols, e.Symbol)
		}
	}
	slices.Sort(symbols)
	return symbols
}
