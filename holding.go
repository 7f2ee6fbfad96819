package portfolio

import (
	"maps"
	"slices"

	"github.com/FredPerr/gesport/date"
)

// Holdings maps a symbol to the net quantity held.
type Holdings map[string]Quantity

// Symbols returns the held symbols, sorted.
func (h Holdings) Symbols() []string { return slices.Sorted(maps.Keys(h)) }

// HoldingsAsOf replays the trades dated on or before on and accumulates the
// quantity per symbol. Symbols whose final total is zero are left out.
func (l *TradeLedger) HoldingsAsOf(on date.Date) Holdings {
	h := make(Holdings)
	for _, e := range l.entries {
		if e.Date.After(on) {
			continue
		}
		h[e.Symbol] = h[e.Symbol].Add(e.Quantity)
	}
	// the zero rule applies to the final total, not to intermediate values.
	maps.DeleteFunc(h, func(_ string, q Quantity) bool { return q.IsZero() })
	return h
}
