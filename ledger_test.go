package portfolio

import (
	"slices"
	"testing"
)

func testTradeLedger() *TradeLedger {
	return &TradeLedger{
		currency: DefaultCurrency,
		entries: []TradeEntry{
			{Date: day("2025-01-10"), Symbol: "AAPL", Quantity: Q(100), Price: CAD(150)},
			{Date: day("2025-01-15"), Symbol: "GOOG", Quantity: Q(50), Price: CAD(280)},
			{Date: day("2025-02-01"), Symbol: "AAPL", Quantity: Q(-25), Price: CAD(160)},
			{Date: day("2025-02-10"), Symbol: "AAPL", Quantity: Q(10), Price: CAD(155)},
			{Date: day("2025-03-01"), Symbol: "GOOG", Quantity: Q(-50), Price: CAD(290)}, // sell all GOOG
		},
	}
}

func TestTradeLedger_NetQuantity(t *testing.T) {
	ledger := testTradeLedger()

	testCases := []struct {
		name   string
		symbol string
		date   string
		want   float64
	}{
		{name: "Before any trade", symbol: "AAPL", date: "2025-01-09", want: 0},
		{name: "On the day of the first buy", symbol: "AAPL", date: "2025-01-10", want: 100},
		{name: "On the day of the sell", symbol: "AAPL", date: "2025-02-01", want: 75},
		{name: "On the day of the second buy", symbol: "AAPL", date: "2025-02-10", want: 85},
		{name: "Long after", symbol: "AAPL", date: "2025-06-01", want: 85},
		{name: "Sold out", symbol: "GOOG", date: "2025-03-01", want: 0},
		{name: "Never traded", symbol: "MSFT", date: "2025-03-01", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ledger.NetQuantity(tc.symbol, day(tc.date))
			if !got.Equal(Q(tc.want)) {
				t.Errorf("NetQuantity(%q, %s) = %v, want %v", tc.symbol, tc.date, got, tc.want)
			}
		})
	}
}

func TestTradeLedger_CostBasis(t *testing.T) {
	ledger := testTradeLedger()
	all := func(string) bool { return true }
	only := func(symbol string) func(string) bool { return func(s string) bool { return s == symbol } }

	testCases := []struct {
		name   string
		accept func(string) bool
		date   string
		want   float64
	}{
		{name: "Empty", accept: all, date: "2025-01-01", want: 0},
		{name: "First buy", accept: all, date: "2025-01-10", want: 15000},
		{name: "Both buys", accept: all, date: "2025-01-15", want: 15000 + 14000},
		// sales count negatively at their own price.
		{name: "After the sell", accept: all, date: "2025-02-01", want: 15000 + 14000 - 4000},
		{name: "AAPL only", accept: only("AAPL"), date: "2025-02-10", want: 15000 - 4000 + 1550},
		{name: "GOOG sold out at a profit", accept: only("GOOG"), date: "2025-03-01", want: 14000 - 14500},
		{name: "Nothing selected", accept: only("MSFT"), date: "2025-03-01", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ledger.CostBasis(tc.accept, day(tc.date))
			if !got.Equal(CAD(tc.want)) {
				t.Errorf("CostBasis(%s) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

func TestTradeLedger_Symbols(t *testing.T) {
	ledger := testTradeLedger()
	want := []string{"AAPL", "GOOG"}
	if got := ledger.Symbols(); !slices.Equal(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}

func TestCashLedger_Balance(t *testing.T) {
	ledger := &CashLedger{currency: DefaultCurrency}
	// insertion order does not match date order.
	ledger.append(CashEntry{Date: day("2025-02-01"), Amount: CAD(-300)})
	ledger.append(CashEntry{Date: day("2025-01-01"), Amount: CAD(1000)})
	ledger.append(CashEntry{Date: day("2025-03-01"), Amount: CAD(250.5)})

	testCases := []struct {
		date string
		want float64
	}{
		{date: "2024-12-31", want: 0},
		{date: "2025-01-01", want: 1000},
		{date: "2025-02-01", want: 700},
		{date: "2025-03-01", want: 950.5},
	}
	for _, tc := range testCases {
		if got := ledger.Balance(day(tc.date)); !got.Equal(CAD(tc.want)) {
			t.Errorf("Balance(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestCashLedger_Truncate(t *testing.T) {
	ledger := &CashLedger{currency: DefaultCurrency}
	ledger.append(CashEntry{Date: day("2025-01-01"), Amount: CAD(10)})
	ledger.append(CashEntry{Date: day("2025-01-02"), Amount: CAD(20)})
	ledger.truncate(1)

	if ledger.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ledger.Len())
	}
	if got := ledger.Balance(day("2025-12-31")); !got.Equal(CAD(10)) {
		t.Errorf("Balance() = %v, want 10", got)
	}
}

func TestTradeEntry_Cost(t *testing.T) {
	e := TradeEntry{Date: day("2025-01-01"), Symbol: "AAPL", Quantity: Q(-2.5), Price: CAD(10)}
	if got := e.Cost(); !got.Equal(CAD(-25)) {
		t.Errorf("Cost() = %v, want -25", got)
	}
}
