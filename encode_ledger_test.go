package portfolio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/FredPerr/gesport/date"
	"github.com/google/go-cmp/cmp"
)

// dateComparer lets cmp compare dates, whose fields are unexported.
var dateComparer = cmp.Comparer(func(a, b date.Date) bool { return a == b })

// cmpLedgers returns a human readable diff of two ledgers, or "".
func cmpLedgers(want, got Ledgers) string { return cmp.Diff(want, got, dateComparer) }

func TestEncodeLedgers(t *testing.T) {
	testCases := []struct {
		name    string
		ledgers Ledgers
		want    string
	}{
		{
			name:    "Empty",
			ledgers: Ledgers{},
			want:    `{"courant":[],"courtage":[]}`,
		},
		{
			name: "Both ledgers",
			ledgers: Ledgers{
				Cash: []CashEntry{
					{Date: day("2024-01-02"), Amount: CAD(1000)},
					{Date: day("2024-01-03"), Amount: CAD(-361)},
				},
				Trades: []TradeEntry{
					{Date: day("2024-01-03"), Symbol: "AAPL", Quantity: Q(2), Price: CAD(180.5)},
				},
			},
			want: `{"courant":[["2024-01-02",1000],["2024-01-03",-361]],"courtage":[["2024-01-03","AAPL",2,180.5]]}`,
		},
		{
			name: "Sell is a negative quantity",
			ledgers: Ledgers{
				Trades: []TradeEntry{
					{Date: day("2024-02-01"), Symbol: "TD", Quantity: Q(-1.5), Price: CAD(80)},
				},
			},
			want: `{"courant":[],"courtage":[["2024-02-01","TD",-1.5,80]]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeLedgers(&buf, tc.ledgers); err != nil {
				t.Fatalf("EncodeLedgers() error = %v", err)
			}
			if got := strings.TrimSpace(buf.String()); got != tc.want {
				t.Errorf("EncodeLedgers() =\n%s\nwant\n%s", got, tc.want)
			}
		})
	}
}

func TestDecodeLedgers(t *testing.T) {
	input := `{"courant":[["2024-01-02",1000],["2024-01-03",-361]],"courtage":[["2024-01-03","AAPL",2,180.5]]}`
	got, err := DecodeLedgers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedgers() error = %v", err)
	}
	got = got.in(DefaultCurrency)

	want := Ledgers{
		Cash: []CashEntry{
			{Date: day("2024-01-02"), Amount: CAD(1000)},
			{Date: day("2024-01-03"), Amount: CAD(-361)},
		},
		Trades: []TradeEntry{
			{Date: day("2024-01-03"), Symbol: "AAPL", Quantity: Q(2), Price: CAD(180.5)},
		},
	}
	if diff := cmp.Diff(want, got, dateComparer); diff != "" {
		t.Errorf("DecodeLedgers() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeLedgers_Empty(t *testing.T) {
	for _, input := range []string{"", "\n", `{}`, `{"courant":[],"courtage":[]}`} {
		got, err := DecodeLedgers(strings.NewReader(input))
		if err != nil {
			t.Errorf("DecodeLedgers(%q) error = %v", input, err)
			continue
		}
		if len(got.Cash) != 0 || len(got.Trades) != 0 {
			t.Errorf("DecodeLedgers(%q) = %v, want empty ledgers", input, got)
		}
	}
}

func TestDecodeLedgers_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "Not json", input: `courant`},
		{name: "Short cash entry", input: `{"courant":[["2024-01-02"]]}`},
		{name: "Bad date", input: `{"courant":[["02/01/2024",10]]}`},
		{name: "Bad amount", input: `{"courant":[["2024-01-02","ten"]]}`},
		{name: "Short trade entry", input: `{"courtage":[["2024-01-03","AAPL",2]]}`},
		{name: "Bad quantity", input: `{"courtage":[["2024-01-03","AAPL","two",180.5]]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeLedgers(strings.NewReader(tc.input)); err == nil {
				t.Errorf("DecodeLedgers(%s) succeeded, want an error", tc.input)
			}
		})
	}
}

func TestLedgersRoundTrip(t *testing.T) {
	want := Ledgers{
		Cash: []CashEntry{
			{Date: day("2024-03-01"), Amount: CAD(0.1)},
			{Date: day("2024-02-01"), Amount: CAD(2500.25)},
		},
		Trades: []TradeEntry{
			{Date: day("2024-03-01"), Symbol: "SHOP", Quantity: Q(0.333), Price: CAD(101.01)},
		},
	}
	var buf bytes.Buffer
	if err := EncodeLedgers(&buf, want); err != nil {
		t.Fatalf("EncodeLedgers() error = %v", err)
	}
	got, err := DecodeLedgers(&buf)
	if err != nil {
		t.Fatalf("DecodeLedgers() error = %v", err)
	}
	// insertion order is kept, even when it is not the date order.
	if diff := cmp.Diff(want, got.in(DefaultCurrency), dateComparer); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
