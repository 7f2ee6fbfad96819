package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/FredPerr/gesport/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Ledgers is what a Store keeps for a portfolio.
type Ledgers struct {
	Cash   []CashEntry
	Trades []TradeEntry
}

// in tags every amount with currency.
func (l Ledgers) in(currency string) Ledgers {
	for i, e := range l.Cash {
		l.Cash[i].Amount = e.Amount.In(currency)
	}
	for i, e := range l.Trades {
		l.Trades[i].Price = e.Price.In(currency)
	}
	return l
}

// MarshalJSON writes the entry as ["YYYY-MM-DD", amount].
func (e CashEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Date, e.Amount.value})
}

// UnmarshalJSON reads ["YYYY-MM-DD", amount].
func (e *CashEntry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 2 {
		return fmt.Errorf("cash entry %s: want 2 fields, got %d", data, len(fields))
	}
	var (
		on     date.Date
		amount decimal.Decimal
	)
	if err := json.Unmarshal(fields[0], &on); err != nil {
		return fmt.Errorf("cash entry %s: %w", data, err)
	}
	if err := json.Unmarshal(fields[1], &amount); err != nil {
		return fmt.Errorf("cash entry %s: invalid amount: %w", data, err)
	}
	*e = CashEntry{Date: on, Amount: M(amount, "")}
	return nil
}

// MarshalJSON writes the entry as ["YYYY-MM-DD", symbol, quantity, price].
func (e TradeEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Date, e.Symbol, e.Quantity, e.Price.value})
}

// UnmarshalJSON reads ["YYYY-MM-DD", symbol, quantity, price].
func (e *TradeEntry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 4 {
		return fmt.Errorf("trade entry %s: want 4 fields, got %d", data, len(fields))
	}
	var (
		on       date.Date
		symbol   string
		quantity Quantity
		price    decimal.Decimal
	)
	if err := json.Unmarshal(fields[0], &on); err != nil {
		return fmt.Errorf("trade entry %s: %w", data, err)
	}
	if err := json.Unmarshal(fields[1], &symbol); err != nil {
		return fmt.Errorf("trade entry %s: invalid symbol: %w", data, err)
	}
	if err := json.Unmarshal(fields[2], &quantity); err != nil {
		return fmt.Errorf("trade entry %s: invalid quantity: %w", data, err)
	}
	if err := json.Unmarshal(fields[3], &price); err != nil {
		return fmt.Errorf("trade entry %s: invalid price: %w", data, err)
	}
	*e = TradeEntry{Date: on, Symbol: symbol, Quantity: quantity, Price: M(price, "")}
	return nil
}

// EncodeLedgers writes both ledgers to w as a single json object:
//
//	{"courant":[["2024-01-02",1000]],"courtage":[["2024-01-03","AAPL",2,180.5]]}
//
// "courant" is the cash ledger, "courtage" the trade ledger. The key order is
// fixed.
func EncodeLedgers(w io.Writer, l Ledgers) error {
	cash, trades := l.Cash, l.Trades
	// empty ledgers are written as [] rather than null.
	if cash == nil {
		cash = []CashEntry{}
	}
	if trades == nil {
		trades = []TradeEntry{}
	}

	var jw jsonObjectWriter
	jw.Append("courant", cash)
	jw.Append("courtage", trades)
	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal ledgers: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write ledgers: %w", err)
	}
	return nil
}

// DecodeLedgers reads ledgers written by EncodeLedgers. Amounts carry no
// currency.
func DecodeLedgers(r io.Reader) (Ledgers, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return Ledgers{}, fmt.Errorf("error reading from input: %w", err)
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return Ledgers{}, nil
	}
	var stored struct {
		Cash   []CashEntry  `json:"courant"`
		Trades []TradeEntry `json:"courtage"`
	}
	if err := json.Unmarshal(buf.Bytes(), &stored); err != nil {
		return Ledgers{}, fmt.Errorf("could not decode ledgers: %w", err)
	}
	return Ledgers{Cash: stored.Cash, Trades: stored.Trades}, nil
}
