package portfolio

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
)

// this file contains the export format: a flat, spreadsheet friendly journal
// of both ledgers.

// journalRow is one line of the exported journal.
type journalRow struct {
	Date     string `csv:"date"`
	Ledger   string `csv:"ledger"`
	Symbol   string `csv:"symbol"`
	Quantity string `csv:"quantity"`
	Price    string `csv:"price"`
	Amount   string `csv:"amount"`
}

const (
	cashLedgerName  = "cash"
	tradeLedgerName = "trade"
)

// ExportCSV writes every entry of both ledgers to w as CSV, in date order.
//
// Cash rows carry the signed amount. Trade rows carry the signed quantity, the
// execution price, and the amount the trade moved in or out of the cash
// ledger.
func (p *Portfolio) ExportCSV(w io.Writer) error {
	rows := make([]journalRow, 0, p.cash.Len()+p.trades.Len())
	for e := range p.cash.Entries() {
		rows = append(rows, journalRow{
			Date:   e.Date.String(),
			Ledger: cashLedgerName,
			Amount: e.Amount.Decimal().String(),
		})
	}
	for e := range p.trades.Entries() {
		rows = append(rows, journalRow{
			Date:     e.Date.String(),
			Ledger:   tradeLedgerName,
			Symbol:   e.Symbol,
			Quantity: e.Quantity.String(),
			Price:    e.Price.Decimal().String(),
			Amount:   e.Cost().Neg().Decimal().String(),
		})
	}
	// ISO-8601 dates sort as strings. Same day rows keep cash before trades.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("cannot write journal: %w", err)
	}
	return nil
}
