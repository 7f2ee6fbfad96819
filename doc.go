// Package portfolio tracks the cash and the equity positions of an investor
// over time.
//
// A Portfolio records two append-only ledgers: the cash ledger (deposits,
// purchase debits, sale proceeds) and the trade ledger (symbol, signed
// quantity, execution price). Nothing is ever edited or removed; every
// question is answered by replaying the entries dated on or before the day
// asked about.
//
// The core functionalities include:
//   - Ledger Management: Deposit, Buy and Sell validate against the state of
//     the ledgers on the transaction date, then append and save.
//   - Holdings: the net quantity per symbol on any past day.
//   - Valuation: cost basis (execution prices) with PositionsValue, market
//     value (oracle prices) with MarketValue, never mixed.
//   - Projection: compound growth with ProjectValue and a simulated spread of
//     returns with Quartiles.
//   - Data Persistence: both ledgers saved as one json document per portfolio
//     name, see EncodeLedgers.
//
// Prices come from a PriceOracle; see package bourse for the HTTP one.
package portfolio
