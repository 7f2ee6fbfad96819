package portfolio

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/FredPerr/gesport/date"
	"go.uber.org/zap"
)

// DefaultName is the name of the portfolio used when none is given.
const DefaultName = "folio"

// Portfolio owns a cash ledger and a trade ledger, and persists both in a
// Store under its name after every mutation.
//
// A Portfolio is not safe for concurrent use.
type Portfolio struct {
	name     string
	currency string
	cash     CashLedger
	trades   TradeLedger

	oracle PriceOracle
	store  Store
	clock  date.Clock
	rnd    *rand.Rand
	log    *zap.SugaredLogger
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithStore sets where the ledgers are loaded from and saved to.
func WithStore(s Store) Option { return func(p *Portfolio) { p.store = s } }

// WithClock sets the clock deciding what "today" is.
func WithClock(c date.Clock) Option { return func(p *Portfolio) { p.clock = c } }

// WithRand sets the random source of the quartile projection.
func WithRand(r *rand.Rand) Option { return func(p *Portfolio) { p.rnd = r } }

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option { return func(p *Portfolio) { p.log = l } }

// WithCurrency sets the currency every amount is expressed in.
func WithCurrency(cur string) Option { return func(p *Portfolio) { p.currency = cur } }

// Open loads the portfolio called name from its store. A portfolio that was
// never saved starts with empty ledgers.
//
// Without options, the store is in memory, the clock is the system clock and
// the random source is seeded by the runtime.
func Open(name string, oracle PriceOracle, opts ...Option) (*Portfolio, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	p := &Portfolio{
		name:     name,
		currency: DefaultCurrency,
		oracle:   oracle,
		store:    NewMemoryStore(),
		clock:    date.SystemClock{},
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(p)
	}

	ledgers, err := p.store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("could not load portfolio %q: %w", name, err)
	}
	ledgers = ledgers.in(p.currency)
	p.cash = CashLedger{entries: ledgers.Cash, currency: p.currency}
	p.trades = TradeLedger{entries: ledgers.Trades, currency: p.currency}
	p.log.Debugw("portfolio loaded", "portfolio", name, "cash", p.cash.Len(), "trades", p.trades.Len())
	return p, nil
}

// ValidateName checks that name can identify a stored portfolio.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Name returns the name of the portfolio.
func (p *Portfolio) Name() string { return p.name }

// Currency returns the currency of every amount of the portfolio.
func (p *Portfolio) Currency() string { return p.currency }

// Today returns today according to the portfolio clock.
func (p *Portfolio) Today() date.Date { return p.clock.Today() }

// Cash returns the cash ledger.
func (p *Portfolio) Cash() *CashLedger { return &p.cash }

// Trades returns the trade ledger.
func (p *Portfolio) Trades() *TradeLedger { return &p.trades }

// Ledgers returns a copy of both ledgers.
func (p *Portfolio) Ledgers() Ledgers {
	return Ledgers{
		Cash:   append([]CashEntry(nil), p.cash.entries...),
		Trades: append([]TradeEntry(nil), p.trades.entries...),
	}
}

func (p *Portfolio) checkDate(on date.Date) error { return checkNotFuture(on, p.clock.Today()) }

// commit appends the entries to the ledgers and saves the portfolio. If the
// save fails the ledgers are restored and nothing is appended.
func (p *Portfolio) commit(cash []CashEntry, trades []TradeEntry) error {
	nc, nt := p.cash.Len(), p.trades.Len()
	for _, e := range cash {
		p.cash.append(e)
	}
	for _, e := range trades {
		p.trades.record(e)
	}
	if err := p.store.Save(p.name, p.Ledgers()); err != nil {
		p.cash.truncate(nc)
		p.trades.truncate(nt)
		return fmt.Errorf("could not save portfolio %q: %w", p.name, err)
	}
	return nil
}

// Deposit adds amount to the cash ledger on day on.
func (p *Portfolio) Deposit(amount Money, on date.Date) error {
	if err := p.checkDate(on); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("cannot deposit %v: %w", amount, ErrInvalidAmount)
	}
	amount = amount.In(p.currency)
	if err := p.commit([]CashEntry{{Date: on, Amount: amount}}, nil); err != nil {
		return err
	}
	p.log.Infow("deposit", "portfolio", p.name, "date", on, "amount", amount.String())
	return nil
}

// Buy purchases quantity shares of symbol at the oracle price of day on. The
// cost is debited from the cash ledger, which must hold enough on that day.
func (p *Portfolio) Buy(symbol string, quantity Quantity, on date.Date) error {
	if err := p.checkDate(on); err != nil {
		return err
	}
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("cannot buy %v of %s: %w", quantity, symbol, ErrInvalidQuantity)
	}

	price, err := p.price(symbol, on)
	if err != nil {
		return err
	}
	cost := price.Mul(quantity)
	if balance := p.cash.Balance(on); balance.LessThan(cost) {
		p.log.Debugw("buy rejected", "symbol", symbol, "date", on, "cost", cost.String(), "balance", balance.String())
		return &InsufficientLiquidityError{Date: on, Symbol: symbol, Cost: cost, Balance: balance}
	}

	err = p.commit(
		[]CashEntry{{Date: on, Amount: cost.Neg()}},
		[]TradeEntry{{Date: on, Symbol: symbol, Quantity: quantity, Price: price}},
	)
	if err != nil {
		return err
	}
	p.log.Infow("buy", "portfolio", p.name, "date", on, "symbol", symbol, "quantity", quantity.String(), "price", price.String())
	return nil
}

// BuyAll buys quantity of each symbol in turn and stops at the first failure.
// Purchases made before the failure are kept.
func (p *Portfolio) BuyAll(symbols []string, quantity Quantity, on date.Date) error {
	for _, symbol := range symbols {
		if err := p.Buy(symbol, quantity, on); err != nil {
			return err
		}
	}
	return nil
}

// Sell sells quantity shares of symbol at the oracle price of day on. The
// position held on that day must cover the quantity. Proceeds are credited to
// the cash ledger.
func (p *Portfolio) Sell(symbol string, quantity Quantity, on date.Date) error {
	if err := p.checkDate(on); err != nil {
		return err
	}
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("cannot sell %v of %s: %w", quantity, symbol, ErrInvalidQuantity)
	}

	if held := p.trades.NetQuantity(symbol, on); held.LessThan(quantity) {
		p.log.Debugw("sell rejected", "symbol", symbol, "date", on, "quantity", quantity.String(), "held", held.String())
		return &InsufficientQuantityError{Date: on, Symbol: symbol, Requested: quantity, Held: held}
	}

	price, err := p.price(symbol, on)
	if err != nil {
		return err
	}
	err = p.commit(
		[]CashEntry{{Date: on, Amount: price.Mul(quantity)}},
		[]TradeEntry{{Date: on, Symbol: symbol, Quantity: quantity.Neg(), Price: price}},
	)
	if err != nil {
		return err
	}
	p.log.Infow("sell", "portfolio", p.name, "date", on, "symbol", symbol, "quantity", quantity.String(), "price", price.String())
	return nil
}

// price asks the oracle for the price of symbol on day on.
func (p *Portfolio) price(symbol string, on date.Date) (Money, error) {
	price, err := p.oracle.Price(symbol, on)
	if err != nil {
		return Money{}, fmt.Errorf("could not get the price of %s on %s: %w", symbol, on, err)
	}
	return M(price, p.currency), nil
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", ErrInvalidSymbol
	}
	return symbol, nil
}
