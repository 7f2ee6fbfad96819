// Package bourse implements portfolio.PriceOracle on top of the historical
// quotes web service.
//
// A quote request looks like
//
//	GET https://pax.ulaval.ca/action/AAPL/historique/?début=2024-01-02&fin=2024-01-05
//
// and is answered with one bar per trading day:
//
//	{"historique": {"2024-01-02": {"fermeture": 185.64, "ouverture": 187.15, "min": 183.89, "max": 188.44, "volume": 82488700}}}
//
// or with {"message d'erreur": "..."} when the request cannot be served.
package bourse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/date"
	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the address of the quote service.
const DefaultBaseURL = "https://pax.ulaval.ca"

// Lookback is how many days before the requested one Price searches for a
// close. It covers week-ends and most holidays.
const Lookback = 3

// Default settings of a Client.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultRatePerSecond = 5
)

// errorMessagePath selects the error message of a failed request. The key
// holds a quote, which json struct tags cannot express.
const errorMessagePath = `$["message d'erreur"]`

// APIError is an error reported by the quote service itself.
type APIError struct {
	Symbol  string
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Symbol, e.Message) }

// Client queries the quote service. It implements portfolio.PriceOracle.
type Client struct {
	baseURL string
	http    *http.Client
	clock   date.Clock
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *zap.SugaredLogger

	cacheDir string
}

var _ portfolio.PriceOracle = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the address of the quote service.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") } }

// WithHTTPClient sets the http client used to reach the service.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithClock sets the clock used to reject future dates.
func WithClock(clock date.Clock) Option { return func(c *Client) { c.clock = clock } }

// WithTimeout bounds every request, rate limiting included.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithRate limits the number of requests per second. Zero or less removes the
// limit.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option { return func(c *Client) { c.log = l } }

// WithDailyCache keeps successful responses in dir until the end of the day.
func WithDailyCache(dir string) Option { return func(c *Client) { c.cacheDir = dir } }

// New returns a Client for the quote service.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    new(http.Client),
		clock:   date.SystemClock{},
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(DefaultRatePerSecond, 1),
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheDir != "" {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		cached := *c.http
		cached.Transport = &diskCache{base: base, dir: c.cacheDir, clock: c.clock, log: c.log}
		c.http = &cached
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bourse",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// the service answered, it is not failing.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			return err == nil || errors.As(err, &apiErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warnw("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Price returns the close of symbol on day on, or the last close in the
// Lookback days before when the market was closed that day.
func (c *Client) Price(symbol string, on date.Date) (decimal.Decimal, error) {
	if err := portfolio.CheckNotFuture(on, c.clock); err != nil {
		return decimal.Zero, err
	}
	series, err := c.History(symbol, on.Add(-Lookback), on)
	if err != nil {
		return decimal.Zero, err
	}
	_, price, ok := series.LatestClose(on)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s between %s and %s: %w", symbol, on.Add(-Lookback), on, portfolio.ErrNoPrice)
	}
	return price, nil
}

// History returns the daily bars of symbol from 'from' to 'to', both included.
func (c *Client) History(symbol string, from, to date.Date) (portfolio.Series, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.HistoryContext(ctx, symbol, from, to)
}

// HistoryContext is History bounded by ctx.
func (c *Client) HistoryContext(ctx context.Context, symbol string, from, to date.Date) (portfolio.Series, error) {
	if _, err := date.NewRange(from, to); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, portfolio.ErrInvalidSymbol
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	addr := c.historyURL(symbol, from, to)
	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, symbol, addr)
	})
	if err != nil {
		return nil, err
	}
	return v.(portfolio.Series), nil
}

func (c *Client) historyURL(symbol string, from, to date.Date) string {
	q := url.Values{}
	q.Set("début", from.String())
	q.Set("fin", to.String())
	return fmt.Sprintf("%s/action/%s/historique/?%s", c.baseURL, url.PathEscape(symbol), q.Encode())
}

// bar is the wire format of a day of quotes. Numbers may come quoted.
type bar struct {
	Close  decimal.Decimal `json:"fermeture"`
	Open   decimal.Decimal `json:"ouverture"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Volume decimal.Decimal `json:"volume"`
}

// get performs the request and decodes the series.
func (c *Client) get(ctx context.Context, symbol, addr string) (portfolio.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot get the history of %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read the history of %s: %w", symbol, err)
	}
	c.log.Debugw("quote service", "symbol", symbol, "status", resp.StatusCode, "bytes", buf.Len())

	var jobj any
	if err := json.Unmarshal(buf.Bytes(), &jobj); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
		}
		return nil, fmt.Errorf("invalid history of %s: %w", symbol, err)
	}
	if msg, ok := errorMessage(jobj); ok {
		return nil, &APIError{Symbol: symbol, Message: msg}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var payload struct {
		History map[string]bar `json:"historique"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		return nil, fmt.Errorf("invalid history of %s: %w", symbol, err)
	}
	series := make(portfolio.Series, len(payload.History))
	for day, b := range payload.History {
		on, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("invalid history of %s: %w", symbol, err)
		}
		series[on] = portfolio.Bar{Open: b.Open, Close: b.Close, Min: b.Min, Max: b.Max, Volume: b.Volume.IntPart()}
	}
	return series, nil
}

// errorMessage extracts the error message of a failed request, if any.
func errorMessage(jobj any) (string, bool) {
	jval, err := jsonpath.Get(errorMessagePath, jobj)
	if err != nil {
		return "", false
	}
	// jsonpath may answer a list of one.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	msg, ok := jval.(string)
	return msg, ok
}
