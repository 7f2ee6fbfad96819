package bourse

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/date"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

var today = date.New(2024, time.January, 8)

// movingClock is a clock that tests can move forward.
type movingClock struct{ today date.Date }

func (c *movingClock) Today() date.Date { return c.today }

// quoteServer serves body for every request and counts them.
func quoteServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithClock(date.Fixed(today)),
		WithRate(0),
	}, opts...)
	return New(opts...)
}

const twoDays = `{"historique": {
	"2024-01-04": {"fermeture": 181.91, "ouverture": 182.15, "min": 180.88, "max": 183.08, "volume": 71983600},
	"2024-01-05": {"fermeture": 181.18, "ouverture": 181.99, "min": 180.17, "max": 182.76, "volume": 62303300}
}}`

func TestClient_History(t *testing.T) {
	var gotPath, gotFrom, gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFrom = r.URL.Query().Get("début")
		gotTo = r.URL.Query().Get("fin")
		fmt.Fprint(w, twoDays)
	}))
	defer srv.Close()
	c := newTestClient(srv)

	series, err := c.History(" aapl", date.MustParse("2024-01-01"), date.MustParse("2024-01-05"))
	require.NoError(t, err)

	require.Equal(t, "/action/AAPL/historique/", gotPath)
	require.Equal(t, "2024-01-01", gotFrom)
	require.Equal(t, "2024-01-05", gotTo)

	require.Len(t, series, 2)
	b := series[date.MustParse("2024-01-05")]
	require.True(t, b.Close.Equal(decimal.RequireFromString("181.18")), "close = %v", b.Close)
	require.True(t, b.Open.Equal(decimal.RequireFromString("181.99")), "open = %v", b.Open)
	require.True(t, b.Min.Equal(decimal.RequireFromString("180.17")), "min = %v", b.Min)
	require.True(t, b.Max.Equal(decimal.RequireFromString("182.76")), "max = %v", b.Max)
	require.Equal(t, int64(62303300), b.Volume)
}

func TestClient_HistoryQuotedNumbers(t *testing.T) {
	srv, _ := quoteServer(t, http.StatusOK, `{"historique": {"2024-01-05": {"fermeture": "10.5", "ouverture": "10", "min": "9.5", "max": "11", "volume": "1200"}}}`)
	series, err := newTestClient(srv).History("TD", date.MustParse("2024-01-05"), date.MustParse("2024-01-05"))
	require.NoError(t, err)
	require.True(t, series[date.MustParse("2024-01-05")].Close.Equal(decimal.RequireFromString("10.5")))
	require.Equal(t, int64(1200), series[date.MustParse("2024-01-05")].Volume)
}

func TestClient_HistoryInvertedRange(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusOK, twoDays)
	_, err := newTestClient(srv).History("AAPL", date.MustParse("2024-01-05"), date.MustParse("2024-01-01"))
	require.Error(t, err)
	require.Zero(t, hits.Load())
}

func TestClient_Price(t *testing.T) {
	srv, _ := quoteServer(t, http.StatusOK, twoDays)
	c := newTestClient(srv)

	testCases := []struct {
		name string
		on   string
		want string
	}{
		{name: "Trading day", on: "2024-01-05", want: "181.18"},
		// the server answers the whole series, later days are ignored.
		{name: "Later days", on: "2024-01-04", want: "181.91"},
		{name: "Week-end", on: "2024-01-07", want: "181.18"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Price("AAPL", date.MustParse(tc.on))
			require.NoError(t, err)
			require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "Price(%s) = %v, want %s", tc.on, got, tc.want)
		})
	}
}

func TestClient_PriceFutureDate(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusOK, twoDays)
	_, err := newTestClient(srv).Price("AAPL", today.Add(1))

	var future *portfolio.FutureDateError
	require.ErrorAs(t, err, &future)
	require.ErrorIs(t, err, portfolio.ErrFutureDate)
	require.Zero(t, hits.Load(), "a future date must not reach the service")
}

func TestClient_PriceNoClose(t *testing.T) {
	srv, _ := quoteServer(t, http.StatusOK, `{"historique": {}}`)
	_, err := newTestClient(srv).Price("AAPL", today)
	require.ErrorIs(t, err, portfolio.ErrNoPrice)
}

func TestClient_APIError(t *testing.T) {
	srv, _ := quoteServer(t, http.StatusNotFound, `{"message d'erreur": "Symbole inconnu: XYZ"}`)
	_, err := newTestClient(srv).Price("xyz", today)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "XYZ", apiErr.Symbol)
	require.Equal(t, "Symbole inconnu: XYZ", apiErr.Message)
}

func TestClient_HTTPError(t *testing.T) {
	srv, _ := quoteServer(t, http.StatusInternalServerError, `oops`)
	_, err := newTestClient(srv).Price("AAPL", today)
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestClient_CircuitBreaker(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusBadGateway, `bad gateway`)
	c := newTestClient(srv)

	for i := 0; i < 3; i++ {
		_, err := c.Price("AAPL", today)
		require.Error(t, err)
	}
	_, err := c.Price("AAPL", today)
	require.True(t, errors.Is(err, gobreaker.ErrOpenState), "error = %v, want %v", err, gobreaker.ErrOpenState)
	require.EqualValues(t, 3, hits.Load())
}

func TestClient_APIErrorsDoNotTrip(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusOK, `{"message d'erreur": "Symbole inconnu"}`)
	c := newTestClient(srv)
	for i := 0; i < 5; i++ {
		_, err := c.Price("XYZ", today)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
	}
	require.EqualValues(t, 5, hits.Load())
}

func TestClient_RateLimit(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusOK, twoDays)
	c := newTestClient(srv, WithRate(0.001), WithTimeout(50*time.Millisecond))

	_, err := c.Price("AAPL", today)
	require.NoError(t, err)
	// the next token is a thousand seconds away.
	_, err = c.Price("AAPL", today)
	require.ErrorContains(t, err, "rate limiter")
	require.EqualValues(t, 1, hits.Load())
}

func TestClient_DailyCache(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusOK, twoDays)
	clock := &movingClock{today: today}
	c := newTestClient(srv, WithClock(clock), WithDailyCache(t.TempDir()))

	for i := 0; i < 3; i++ {
		got, err := c.Price("AAPL", date.MustParse("2024-01-05"))
		require.NoError(t, err)
		require.True(t, got.Equal(decimal.RequireFromString("181.18")))
	}
	require.EqualValues(t, 1, hits.Load())

	// the cache expires with the day.
	clock.today = today.Add(1)
	_, err := c.Price("AAPL", date.MustParse("2024-01-05"))
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
}

func TestClient_DailyCacheSkipsErrors(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusServiceUnavailable, `{"message d'erreur": "maintenance"}`)
	c := newTestClient(srv, WithDailyCache(t.TempDir()))
	for i := 0; i < 2; i++ {
		_, err := c.Price("AAPL", today)
		require.Error(t, err)
	}
	require.EqualValues(t, 2, hits.Load())
}

func TestClient_DailyCacheSkipsAPIErrors(t *testing.T) {
	srv, hits := quoteServer(t, http.StatusOK, `{"message d'erreur": "symbole inconnu"}`)
	c := newTestClient(srv, WithDailyCache(t.TempDir()))
	for i := 0; i < 2; i++ {
		_, err := c.Price("XYZ", today)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "symbole inconnu", apiErr.Message)
	}
	require.EqualValues(t, 2, hits.Load())
}
