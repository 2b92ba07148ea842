// Package rates resolves UYU-per-USD exchange rates from public APIs
// with a hardcoded last-resort fallback.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
	"eucalito/internal/ports"
)

const (
	defaultLiveURL       = "https://open.er-api.com/v6/latest/USD"
	defaultHistoricalURL = "https://api.frankfurter.app"
	requestTimeout       = 10 * time.Second
)

// Client looks up rates from a live endpoint for current dates and a
// historical endpoint for past dates. Lookup failures degrade to the
// fallback rate instead of erroring: enrichment must never block entry
// creation.
type Client struct {
	httpClient    *http.Client
	liveURL       string
	historicalURL string
	fallback      decimal.Decimal
}

func NewClient() *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		liveURL:       defaultLiveURL,
		historicalURL: defaultHistoricalURL,
		fallback:      core.FallbackUYURate,
	}
}

// UYURate implements ports.RateProvider.
func (c *Client) UYURate(ctx context.Context, date core.Date) (decimal.Decimal, ports.RateSource) {
	today := core.Today()
	if !date.Before(today.Time) {
		if rate, err := c.fetchLive(ctx); err == nil {
			return rate, ports.RateLive
		} else {
			slog.WarnContext(ctx, "live rate lookup failed", "error", err)
		}
	} else {
		if rate, err := c.fetchHistorical(ctx, date); err == nil {
			return rate, ports.RateHistorical
		} else {
			slog.WarnContext(ctx, "historical rate lookup failed",
				"date", date.ISO(), "error", err)
		}
		// The historical API lags a few days behind; the live rate is a
		// better guess than the hardcoded one for recent dates.
		if rate, err := c.fetchLive(ctx); err == nil {
			return rate, ports.RateLive
		}
	}

	slog.WarnContext(ctx, "using fallback exchange rate",
		"date", date.ISO(), "rate", c.fallback.String())
	return c.fallback, ports.RateFallback
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) fetchLive(ctx context.Context) (decimal.Decimal, error) {
	return c.fetch(ctx, c.liveURL)
}

func (c *Client) fetchHistorical(ctx context.Context, date core.Date) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s?from=USD&to=UYU", c.historicalURL, date.ISO())
	return c.fetch(ctx, url)
}

func (c *Client) fetch(ctx context.Context, url string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("fetch rate: status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode rate response: %w", err)
	}

	raw, ok := body.Rates["UYU"]
	if !ok || raw <= 0 {
		return decimal.Decimal{}, fmt.Errorf("no usable UYU rate in response")
	}
	return decimal.NewFromFloat(raw), nil
}
